package controller

import (
	"fmt"
	"html/template"

	"github.com/next-levels/go-cms/util/common"
)

// FuncMap holds the formatting helpers available in every page template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"number":   formatNumber,
		"date":     common.FormatDateDE,
		"bytes":    common.FormatBytes,
		"duration": common.FormatDuration,
	}
}

func formatNumber(v any) string {
	switch n := v.(type) {
	case int:
		return common.FormatNumberDE(n)
	case int64:
		return common.FormatNumberDE(int(n))
	case uint64:
		return common.FormatNumberDE(int(n))
	}
	return fmt.Sprint(v)
}
