package common

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const GermanDate = "02.01.2006"

var german = message.NewPrinter(language.German)

// FormatNumberDE formats n with German digit grouping, e.g. 1250 -> "1.250".
func FormatNumberDE(n int) string {
	return german.Sprintf("%d", n)
}

// FormatDateDE formats t as dd.MM.yyyy.
func FormatDateDE(t time.Time) string {
	return t.Format(GermanDate)
}

func FormatBytes(b uint64) string {
	units := []string{"B", "KB", "MB", "GB", "TB", "PB"}
	unitIndex := 0
	size := float64(b)

	for size >= 1024 && unitIndex < len(units)-1 {
		size /= 1024
		unitIndex++
	}
	return fmt.Sprintf("%.2f%s", size, units[unitIndex])
}

// FormatDuration renders seconds as "3d 4h 5m".
func FormatDuration(seconds uint64) string {
	d := seconds / 86400
	h := seconds % 86400 / 3600
	m := seconds % 3600 / 60
	if d > 0 {
		return fmt.Sprintf("%dd %dh %dm", d, h, m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
