package service

import (
	"fmt"
	"math"
	"time"
)

const (
	TreesPerHectare = 625
	BaseTreeValue   = 255.0
	YearlyIncrease  = 63.75
	MaxYears        = 8
)

// CalculateHectares rounds up, so a single tree occupies a whole hectare.
func CalculateHectares(trees int) int {
	if trees <= 0 {
		return 0
	}
	return int(math.Ceil(float64(trees) / TreesPerHectare))
}

// CalculateValuePerTree values a tree bought in year, growing for at most MaxYears.
func CalculateValuePerTree(year int, now time.Time) float64 {
	years := min(now.Year()-year, MaxYears)
	return max(BaseTreeValue, BaseTreeValue+float64(years)*YearlyIncrease)
}

// FormatHectares prints two decimals, as shown in the order mail.
func FormatHectares(hectares int) string {
	return fmt.Sprintf("%.2f", float64(hectares))
}
