package utils

import "github.com/shopspring/decimal"

// Round rounds half away from zero to the given number of decimal places.
func Round(value float64, places int32) float64 {
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}

// Clamp bounds value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// TenthsToUnits converts an integer amount of tenths (e.g. 55) to units (5.5).
func TenthsToUnits(tenths int) float64 {
	return decimal.New(int64(tenths), -1).InexactFloat64()
}
