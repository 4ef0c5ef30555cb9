package domain

import "github.com/shopspring/decimal"

// Round rounds v half away from zero to the given number of decimal places.
// The value is converted through its shortest decimal representation, so
// 1.005 rounds to 1.01 rather than falling foul of binary float error.
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// LineTotal is the money amount for kg at rate, rounded to 2 places.
func LineTotal(kg, rate float64) float64 {
	f, _ := decimal.NewFromFloat(kg).Mul(decimal.NewFromFloat(rate)).Round(2).Float64()
	return f
}

// sum adds values exactly and rounds the result to 2 places.
func sum(values []float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Round(2).Float64()
	return f
}
