package domain

import (
	"github.com/shopspring/decimal"
)

// Line is anything priced per unit and bought in some quantity.
type Line interface {
	UnitPrice() float64
	Units() int
}

// Total sums unit price times quantity over lines in decimal and rounds to cents.
func Total[L Line](lines []L) float64 {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.UnitPrice()).Mul(decimal.NewFromInt(int64(l.Units()))))
	}
	return sum.Round(2).InexactFloat64()
}

// SameAmount compares two money values at cent precision.
func SameAmount(a, b float64) bool {
	return decimal.NewFromFloat(a).Round(2).Equal(decimal.NewFromFloat(b).Round(2))
}
