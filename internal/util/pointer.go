package util

import (
	"time"

	"github.com/shopspring/decimal"
)

func DecimalPointer(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TimePointer(t time.Time) *time.Time {
	return &t
}

func StringPointer(s string) *string {
	return &s
}

func IntPointer(i int) *int {
	return &i
}
