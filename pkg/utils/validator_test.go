package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Date   string  `json:"date" validate:"required,isodate"`
	Month  string  `json:"month" validate:"omitempty,yearmonth"`
	Guests int     `json:"guests" validate:"required,min=1"`
	Price  float64 `json:"price" validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(sampleRequest{Date: "2025-06-01", Guests: 2, Price: 10})
	assert.Empty(t, errs)

	errs = ValidateStruct(sampleRequest{Date: "06/01/2025", Month: "2025-6", Guests: 0, Price: -1})
	assert.Equal(t, "Must be a date in YYYY-MM-DD format", errs["date"])
	assert.Equal(t, "Must be a month in YYYY-MM format", errs["month"])
	assert.Equal(t, "This field is required", errs["guests"])
	assert.Contains(t, errs["price"], "greater than or equal")
}

func TestFormatValidationErrors(t *testing.T) {
	msg := FormatValidationErrors(map[string]string{"date": "This field is required"})
	assert.Equal(t, "date: This field is required", msg)
}
