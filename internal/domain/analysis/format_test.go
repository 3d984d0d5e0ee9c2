package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"950", "950"},
		{"1500", "1,500"},
		{"1234567", "1,234,567"},
		{"-2000", "-2,000"},
		{"1999.6", "2,000"}, // rounded, not truncated
		{"10.4", "10"},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, formatMoney(d), "in=%s", tt.in)
	}
}

func TestFormatPercentDelta(t *testing.T) {
	assert.Equal(t, "غير متاح", formatPercentDelta(nil))

	up := 12.34
	assert.Equal(t, "+12.3%", formatPercentDelta(&up))

	down := -7.0
	assert.Equal(t, "-7.0%", formatPercentDelta(&down))

	flat := 0.0
	assert.Equal(t, "+0.0%", formatPercentDelta(&flat))
}

func TestFormatPointDelta(t *testing.T) {
	assert.Equal(t, "غير متاح", formatPointDelta(nil))

	v := -25.0
	assert.Equal(t, "-25.0 نقطة", formatPointDelta(&v))
}

func TestFormatPercentValue(t *testing.T) {
	assert.Equal(t, "-7.5%", formatPercentValue(-7.5))
	assert.Equal(t, "33.3%", formatPercentValue(33.333))
}
