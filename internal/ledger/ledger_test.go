package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	cases := []struct {
		name    string
		current int
		delta   int
		want    int
	}{
		{"sale within stock", 10, -6, 4},
		{"sale to exactly zero", 6, -6, 0},
		{"clamped below zero", 5, -6, 0},
		{"receipt credits stock", 4, 12, 16},
		{"receipt from zero", 0, 24, 24},
		{"no-op delta", 7, 0, 7},
		{"clamp from zero", 0, -1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Apply(tc.current, tc.delta))
		})
	}
}

func TestSaleDelta(t *testing.T) {
	// one pack of six
	assert.Equal(t, -6, SaleDelta(6, 1))
	// three base units
	assert.Equal(t, -3, SaleDelta(1, 3))
	// two packs of twelve
	assert.Equal(t, -24, SaleDelta(12, 2))
}

func TestReceiptDelta(t *testing.T) {
	assert.Equal(t, 30, ReceiptDelta(30))
}

func TestRequiredBaseUnits(t *testing.T) {
	assert.Equal(t, 6, RequiredBaseUnits(6, 1))
	assert.Equal(t, 6, RequiredBaseUnits(1, 6))
	assert.Equal(t, 36, RequiredBaseUnits(6, 6))
}
