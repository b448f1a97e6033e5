package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name    string
		price   int64
		percent int
		want    int64
	}{
		{"no discount", 500, 0, 500},
		{"half price", 1000, 50, 500},
		{"floors the result", 999, 33, 669},
		{"single shard floors to zero", 1, 50, 0},
		{"negative percent ignored", 500, -10, 500},
		{"full discount", 500, 100, 0},
		{"over full discount clamped", 500, 150, 0},
		{"one percent", 100, 1, 99},
		{"ninety nine percent", 100, 99, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountedPrice(tt.price, tt.percent))
		})
	}
}
