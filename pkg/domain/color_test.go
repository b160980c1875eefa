package domain_test

import (
	"testing"

	"github.com/aretw0/algorist/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestHSVA_RGBA(t *testing.T) {
	tests := []struct {
		name string
		in   domain.HSVA
		want domain.RGBA
	}{
		{"white", domain.DefaultColor, domain.RGBA{R: 1, G: 1, B: 1, A: 1}},
		{"red", domain.HSVA{H: 0, S: 1, V: 1, A: 1}, domain.RGBA{R: 1, G: 0, B: 0, A: 1}},
		{"green", domain.HSVA{H: 1.0 / 3, S: 1, V: 1, A: 0.5}, domain.RGBA{R: 0, G: 1, B: 0, A: 0.5}},
		{"negative hue wraps", domain.HSVA{H: -1.0 / 3, S: 1, V: 1, A: 1}, domain.RGBA{R: 0, G: 0, B: 1, A: 1}},
		{"black", domain.HSVA{H: 0.7, S: 0.3, V: 0, A: 1}, domain.RGBA{R: 0, G: 0, B: 0, A: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.RGBA()
			assert.InDelta(t, tt.want.R, got.R, 1e-9)
			assert.InDelta(t, tt.want.G, got.G, 1e-9)
			assert.InDelta(t, tt.want.B, got.B, 1e-9)
			assert.Equal(t, tt.want.A, got.A)
		})
	}
}

func TestNewMaterial_BlendsWhenTransparent(t *testing.T) {
	assert.False(t, domain.NewMaterial(domain.RGBA{A: 1}).Blend)
	assert.True(t, domain.NewMaterial(domain.RGBA{A: 0.99}).Blend)
}

func TestRGBA_Hex(t *testing.T) {
	assert.Equal(t, "#ff0000", domain.RGBA{R: 1, A: 1}.Hex())
}
