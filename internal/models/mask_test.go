package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskCard(t *testing.T) {
	tests := []struct {
		name     string
		card     string
		expected string
	}{
		{
			name:     "sixteen digit card",
			card:     "4444123412341234",
			expected: "4444*********1234",
		},
		{
			name:     "already masked card keeps its shape",
			card:     "4444*********1234",
			expected: "4444*********1234",
		},
		{
			name:     "longer identifier keeps first and last four",
			card:     "12345678901234567890",
			expected: "1234*********7890",
		},
		{
			name:     "too short to mask",
			card:     "1234",
			expected: "1234",
		},
		{
			name:     "empty",
			card:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskCard(tt.card))
		})
	}
}

func TestMaskCardIdempotent(t *testing.T) {
	cards := []string{"4444123412341234", "4444*********1234", "1234567890123456"}
	for _, card := range cards {
		once := MaskCard(card)
		assert.Equal(t, once, MaskCard(once))
	}
}
