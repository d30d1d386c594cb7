package service

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain merchant name passes through",
			input:    "PetShop Mundo cão",
			expected: "PetShop Mundo cão",
		},
		{
			name:     "empty input stays empty",
			input:    "",
			expected: "",
		},
		{
			name:     "quotes and separators are dropped",
			input:    "Robert'); DROP TABLE Students;--",
			expected: "Robert Students",
		},
		{
			name:     "sql keywords are removed whole-word",
			input:    "select * from payment",
			expected: "* from",
		},
		{
			name:     "keywords inside words survive",
			input:    "Seleção Droperia Tableau",
			expected: "Seleção Droperia Tableau",
		},
		{
			name:     "comment markers are stripped",
			input:    "Loja /*central*/ -- anexo",
			expected: "Loja central anexo",
		},
		{
			name:     "whitespace collapses",
			input:    "  Mercado   do \t Bairro  ",
			expected: "Mercado do Bairro",
		},
		{
			name:     "decomposed accents are normalized",
			input:    "cão",
			expected: "cão",
		},
		{
			name:     "invalid utf-8 bytes are dropped",
			input:    "caf\xc3",
			expected: "caf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"PetShop Mundo cão",
		"Robert'); DROP TABLE Students;--",
		"select * from payment",
		"Loja /*central*/ -- anexo",
		"  Mercado   do Bairro  ",
		"cão",
	}

	for _, input := range inputs {
		once := Sanitize(input)
		assert.Equal(t, once, Sanitize(once), "sanitizing twice changed %q", input)
	}
}
