package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIdentifier(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"spaced groups", "Aadhaar No 1234 5678 9012", "123456789012", true},
		{"groups split across lines", "1234\n5678   9012\nVID", "123456789012", true},
		{"continuous run", "ID:123456789012 issued", "123456789012", true},
		{"spaced wins over continuous", "999988887777 and 1234 5678 9012", "123456789012", true},
		{"thirteen digits rejected", "1234567890123", "", false},
		{"eleven digits rejected", "12345678901", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseIdentifier(tc.text)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	got, ok := NormalizeIdentifier("1234-5678-9012")
	assert.True(t, ok)
	assert.Equal(t, "123456789012", got)

	_, ok = NormalizeIdentifier("1234 5678")
	assert.False(t, ok)
}
