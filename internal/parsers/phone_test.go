package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePhone(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"labeled with country code", "Mobile: +91 98765 43210", "+91 98765 43210", true},
		{"labeled hyphenated", "Ph- 98765-43210", "+91 98765 43210", true},
		{"labeled bare run", "Tel 9876543210", "+91 98765 43210", true},
		{"label is case-insensitive", "MOB NO. 9123456789", "+91 91234 56789", true},
		{"standalone mobile", "Ravi\n9988776655\nMale", "+91 99887 76655", true},
		{"standalone must start 6-9", "5988776655", "", false},
		{"identifier is not a phone", "1234 5678 9012", "", false},
		{"nothing", "no digits here", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParsePhone(tc.text)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatPhone(t *testing.T) {
	got, ok := FormatPhone("+91-9876543210")
	assert.True(t, ok)
	assert.Equal(t, "+91 98765 43210", got)

	got, ok = FormatPhone("9876543210")
	assert.True(t, ok)
	assert.Equal(t, "+91 98765 43210", got)

	_, ok = FormatPhone("98765")
	assert.False(t, ok)
}
