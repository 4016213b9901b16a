package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		input    string
		expected string // "" means nil
	}{
		{"29/08/2026", "2026-08-29"},
		{"01/02/2026", "2026-02-01"},
		{"  15/03/2025  ", "2025-03-15"},
		{"2026-08-29", "2026-08-29"},
		{"29-08-2026", "2026-08-29"},
		{"5/3/2026", "2026-03-05"},
		{"2026-08-29T12:00:00+00:00", "2026-08-29"},
		{"", ""},
		{"not a date", ""},
		{"32/01/2026", ""},
		{"29/13/2026", ""},
	}

	for _, tc := range testCases {
		result := ParseDate(tc.input)
		if tc.expected == "" {
			assert.Nil(t, result, "input %q", tc.input)
		} else {
			if assert.NotNil(t, result, "input %q", tc.input) {
				assert.Equal(t, tc.expected, *result, "input %q", tc.input)
			}
		}
	}
}

func TestParseDateIsPure(t *testing.T) {
	first := ParseDate("29/08/2026")
	second := ParseDate("29/08/2026")
	assert.Equal(t, *first, *second)
}

func TestParseIntField(t *testing.T) {
	result := ParseIntField(" 4 ")
	if assert.NotNil(t, result) {
		assert.Equal(t, 4, *result)
	}

	assert.Nil(t, ParseIntField(""))
	assert.Nil(t, ParseIntField("four"))
	assert.Nil(t, ParseIntField("4.5"))
}

func TestParseFloatField(t *testing.T) {
	result := ParseFloatField("1,250.75")
	if assert.NotNil(t, result) {
		assert.Equal(t, 1250.75, *result)
	}

	result = ParseFloatField(" 300 ")
	if assert.NotNil(t, result) {
		assert.Equal(t, 300.0, *result)
	}

	assert.Nil(t, ParseFloatField(""))
	assert.Nil(t, ParseFloatField("free"))
}
