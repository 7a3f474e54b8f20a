package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected *time.Time
	}{
		{"valid date", "20190115", timePtr(time.Date(2019, 1, 15, 0, 0, 0, 0, time.UTC))},
		{"padded valid date", " 20190115 ", timePtr(time.Date(2019, 1, 15, 0, 0, 0, 0, time.UTC))},
		{"wrong length", "2019011", nil},
		{"too long", "201901150", nil},
		{"empty", "", nil},
		{"blank cell", " ", nil},
		{"non numeric", "2019ab15", nil},
		{"impossible month", "20191301", nil},
		{"impossible day", "20190230", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseDate(tc.input)
			if tc.expected == nil {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
				assert.Equal(t, *tc.expected, *got)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 1987, *ParseInt("1987"))
	assert.Equal(t, -3, *ParseInt("-3"))
	assert.Equal(t, 1987, *ParseInt(" 1987 "))
	assert.Nil(t, ParseInt(""))
	assert.Nil(t, ParseInt(" "))
	assert.Nil(t, ParseInt("198x"))
	assert.Nil(t, ParseInt("19.87"))
}

func TestParseFloat(t *testing.T) {
	assert.InDelta(t, 41.878, *ParseFloat("41.878"), 1e-9)
	assert.InDelta(t, -87.63, *ParseFloat("-87.63"), 1e-9)
	assert.Nil(t, ParseFloat(""))
	assert.Nil(t, ParseFloat("north"))
}

func TestParseFlag(t *testing.T) {
	testCases := []struct {
		input    string
		expected *bool
	}{
		{"Y", boolPtr(true)},
		{"N", boolPtr(false)},
		{"-1", boolPtr(true)},
		{"0", boolPtr(false)},
		{"Q", nil},
		{"", nil},
		{" ", nil},
		{"1", nil},
		{"yes", nil},
	}

	for _, tc := range testCases {
		t.Run("flag "+tc.input, func(t *testing.T) {
			got := ParseFlag(tc.input)
			if tc.expected == nil {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
				assert.Equal(t, *tc.expected, *got)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Lake Michigan", TitleCase("LAKE MICHIGAN"))
	assert.Equal(t, "Saturday", TitleCase("saturday"))
	assert.Equal(t, "Lake Of The Ozarks", TitleCase("LAKE OF THE OZARKS"))
	assert.Equal(t, "", TitleCase(""))

	assert.Nil(t, TitleCased(" "))
	assert.Equal(t, "Sunday", *TitleCased("SUNDAY"))
}

func TestCleanText(t *testing.T) {
	assert.Nil(t, CleanText(""))
	assert.Nil(t, CleanText("  "))
	assert.Equal(t, "ohio river", *CleanText(" ohio river "))
}

func timePtr(t time.Time) *time.Time { return &t }
func boolPtr(b bool) *bool           { return &b }
