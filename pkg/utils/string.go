package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NormalizeWhitespace replaces runs of whitespace, newlines included, with a single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateWidth cuts str to at most maxWidth terminal columns, ending in
// "..." when anything was removed. Wide glyphs count as two columns.
// A maxWidth of zero or less disables truncation.
func (s *StringHelper) TruncateWidth(str string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(str) <= maxWidth {
		return str
	}

	return runewidth.Truncate(str, maxWidth, "...")
}

// PadWidth right-pads str with spaces to width display columns.
func (s *StringHelper) PadWidth(str string, width int) string {
	return runewidth.FillRight(str, width)
}
