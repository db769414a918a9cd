package render

import (
	"bytes"
	"encoding/xml"
)

const (
	labelCharWidth = 7.5
	labelMargin    = 12.0
)

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// TruncateLabel shortens label to fit avail graph units at the default
// label font size.
func TruncateLabel(label string, avail float64) string {
	maxChars := int((avail - labelMargin) / labelCharWidth)
	if maxChars < 3 {
		maxChars = 3
	}
	r := []rune(label)
	if len(r) <= maxChars {
		return label
	}
	return string(r[:maxChars-2]) + ".."
}
