package textfit

import "strings"

// FitWidth shortens a single line of text until it is no wider than
// maxWidth. When the overflow is larger than maxWidth itself, several
// characters are dropped per step, estimated from the line height, before
// falling back to one character at a time.
//
// The result is a prefix of text whose width is at most maxWidth, or the
// empty string. A non-positive maxWidth always yields "".
func FitWidth(text string, m Measurer, maxWidth float64) string {
	if maxWidth <= 0 {
		return ""
	}
	runes := []rune(text)
	width := m.Width(text)
	glyph := m.LineHeight()

	for width > maxWidth && len(runes) > 0 {
		if width-maxWidth > maxWidth && glyph > 0 {
			skip := int(width / glyph)
			runes = runes[:max(0, len(runes)-skip)]
		}
		if len(runes) > 0 {
			runes = runes[:len(runes)-1]
		}
		width = m.Width(string(runes))
	}
	return string(runes)
}

// Wrap packs the words of text into lines no wider than maxWidth.
//
// Existing line breaks are kept. Within a line, words are separated by
// single spaces and added while the line still fits; a word that does not
// fit starts the next line. A single word wider than maxWidth is left on a
// line of its own and overflows.
func Wrap(text string, m Measurer, maxWidth float64) string {
	var out []string
	for _, para := range Lines(text) {
		words := strings.Split(para, " ")
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if m.Width(candidate) <= maxWidth {
				line = candidate
				continue
			}
			out = append(out, line)
			line = word
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// FitHeight drops trailing lines of an already wrapped text until the block
// is no taller than maxHeight. The result may be empty.
func FitHeight(text string, m Measurer, maxHeight float64) string {
	for text != "" && m.Height(text) > maxHeight {
		i := strings.LastIndexByte(text, '\n')
		if i < 0 {
			return ""
		}
		text = text[:i]
	}
	return text
}

// FitsWidth reports whether every line of text is at most maxWidth wide.
func FitsWidth(text string, m Measurer, maxWidth float64) bool {
	return m.Width(text) <= maxWidth
}

// FitsHeight reports whether the block formed by text is at most maxHeight
// tall.
func FitsHeight(text string, m Measurer, maxHeight float64) bool {
	return m.Height(text) <= maxHeight
}

// Fit wraps text to maxWidth and then trims it to maxHeight, the way a
// reason block is laid out.
func Fit(text string, m Measurer, maxWidth, maxHeight float64) string {
	return FitHeight(Wrap(text, m, maxWidth), m, maxHeight)
}
