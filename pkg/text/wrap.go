package text

import "golang.org/x/image/font"

// Wrap breaks s into display lines by cumulative glyph advance. A line is
// emitted when its measured width exceeds maxWidth, on an explicit newline,
// or at end of input. At most maxLines lines are returned; remaining text
// is dropped silently, with no ellipsis.
func Wrap(face font.Face, s string, maxWidth float64, maxLines int) []string {
	if maxLines <= 0 {
		return nil
	}

	var lines []string
	var line []rune
	width := 0.0

	runes := []rune(s)
	for i, r := range runes {
		if r != '\n' {
			line = append(line, r)
			width += Width(face, string(r))
		}
		if width > maxWidth || r == '\n' || i == len(runes)-1 {
			lines = append(lines, string(line))
			line = line[:0]
			width = 0
			if len(lines) >= maxLines {
				break
			}
		}
	}
	return lines
}
