package util

import "github.com/mattn/go-runewidth"

// ShortenPath fits path into width terminal cells by dropping leading
// characters, so the file name stays visible.
func ShortenPath(path string, width int) string {
	if runewidth.StringWidth(path) <= width {
		return path
	}
	if width <= 0 {
		return ""
	}

	runes := []rune(path)
	w := 1 // the ellipsis
	i := len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if w+rw > width {
			break
		}
		w += rw
		i--
	}
	return "…" + string(runes[i:])
}
