package shared

import "strings"

// CenterWithBottomHints renders content vertically centered in the available
// height, with hint text pinned to the very bottom line.
func CenterWithBottomHints(content, hints string, height int) string {
	contentLines := splitLines(content)
	hintLines := splitLines(hints)

	gap := height - len(contentLines) - len(hintLines)
	if gap <= 0 {
		return strings.Join(append(contentLines, hintLines...), "\n")
	}

	lines := make([]string, 0, height)
	lines = append(lines, make([]string, gap/2)...)
	lines = append(lines, contentLines...)
	lines = append(lines, make([]string, gap-gap/2)...)
	lines = append(lines, hintLines...)
	return strings.Join(lines, "\n")
}

// Truncate shortens s to max runes, marking the cut with an ellipsis
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 {
		return ""
	}
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
