package models

// DefaultDetails is used when a card is created without details
const DefaultDetails = "No details yet."

// Card is a single work item. Its column membership lives in Column.CardIDs.
type Card struct {
	ID      string
	Title   string
	Details string
}

// Preview returns the first line of the details, cut to max runes
func (c Card) Preview(max int) string {
	line := c.Details
	for i, r := range line {
		if r == '\n' {
			line = line[:i]
			break
		}
	}
	runes := []rune(line)
	if max > 3 && len(runes) > max {
		return string(runes[:max-3]) + "..."
	}
	return line
}
