package rendering

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const placeholder = "-"

var digitRun = regexp.MustCompile(`\d+`)

// gradeLabelParts splits a grade label around its first run of digits so the
// number can be set in bold. Concatenating the parts gives the label back unchanged.
func gradeLabelParts(label string) (prefix, number, suffix string) {
	loc := digitRun.FindStringIndex(label)
	if loc == nil {
		return label, "", ""
	}
	return label[:loc[0]], label[loc[0]:loc[1]], label[loc[1]:]
}

// formatMarks prints marks without trailing zeros: 45, 12.5, 0.25.
func formatMarks(v float64) string {
	rounded := math.Round(v*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// formatPercent prints a percentage with one decimal place.
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// commentLines splits a free-text comment into at most limit display lines,
// wrapping each paragraph with wrap. Blank leading and trailing lines are ignored.
func commentLines(comment string, limit int, wrap func(string) []string) []string {
	comment = strings.TrimSpace(strings.ReplaceAll(comment, "\r\n", "\n"))
	if comment == "" || limit <= 0 {
		return nil
	}

	lines := make([]string, 0, limit)
	for _, paragraph := range strings.Split(comment, "\n") {
		paragraph = strings.TrimSpace(paragraph)
		wrapped := []string{""}
		if paragraph != "" {
			wrapped = wrap(paragraph)
		}
		for _, l := range wrapped {
			if len(lines) == limit {
				return lines
			}
			lines = append(lines, strings.TrimSpace(l))
		}
	}
	return lines
}
