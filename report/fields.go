package report

import (
	"strconv"
	"strings"
)

// Separators used in Chinese enumerations.
const (
	listSeparator = "、"
	listEnd       = "。"
)

// JoinDates renders the acquisition date list of the header cell.
func JoinDates(dates []string) string {
	return strings.Join(dates, listSeparator) + listEnd
}

// FormatAreas renders the areas paragraph, starting a new line before every
// second area from the third on. It returns "" for no areas.
func FormatAreas(areas []string) string {
	if len(areas) == 0 {
		return ""
	}
	out := make([]string, len(areas))
	copy(out, areas)
	for i := 2; i < len(out); i += 2 {
		out[i] = "\n" + out[i]
	}
	return strings.Join(out, listSeparator) + listEnd
}

// IndexLabel renders the policy index of the caption paragraph.
func IndexLabel(index int) string {
	return "(" + strconv.Itoa(index) + ")"
}
