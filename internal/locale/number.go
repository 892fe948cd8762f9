package locale

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumber parses a report number. Both comma and dot are accepted as the decimal
// separator; when both occur the last one is the decimal separator. Spaces, NBSP and
// a leading '<' or '>' are ignored.
func ParseNumber(s string) (float64, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t':
			return -1
		}
		return r
	}, s)
	clean = strings.TrimLeft(clean, "<>≤≥")
	clean = strings.TrimSuffix(clean, "%")
	if clean == "" {
		return 0, fmt.Errorf("parse number %q: empty", s)
	}

	lastComma := strings.LastIndexByte(clean, ',')
	lastDot := strings.LastIndexByte(clean, '.')
	switch {
	case lastComma >= 0 && lastDot >= 0:
		dec := max(lastComma, lastDot)
		intPart := strings.NewReplacer(",", "", ".", "").Replace(clean[:dec])
		clean = intPart + "." + clean[dec+1:]
	case lastComma >= 0:
		clean = strings.Replace(clean, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return v, nil
}
