package locale

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/entity"
)

var reNumericDate = regexp.MustCompile(`^\s*(\d{1,2})\s*[-./]\s*(\d{1,2})\s*[-./]\s*(\d{4})\s*$`)

// ParseNumericDate parses day-first numeric dates: 15.1.2024, 15. 1. 2024, 15-01-2024, 15/01/2024.
func ParseNumericDate(s string) (entity.Date, error) {
	m := reNumericDate.FindStringSubmatch(s)
	if m == nil {
		return entity.Date{}, &common.MalformedDateError{Input: s, Reason: "not a numeric date"}
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return build(s, year, time.Month(month), day)
}

// ParseDate parses "day month year" and "month day, year" with the month written as a word
// of loc. The two tokens before the four-digit year are the day and the month; whichever
// is a day-of-month number is the day. Numeric dates are accepted as well.
func ParseDate(s string, loc *Locale) (entity.Date, error) {
	if reNumericDate.MatchString(s) {
		return ParseNumericDate(s)
	}
	if loc == nil {
		return entity.Date{}, &common.MalformedDateError{Input: s, Reason: "report language not detected"}
	}

	toks := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '.' || r == '/'
	})
	yearAt := -1
	for i, t := range toks {
		if i >= 2 && len(t) == 4 && isDigits(t) {
			yearAt = i
			break
		}
	}
	if yearAt < 0 {
		return entity.Date{}, &common.MalformedDateError{Input: s, Reason: "no year"}
	}
	year, _ := strconv.Atoi(toks[yearAt])
	a, b := toks[yearAt-2], toks[yearAt-1]

	var dayTok, monthTok string
	switch {
	case isDay(a) && !isDigits(b):
		dayTok, monthTok = a, b
	case isDay(b) && !isDigits(a):
		dayTok, monthTok = b, a
	default:
		return entity.Date{}, &common.MalformedDateError{Input: s, Reason: "cannot tell day from month"}
	}

	month, ok := loc.Month(monthTok)
	if !ok {
		return entity.Date{}, &common.MalformedDateError{Input: s, Reason: "unknown " + loc.String() + " month " + strconv.Quote(monthTok)}
	}
	day, _ := strconv.Atoi(dayTok)
	return build(s, year, month, day)
}

func build(input string, year int, month time.Month, day int) (entity.Date, error) {
	d, err := entity.NewDate(year, month, day)
	if err != nil {
		return entity.Date{}, &common.MalformedDateError{Input: input, Reason: err.Error()}
	}
	return d, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isDay(s string) bool {
	if !isDigits(s) || len(s) > 2 {
		return false
	}
	n, _ := strconv.Atoi(s)
	return n >= 1 && n <= 31
}
