// Package locale holds the language tables used by the report extractors: month names,
// marker words for language detection and the per-vendor field patterns.
package locale

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Locale is one report language.
type Locale struct {
	Tag     language.Tag
	months  map[string]time.Month
	markers map[string]int
}

var (
	Czech   = newLocale(language.Czech, czechMonths, czechMarkers)
	Slovak  = newLocale(language.Slovak, slovakMonths, slovakMarkers)
	English = newLocale(language.English, englishMonths, englishMarkers)
	Italian = newLocale(language.Italian, italianMonths, italianMarkers)
)

var all = []*Locale{Czech, Slovak, English, Italian}

func newLocale(tag language.Tag, months map[string]time.Month, markers []string) *Locale {
	l := &Locale{Tag: tag, months: make(map[string]time.Month, len(months)), markers: make(map[string]int, len(markers))}
	for k, m := range months {
		l.months[l.lower(k)] = m
	}
	for _, w := range markers {
		l.markers[l.lower(w)]++
	}
	return l
}

func (l *Locale) String() string { return l.Tag.String() }

// lower applies the locale's casing rules. A Caser is stateful, so one is built per call.
func (l *Locale) lower(s string) string {
	return cases.Lower(l.Tag).String(s)
}

// Month resolves a month name, abbreviation or genitive form. Trailing dots are ignored.
func (l *Locale) Month(word string) (time.Month, bool) {
	m, ok := l.months[l.lower(strings.TrimRight(strings.TrimSpace(word), "."))]
	return m, ok
}

func (l *Locale) score(words []string) int {
	n := 0
	for _, w := range words {
		n += l.markers[l.lower(w)]
	}
	return n
}

// Detect scores the marker words of every locale against text and returns the best one.
// It reports false when no marker is present or two locales tie.
func Detect(text string) (*Locale, bool) {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	var (
		best      *Locale
		bestScore int
		tie       bool
	)
	for _, l := range all {
		s := l.score(words)
		switch {
		case s > bestScore:
			best, bestScore, tie = l, s, false
		case s == bestScore && s > 0:
			tie = true
		}
	}
	if best == nil || tie {
		return nil, false
	}
	return best, true
}
