package provider

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTrailingWS = regexp.MustCompile(`[ \t]+\n`)
)

// Normalize converts text to NFC and unix line endings. Page breaks (\f) and
// inner spacing are preserved because layout matching depends on them.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTrailingWS.ReplaceAllString(s, "\n")
	return strings.TrimRight(s, " \t\n")
}

// Pages splits pdftotext output on form feeds. A trailing empty page is dropped.
func Pages(text string) []string {
	pages := strings.Split(text, "\f")
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages
}
