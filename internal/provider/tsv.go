package provider

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/glucose-reports/internal/entity"
)

// pdftotext -tsv columns.
const (
	colLevel = iota
	colPage
	colPar
	colBlock
	colLine
	colWord
	colLeft
	colTop
	colWidth
	colHeight
	colConf
	colText
	tsvColumns
)

// markerPrefix starts the structural rows (###PAGE###, ###FLOW###, ###LINE###) pdftotext emits between words.
const markerPrefix = "###"

// ParseTSV parses pdftotext -tsv output into word tokens. Marker rows are dropped; each
// one starts a new line, so Token.Line is a line sequence number unique within the output.
func ParseTSV(data string) ([]entity.Token, error) {
	var (
		out  []entity.Token
		line int
	)
	for i, row := range strings.Split(data, "\n") {
		if strings.TrimSpace(row) == "" {
			continue
		}
		cols := strings.Split(row, "\t")
		if cols[0] == "level" {
			continue
		}
		if len(cols) < tsvColumns-1 {
			return nil, fmt.Errorf("tsv line %d: expected %d columns, got %d", i+1, tsvColumns, len(cols))
		}
		text := ""
		if len(cols) >= tsvColumns {
			text = strings.TrimSpace(strings.Join(cols[colText:], "\t"))
		}
		if strings.HasPrefix(text, markerPrefix) {
			line++
			continue
		}
		if text == "" {
			continue
		}

		tok := entity.Token{Text: text, Line: line}
		var err error
		for _, f := range []struct {
			dst *int
			col int
		}{
			{&tok.Page, colPage}, {&tok.Block, colBlock}, {&tok.Word, colWord},
		} {
			if *f.dst, err = strconv.Atoi(strings.TrimSpace(cols[f.col])); err != nil {
				return nil, fmt.Errorf("tsv line %d column %d: %w", i+1, f.col, err)
			}
		}
		for _, f := range []struct {
			dst *float64
			col int
		}{
			{&tok.Left, colLeft}, {&tok.Top, colTop}, {&tok.Width, colWidth}, {&tok.Height, colHeight},
		} {
			if *f.dst, err = strconv.ParseFloat(strings.TrimSpace(cols[f.col]), 64); err != nil {
				return nil, fmt.Errorf("tsv line %d column %d: %w", i+1, f.col, err)
			}
		}
		out = append(out, tok)
	}
	return out, nil
}

// MergeLines joins consecutive words of the same line into one token whose box spans
// all of them.
func MergeLines(words []entity.Token) []entity.Token {
	var out []entity.Token
	for _, w := range words {
		n := len(out)
		if n == 0 || out[n-1].Page != w.Page || out[n-1].Line != w.Line {
			out = append(out, w)
			continue
		}
		cur := &out[n-1]
		right := max(cur.Right(), w.Right())
		bottom := max(cur.Bottom(), w.Bottom())
		cur.Left = min(cur.Left, w.Left)
		cur.Top = min(cur.Top, w.Top)
		cur.Width = right - cur.Left
		cur.Height = bottom - cur.Top
		cur.Text += " " + w.Text
	}
	return out
}
