package parsers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/entity"
	"github.com/joseph-ayodele/glucose-reports/internal/locale"
	"github.com/joseph-ayodele/glucose-reports/internal/postprocess"
	"github.com/joseph-ayodele/glucose-reports/internal/provider"
)

const glookoPages = 3

// summary tile column of the CGM summary page, in points
var glookoSummaryTiles = entity.Region{MinX: 280, MaxX: 320, MinY: 60, MaxY: 250}

const (
	alignX      = 10.0 // same column
	underLabelY = 20.0 // value printed right under its label
	rowsAbove   = 3    // side-by-side insulin cells span this many lines
)

type glookoPage struct {
	index  int // 0-based
	text   string
	tokens []entity.Token
}

// ParseGlooko extracts a Glooko report. The CGM summary page is preferred; the BG summary
// page supplies bands, average and deviation only when there is no CGM summary. Pump
// system details are read from the BG summary page.
func ParseGlooko(ctx context.Context, deps Deps, path string) (*entity.Record, error) {
	text, err := deps.Source.Text(ctx, path, provider.TextOptions{FirstPage: 1, LastPage: glookoPages, Layout: true})
	if err != nil {
		return nil, err
	}
	pages := provider.Pages(text)

	loadPage := func(i int) (*glookoPage, error) {
		if i < 0 {
			return nil, nil
		}
		toks, err := deps.Source.Tokens(ctx, path, provider.SinglePage(i+1))
		if err != nil {
			return nil, err
		}
		return &glookoPage{index: i, text: pages[i], tokens: provider.MergeLines(toks)}, nil
	}

	p := locale.Glooko
	cgm, err := loadPage(findPage(pages, p.CGMPageTitle, p.CGMPageChart))
	if err != nil {
		return nil, err
	}
	bg, err := loadPage(findPage(pages, p.BGPageTitle, p.BGPageChart))
	if err != nil {
		return nil, err
	}
	return parseGlookoPages(text, cgm, bg, deps.Logger)
}

func findPage(pages []string, title, chart locale.Pattern) int {
	for i, pg := range pages {
		if title.MatchString(pg) && chart.MatchString(pg) {
			return i
		}
	}
	return -1
}

func parseGlookoPages(all string, cgm, bg *glookoPage, logger *slog.Logger) (*entity.Record, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rec := &entity.Record{}
	var (
		found      bandValues
		start, end string
	)

	if cgm != nil {
		found, start, end = parseGlookoCGM(cgm, rec)
	} else if bg != nil {
		found, start, end = parseGlookoBG(bg, rec)
	}
	if bg != nil && locale.Glooko.SystemDetails.MatchString(bg.text) {
		parseGlookoSystemDetails(bg, rec, logger)
	}

	v := common.NewValidator()
	v.Field(fieldPeriodStart, start, common.Required)
	v.Field(fieldPeriodEnd, end, common.Required)
	requireBands(v, rec, found)
	v.Field(fieldAverage, rec.AverageGlucose, common.Required)
	if err := v.MissingFieldsError(string(constants.VendorGlooko)); err != nil {
		return nil, err
	}

	loc, _ := locale.Detect(all)
	from, err := locale.ParseDate(start, loc)
	if err != nil {
		return nil, fmt.Errorf("glooko period start: %w", err)
	}
	to, err := locale.ParseDate(end, loc)
	if err != nil {
		return nil, fmt.Errorf("glooko period end: %w", err)
	}
	rec.SetPeriod(from, to)
	return rec, nil
}

func parseGlookoCGM(pg *glookoPage, rec *entity.Record) (bandValues, string, string) {
	p := locale.Glooko
	found := findBands(p.CGMBands, pg.text)

	if m := findUnder(pg.tokens, glookoSummaryTiles, p.AverageLabel, p.AverageValue); m != nil {
		rec.AverageGlucose = group(m, 1)
	}
	if m := findUnder(pg.tokens, glookoSummaryTiles, p.GMILabel, p.GMIValue); m != nil {
		if mmol := group(m, 2); mmol != nil {
			rec.GMI = mmol
		} else if pct := group(m, 3); pct != nil {
			rec.GMI = entity.Float(postprocess.PercentToGMI(*pct))
		}
	}
	if m := findUnder(pg.tokens, glookoSummaryTiles, p.TimeActiveLabel, p.TimeActiveValue); m != nil {
		rec.TimeActive = group(m, 1)
	}
	rec.StddevGlucose = number(p.Stddev, pg.text)
	rec.VariationCoefficient = number(p.CV, pg.text)

	var start, end string
	if m := p.Period.Find(pg.text); m != nil {
		start, end = m[1], m[2]
	}
	return found, start, end
}

func parseGlookoBG(pg *glookoPage, rec *entity.Record) (bandValues, string, string) {
	p := locale.Glooko
	found := findBands(p.BGBands, pg.text)
	rec.AverageGlucose = number(p.BGAvg, pg.text)
	rec.StddevGlucose = number(p.BGStddev, pg.text)

	var start, end string
	if m := p.BGPeriod.Find(pg.text); m != nil {
		start, end = m[1], m[2]
	}
	return found, start, end
}

func parseGlookoSystemDetails(pg *glookoPage, rec *entity.Record, logger *slog.Logger) {
	p := locale.Glooko
	if rec.TimeActive == nil {
		rec.TimeActive = number(p.AutomationTime, pg.text)
	}
	rec.DailyInsulinDose = number(p.DailyDose, pg.text)

	basal, bolus, ok := findBasalBolusCells(pg.tokens)
	if !ok {
		logger.Debug("glooko basal/bolus cells not found", "page", pg.index+1)
		return
	}
	rec.BasalInsulin = group(p.InsulinCellTail.Find(basal), 2)
	rec.BolusInsulin = group(p.InsulinCellTail.Find(bolus), 2)
	if rec.BasalInsulin == nil || rec.BolusInsulin == nil {
		logger.Warn("glooko insulin cells unreadable", "page", pg.index+1, "basal", basal, "bolus", bolus)
	}
}

// findUnder finds a label inside region and returns the submatches of the first token
// matching value printed in the same column right under or over it.
func findUnder(tokens []entity.Token, region entity.Region, label, value locale.Pattern) []string {
	for _, l := range tokens {
		if !region.ContainsOrigin(l) || !label.MatchString(l.Text) {
			continue
		}
		for _, t := range tokens {
			if abs(t.Left-l.Left) >= alignX || abs(t.Top-l.Top) >= underLabelY {
				continue
			}
			if m := value.Find(t.Text); m != nil {
				return m
			}
		}
	}
	return nil
}

// findBasalBolusCells locates the basal and bolus values of the insulin tile. With the labels
// stacked in one column, each value is the cell above its label. With the labels side by
// side, the value wraps over the lines right above the label.
func findBasalBolusCells(tokens []entity.Token) (basal, bolus string, ok bool) {
	p := locale.Glooko
	basalLabel, okBasal := firstMatch(tokens, p.BasalLabel)
	bolusLabel, okBolus := firstMatch(tokens, p.BolusLabel)
	if !okBasal || !okBolus {
		return "", "", false
	}

	if abs(basalLabel.Left-bolusLabel.Left) < alignX {
		var basalCell, bolusCell *entity.Token
		for i := range tokens {
			t := &tokens[i]
			if abs(t.Left-basalLabel.Left) >= alignX || !p.InsulinCell.MatchString(t.Text) {
				continue
			}
			if basalCell == nil && t.Top < basalLabel.Top {
				basalCell = t
			}
			if bolusCell == nil && t.Top > basalLabel.Top && t.Top < bolusLabel.Top {
				bolusCell = t
			}
		}
		if basalCell == nil || bolusCell == nil {
			return "", "", false
		}
		return basalCell.Text, bolusCell.Text, true
	}

	above := func(label entity.Token, aligned func(t entity.Token) bool) string {
		var rows []entity.Token
		for _, t := range tokens {
			if aligned(t) && t.Top < label.Top {
				rows = append(rows, t)
			}
		}
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Top > rows[j].Top })
		if len(rows) > rowsAbove {
			rows = rows[:rowsAbove]
		}
		parts := make([]string, 0, len(rows))
		for i := len(rows) - 1; i >= 0; i-- {
			parts = append(parts, rows[i].Text)
		}
		return strings.Join(parts, " ")
	}
	basal = above(basalLabel, func(t entity.Token) bool { return abs(t.Right()-basalLabel.Right()) < alignX })
	bolus = above(bolusLabel, func(t entity.Token) bool { return abs(t.Left-bolusLabel.Left) < alignX })
	return basal, bolus, basal != "" && bolus != ""
}

func firstMatch(tokens []entity.Token, p locale.Pattern) (entity.Token, bool) {
	for _, t := range tokens {
		if p.MatchString(t.Text) {
			return t, true
		}
	}
	return entity.Token{}, false
}
