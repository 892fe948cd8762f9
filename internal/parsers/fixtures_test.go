package parsers

import (
	"context"
	"strings"

	"github.com/joseph-ayodele/glucose-reports/internal/entity"
	"github.com/joseph-ayodele/glucose-reports/internal/provider"
)

type fakeSource struct {
	pages     []string // layout text per page
	tokens    map[int][]entity.Token
	textCalls []provider.TextOptions
}

func (f *fakeSource) Text(_ context.Context, _ string, opts provider.TextOptions) (string, error) {
	f.textCalls = append(f.textCalls, opts)
	return strings.Join(f.pages, "\f"), nil
}

func (f *fakeSource) Tokens(_ context.Context, _ string, pages provider.PageRange) ([]entity.Token, error) {
	return f.tokens[pages.First], nil
}

type samplingSource struct {
	*fakeSource
	greenY  int
	samples int
}

func (s *samplingSource) PixelSample(_ context.Context, _ string, req provider.SampleRequest) (entity.PixelSample, error) {
	s.samples++
	c := entity.RGB{R: 255, G: 255, B: 255}
	if req.Y == s.greenY {
		c = entity.RGB{R: 134, G: 209, B: 139}
	}
	px := make([]entity.RGB, req.Width*req.Height)
	for i := range px {
		px[i] = c
	}
	return entity.PixelSample{Width: req.Width, Height: req.Height, Pixels: px}, nil
}

// tok builds a token on its own line so MergeLines keeps it separate.
func tok(page, line int, text string, left, top, width float64) entity.Token {
	return entity.Token{Text: text, Page: page, Line: line, Left: left, Top: top, Width: width, Height: 9}
}

const dexcomCZ = `Dexcom Clarity
Přehled 14 dny/dní | Po 1. led 2024 - Ne 14. led 2024 Jan Novák
Dny s daty CGM 98,5 %
Průměrná Glukóza 7,9 mmol/L
Směrodatná Odchylka 2,1 mmol/L
GMI 6,8 %
Čas v rozmezí <1 % Velmi Vysoký 12 % Vysoký 83 % V Rozmezí 4 % Nízká <1 % Velmi Nízký
`

const dexcomEN = `Dexcom Clarity
Overview 14 days | Mon Jan 1, 2024 - Sun Jan 14, 2024 John Smith
Days with CGM data 96 %
Average Glucose 8.4 mmol/L
Standard Deviation 2.6 mmol/L
Glucose Management Indicator (GMI) 7.0 %
Very High (>13.9 mmol/L) 4 %
High (10.1-13.9 mmol/L) 21 %
In Range (3.9-10.0 mmol/L) 72 %
Low (3.0-3.8 mmol/L) 2 %
Very Low (<3.0 mmol/L) 1 %
`

const glookoCGMPage = `Glooko                                                  CGM Summary
Name: John Smith     DOB: Jan 1, 1990     Jan 1, 2024 - Jan 14, 2024
Glucose - Time In Range
    2% Very High
   18% High
   76% Target Range
    3% Low
    1% Very Low
SD 2.4 mmol/L        CV 30 %
`

const glookoBGPage = `Glooko                                                  BG Summary
Jan 1, 2024 - Jan 14, 2024 (14 days)
Glucose (BG)
Very High    3%
High    15%
Target Range    70%
Low    8%
Very Low    4%
Average 8.2 mmol/L
SD 3.1 mmol/L
System Details
Control-IQ 87 %
Daily Dose 42.5 units
`

var glookoCGMTokens = []entity.Token{
	tok(1, 1, "Average", 300, 100, 40),
	tok(1, 2, "7.9 mmol/L", 300, 112, 48),
	tok(1, 3, "GMI", 300, 140, 20),
	tok(1, 4, "6.8% (51 mmol/mol)", 301, 152, 80),
	tok(1, 5, "% Time CGM Active", 290, 200, 80),
	tok(1, 6, "98%", 292, 212, 20),
}

var glookoStackedInsulin = []entity.Token{
	tok(2, 1, "55% 23.4 units", 400, 300, 70),
	tok(2, 2, "Basal/Day", 400, 315, 45),
	tok(2, 3, "45% 19.1 units", 400, 330, 70),
	tok(2, 4, "Bolus/Day", 400, 345, 45),
}

var glookoSideBySideInsulin = []entity.Token{
	tok(2, 1, "55%", 318, 285, 22),
	tok(2, 2, "23.4 units", 300, 300, 40),
	tok(2, 3, "Basal/Day", 300, 315, 40),
	tok(2, 4, "45%", 420, 285, 22),
	tok(2, 5, "19.1 units", 420, 300, 40),
	tok(2, 6, "Bolus/Day", 420, 315, 40),
}

const libreAGP = `AGP Report 1 January, 2024 - 14 January, 2024 (14 Days)
FreeStyle Libre
    Very High      >13.9 mmol/L .......... 2%  (29 min)
    High           10.1 - 13.9 mmol/L ..... 18% (4 h 19 min)
    Target Range   3.9 - 10.0 mmol/L ...... 76% (18 h 14 min)
    Low            3.0 - 3.8 mmol/L ....... 3%  (43 min)
    Very Low       <3.0 mmol/L ............ 1%  (14 min)
Average Glucose              8.1 mmol/L
Glucose Management Indicator (GMI)     6.9% or 52 mmol/mol
Glucose Variability          33.3%
% Time CGM is Active         97%
`

const medtronic780GText = `A 01-05-2024 - 14-05-2024 (14 days)
MiniMed 780G  CareLink
Sensor Wear (per week)                 95%
Average SG ± SD                        8.1 ± 2.9
Coefficient of Variation (%)           35.8%
GMI***                                 6.9% (52)
Total daily dose (per day)             45.2
Bolus amount (per day)                 20.1
Auto Basal / Basal amount (per day)    25.1
Auto Correction amount (per day)       4.3
`

const medtronic640GText = `01-03-2024 - 14-03-2024 (14 dní)
MiniMed 640G  CareLink
Používání senzoru (za týden)           90%
Průměrná GS ± SD                       8,3 ± 3,0
Variační koeficient (%)                36,1%
GMI***                                 6,9%
Celková denní dávka (za den)           40,0
Množství bolusu (za den)               17,6
Množství bazálu (za den)               22,4
`

const medtronicGuardianText = `01-03-2024 - 14-03-2024 (14 dní)
Guardian™ Connect  CareLink
Používání senzoru (za týden)           88%
Průměrná GS ± SD                       7,6 ± 2,4
Variační koeficient (%)                31,6%
GMI***                                 6,9%
Celková denní dávka (za den)           34,5
Množství dlouhodobě působícího (za den) 16,5
Množství rychle působícího (za den)    18
`

// chartLabel640G places a band label in the 640G chart column.
func chartLabel640G(text string, top float64) entity.Token {
	return entity.Token{Text: text, Page: 1, Left: 170, Top: top, Width: 8, Height: 9}
}

func chartLabel(text string, top float64) entity.Token {
	return entity.Token{Text: text, Page: 1, Left: 40, Top: top, Width: 14, Height: 9}
}
