package locale

import (
	"regexp"
	"strings"
)

// Pattern is one field's expression, alternating every known wording. Fallback covers an
// alternate rendering of the same field and is tried only when Primary finds nothing.
type Pattern struct {
	Primary  *regexp.Regexp
	Fallback *regexp.Regexp
}

// Find returns the submatches of the first expression that matches, or nil.
func (p Pattern) Find(text string) []string {
	if p.Primary != nil {
		if m := p.Primary.FindStringSubmatch(text); m != nil {
			return m
		}
	}
	if p.Fallback != nil {
		return p.Fallback.FindStringSubmatch(text)
	}
	return nil
}

// MatchString reports whether either expression matches.
func (p Pattern) MatchString(text string) bool {
	return p.Find(text) != nil
}

// fragments substituted into the expressions below
var fragments = strings.NewReplacer(
	"{num}", `(\d+(?:[.,]\d+)?)`,
	"{dexdate}", `(?:\S{2,3}\s*\d{1,2}\.?\s*\S{3}\.?\s*\d{4}|\S{3}\s*\S{3}\s*\d{1,2},\s*\d{4})`,
	"{gdate}", `(?:\d{1,2}\.\s?\d{1,2}\.\s?\d{4}|\pL{3}\s+\d{1,2},\s*\d{4}|\d{2}\s+\pL{3}\s+\d{4})`,
	"{ddmmyyyy}", `\d{1,2}[-./]\d{1,2}[-./]\d{4}`,
)

func re(expr string) *regexp.Regexp {
	return regexp.MustCompile(fragments.Replace(expr))
}

func one(expr string) Pattern { return Pattern{Primary: re(expr)} }

func withFallback(primary, fallback string) Pattern {
	return Pattern{Primary: re(primary), Fallback: re(fallback)}
}

// BandPatterns holds the five time-in-range fields.
type BandPatterns struct {
	VeryHigh Pattern
	High     Pattern
	Normal   Pattern
	Low      Pattern
	VeryLow  Pattern
}

// DexcomPatterns match pdftotext -raw output of Dexcom Clarity overview reports.
type DexcomPatterns struct {
	// days, start date, end date, patient name
	Header     Pattern
	TimeActive Pattern
	Average    Pattern
	Stddev     Pattern
	GMIPercent Pattern
	Bands      BandPatterns
}

// GlookoPatterns match pdftotext -layout output and merged tokens of Glooko reports.
type GlookoPatterns struct {
	CGMPageTitle Pattern
	CGMPageChart Pattern
	BGPageTitle  Pattern
	BGPageChart  Pattern

	// value first, CGM summary page
	CGMBands BandPatterns
	// label first, BG summary page
	BGBands BandPatterns

	AverageLabel    Pattern
	AverageValue    Pattern
	GMILabel        Pattern
	GMIValue        Pattern
	TimeActiveLabel Pattern
	TimeActiveValue Pattern

	Stddev   Pattern
	CV       Pattern
	Period   Pattern
	BGPeriod Pattern
	BGAvg    Pattern
	BGStddev Pattern

	SystemDetails   Pattern
	AutomationTime  Pattern
	DailyDose       Pattern
	BasalLabel      Pattern
	BolusLabel      Pattern
	InsulinCell     Pattern
	InsulinCellTail Pattern
}

// LibrePatterns match pdftotext output of FreeStyle Libre reports.
type LibrePatterns struct {
	Bands       BandPatterns
	Average     Pattern
	Variability Pattern
	SensorTime  Pattern
	GMI         Pattern
	Period      Pattern

	SnapshotAverage Pattern
}

// MedtronicPatterns match pdftotext -layout output of CareLink reports.
type MedtronicPatterns struct {
	Unavailable   Pattern
	SensorWear    Pattern
	AverageSD     Pattern
	CV            Pattern
	GMI           Pattern
	TotalDaily    Pattern
	Bolus         Pattern
	Basal640G     Pattern
	Basal780G     Pattern
	Correction    Pattern
	BasalGuardian Pattern
	Period        Pattern
	BandValue     Pattern
}

var Dexcom = DexcomPatterns{
	Header: one(`(?:Přehled|Súhrn|Overview|Panoramica)\s*(\d+)\s*(?:dny/dní|dní|days|giorni)\s*\|\s*({dexdate})\s*-\s*({dexdate})\s*(\S+\s*\S+)`),
	TimeActive: withFallback(
		`(?:Dny|Dni|Days|Giorni)\s*(?:s|with|con)\s(?:(?:(?:daty|údajmi)\s*CGM)|(?:CGM\s*data)|(?:dati\s*CGM))\s*{num}\s*%`,
		`(?i)(?:čas\s*s\s*aktivní\s*CGM|čas\s*s\s*aktívnym\s*CGM|time\s*CGM\s*active|tempo\s*CGM\s*attivo)\s*{num}\s*%`,
	),
	Average: withFallback(
		`(?:Průměrná|Priemerná|Average|Glucosio)\s*(?:Glukóza|Glucose|medio)\s*{num}\s*mmol/L`,
		`(?i)(?:průměrná|priemerná|average|media)\s*(?:hodnota\s*)?(?:glukózy|glukóza|glucose|glicemia)[^\d\n]{0,40}{num}\s*mmol/L`,
	),
	Stddev: withFallback(
		`(?:Směrodatná|Smerodajná|Standard|Deviazione)\s*(?:Odchylka|Odchýlka|Deviation|standard)\s*{num}\s*mmol/L`,
		`(?i)\b(?:SD)\b[^\d\n]{0,10}{num}\s*mmol/L`,
	),
	GMIPercent: withFallback(
		`GMI\s*{num}\s*%`,
		`(?i)(?:Glucose\s*Management\s*Indicator|Indikátor\s*řízení\s*glukózy|Indikátor\s*manažmentu\s*glukózy|Indicatore\s*di\s*gestione\s*del\s*glucosio)\s*\(GMI\)\s*{num}\s*%`,
	),
	Bands: BandPatterns{
		VeryHigh: withFallback(
			`(?:Čas|Doba|Time|Tempo)\s*(?:v|in|nell')\s*(?:rozmezí|rozsahu|Range|intervallo)\s*<?{num}\s*%\s*(?:Velmi|Veľmi|Very|Molto)\s*(?:Vysoký|Vysoké|High|alto)`,
			`(?:(?:Velmi|Veľmi|Very|Molto)\s*(?:Vysoký|Vysoké|High|alto)\s*)?\(\s*>\s*13[,.]9\s*mmol/L\s*\)\s*<?{num}\s*%`,
		),
		High: withFallback(
			`(?:Velmi|Veľmi|Very|Molto)\s*(?:Vysoký|Vysoké|High|alto)\s*<?{num}\s*%\s*(?:Vysoký|Vysoké|High|Alto)`,
			`(?:(?:Vysoký|Vysoké|High|Alto)\s*)?\(\s*10[,.]1\s*[-–]\s*13[,.]9\s*mmol/L\s*\)\s*<?{num}\s*%`,
		),
		Normal: withFallback(
			`(?:Vysoký|Vysoké|High|Alto)\s*<?{num}\s*%\s*(?:V|In|Nell')\s*(?:Rozmezí|Rozsahu|Range|intervallo)`,
			`(?:(?:V|In|Nell')\s*(?:Rozmezí|Rozsahu|Range|intervallo)\s*)?\(\s*3[,.]9\s*[-–]\s*10[,.]0\s*mmol/L\s*\)\s*<?{num}\s*%`,
		),
		Low: withFallback(
			`(?:Rozmezí|Rozsahu|Range|intervallo)\s*<?{num}\s*%\s*(?:Nízká|Nízke|Low|Basso)`,
			`(?:(?:Nízká|Nízke|Low|Basso)\s*)?\(\s*3[,.]0\s*[-–]\s*3[,.]8\s*mmol/L\s*\)\s*<?{num}\s*%`,
		),
		VeryLow: withFallback(
			`(?:Nízká|Nízke|Low|Basso)\s*<?{num}\s*%\s*(?:Velmi|Veľmi|Very|Molto)\s*(?:Nízký|Nízke|Low|basso)`,
			`(?:(?:Velmi|Veľmi|Very|Molto)\s*(?:Nízký|Nízke|Low|basso)\s*)?\(\s*<\s*3[,.]0\s*mmol/L\s*\)\s*<?{num}\s*%`,
		),
	},
}

var Glooko = GlookoPatterns{
	CGMPageTitle: one(`(?m)^.*(?:Souhrn CGM|CGM Summary|Súhrn CGM|Riepilogo CGM)\s*$`),
	CGMPageChart: one(`(?:Glukóza [-–] čas v rozmezí|Glucose [-–] Time In Range|Glukóza [-–] čas v rozsahu|Glucosio [-–] Tempo nell'intervallo)`),
	BGPageTitle:  one(`(?m)^.*(?:Souhrn glykémie|BG Summary|Zhrnutie glukózy v krvi|Riepilogo BG)\s*$`),
	BGPageChart:  one(`Glykémie \(Glykémie\)|Glucose \(BG\)|Glukóza \(Glukóza v krvi\)|Glicemia \(BG\)`),

	CGMBands: BandPatterns{
		VeryHigh: one(`(?m)^\s*(\d+)%\s+(?:Velmi vysoká|Very High|Veľmi vysoké|Molto alta)`),
		High:     one(`(?m)^\s*(\d+)%\s+(?:Vysoká hodnota|High|Vysoké|Alta)`),
		Normal:   one(`(?m)^\s*(\d+)%\s+(?:Cílový rozsah|Target Range|Cieľový rozsah|Intervallo target)`),
		Low:      one(`(?m)^\s*(\d+)%\s+(?:Nízká hodnota|Low|Nízke|Bassa)`),
		VeryLow:  one(`(?m)^\s*(\d+)%\s+(?:Velmi nízká|Very Low|Veľmi nízke|Molto bassa)`),
	},
	BGBands: BandPatterns{
		VeryHigh: one(`(?m)^\s*(?:Velmi vysoká|Very High|Veľmi vysoké|Molto alta)\s+(\d+)%`),
		High:     one(`(?m)^\s*(?:Vysoká hodnota|High|Vysoké|Alta)\s+(\d+)%`),
		Normal:   one(`(?m)^\s*(?:Cílový rozsah|Target Range|Cieľový rozsah|Intervallo target)\s+(\d+)%`),
		Low:      one(`(?m)^\s*(?:Nízká hodnota|Low|Nízke|Bassa)\s+(\d+)%`),
		VeryLow:  one(`(?m)^\s*(?:Velmi nízká|Very Low|Veľmi nízke|Molto bassa)\s+(\d+)%`),
	},

	AverageLabel:    one(`^(?:Průměr|Average|Priemer|Media)(?:\s|$)`),
	AverageValue:    one(`(?:{num}|-)\s*mmol/[lL]`),
	GMILabel:        one(`^GMI(?:\s|$)`),
	GMIValue:        one(`(?:{num}\s*%\s*\({num}\s*mmol/mol\)|{num}\s*%|Není|Nie je|N/A)`),
	TimeActiveLabel: one(`^(?:% čas CGM aktivní|% Time CGM Active|% čas aktívneho CGM|% tempo CGM attivo)`),
	TimeActiveValue: one(`(?:{num}|-)\s*%`),

	Stddev:   one(`\b(?:SD|Směrodatná odchylka|Štandardná odchýlka|Deviazione standard)\s+(?:{num}|-)\s*mmol/[lL]`),
	CV:       one(`\bCV\s+(?:{num}|-)\s*%`),
	Period:   one(`(?:Datum narození|DOB|Dátum narodenia|Data di nascita):.*\b({gdate})\s?-\s?({gdate})`),
	BGPeriod: one(`\b({gdate})\s?-\s?({gdate})\s*\(\d+\s+(?:dní|days|d\.|giorni)\)`),
	BGAvg:    one(`(?m)^\s*(?:Průměr|Media|Average|Priemer)\s*(?:{num}|-)`),
	BGStddev: one(`(?m)^\s*(?:Směrodatná odchylka|SD|Štandardná odchýlka|Deviazione standard)\s*(?:{num}|-)`),

	SystemDetails:   one(`Podrobnosti systému|System Details|Podrobnosti o systéme|Dettagli sistema`),
	AutomationTime:  one(`(?:Control-IQ|Bazální-IQ|Basal-IQ|Auto mode 'On')\s*{num}`),
	DailyDose:       one(`(?i)(?:Denní dávka|Insulin/day|Inzulin/den|Inzulín/deň|Daily Dose|Dose giornaliera)\s*{num}\s*(?:jednotky|jednotiek|units|unità)`),
	BasalLabel:      one(`^(?:Bazál/den|Basal/Day|Bazál/deň|Basale/giorno)$`),
	BolusLabel:      one(`^(?:Bolus/den|Bolus/Day|Bolus/deň|Bolo/giorno)$`),
	InsulinCell:     one(`{num}%\s+{num}\s+(?:jednotky|jednotiek|units|unità)`),
	InsulinCellTail: one(`{num}%\s+{num}\s+(?:jednotky|jednotiek|units|unità)$`),
}

var Libre = LibrePatterns{
	Bands: BandPatterns{
		VeryHigh: withFallback(
			`(?m)^\s*(?:Velmi vysoká hladina|Very High|Veľmi vysoká hladina|Molto alto)\b[^\n%]*?(\d+)\s*%`,
			`(?:Velmi\s+vysoká\s+hladina|Very\s+High)\s+.+?\s+(\d+)%`,
		),
		High: withFallback(
			`(?m)^\s*(?:Vysoká hladina|High|Alto)\b[^\n%]*?(\d+)\s*%`,
			`(?m)^\s*(?:Vysoká\s+hladina|High)\s+.+?\s+(\d+)%`,
		),
		Normal: withFallback(
			`(?m)^\s*(?:Cílové rozmezí|Target Range|Cieľový rozsah|Intervallo target)\b[^\n%]*?(\d+)\s*%`,
			`(?:Cílové\s+rozmezí|Target\s+Range)\s+.+?\s+(\d+)%`,
		),
		Low: withFallback(
			`(?m)^\s*(?:Nízká hladina|Low|Nízka hladina|Basso)\b[^\n%]*?(\d+)\s*%`,
			`(?m)^\s*(?:Nízká\s+hladina|Low)\s+.+?\s+(\d+)%`,
		),
		VeryLow: withFallback(
			`(?m)^\s*(?:Velmi nízká hladina|Very Low|Veľmi nízka hladina|Molto basso)\b[^\n%]*?(\d+)\s*%`,
			`(?:Velmi\s+nízká\s+hladina|Very\s+Low)\s+.+?\s+(\d+)%`,
		),
	},
	Average: withFallback(
		`(?:Průměrná hodnota koncentrace glukózy|Average Glucose|Priemerná hodnota glukózy|Glucosio medio)\s+{num}\s*mmol/[lL]`,
		`(?i)(?:průměrná|average|priemerná|glucosio)\s+(?:glukóza|glucose|glukózy|medio)[^\d\n]{0,60}{num}\s*mmol/[lL]`,
	),
	Variability: one(`(?i)(?:Variabilita glukózy|Glucose Variability|Variabilita hladiny glukózy|Variabilità del glucosio)[^\d\n]{0,60}{num}\s*%`),
	SensorTime:  one(`(?i)(?:Čas aktivního senzoru|% Time CGM is Active|% Time Sensor is Active|Čas aktívneho senzora|% tempo sensore attivo)[^\d\n]{0,60}{num}\s*%`),
	GMI: withFallback(
		`(?i)(?:GMI|Glucose Management Indicator|Indikátor kontroly glukózy)[^\n]{0,60}?{num}\s*mmol/mol`,
		`(?i)(?:GMI|Glucose Management Indicator|Indikátor kontroly glukózy)[^\d\n]{0,60}{num}\s*%`,
	),
	Period: withFallback(
		`AGP\s+(?:r|R)eport\s+(\S+\s+\S+?,?\s+\d{4})\s*-\s*(\S+\s+\S+?,?\s+\d{4})\s*\(`,
		`({ddmmyyyy})\s*-\s*({ddmmyyyy})\s*\(`,
	),

	SnapshotAverage: one(`AVERAGE\s+GLUCOSE\s+([\d,.]+)`),
}

var Medtronic = MedtronicPatterns{
	Unavailable:   one(`^(?:Nedostupné|Unavailable|Non disponibile|Nedostupná)$`),
	SensorWear:    one(`(?:Používání senzoru \(za týden\)|Sensor Wear \(per week\)|Používanie senzora \(za týždeň\)|Utilizzo del sensore \(a settimana\))\s+(\d+)%`),
	AverageSD:     one(`(?:Průměrná GS ± SD|Average SG ± SD|Priemerná GS ± SD|SG media ± DS)\s+{num}\s*±\s*{num}`),
	CV:            one(`(?:Variační koeficient \(%\)|Coefficient of Variation \(%\)|Variačný koeficient \(%\)|Coefficiente di variazione \(%\))\s+{num}\s*%`),
	GMI:           one(`GMI\*{0,3}\s+(?:{num}\s*%(?:\s+\({num})?|--)`),
	TotalDaily:    one(`(?:Celková denní dávka \(za den\)|Total daily dose \(per day\)|Celková denná dávka \(za deň\)|Dose giornaliera totale \(al giorno\))\s+(?:{num}|--)`),
	Bolus:         one(`(?:Množství bolusu \(za den\)|Bolus amount \(per day\)|Množství dlouhodobě působícího \(za den\)|Množstvo bolusu \(za deň\))\s+(?:{num}|--)`),
	Basal640G:     one(`(?:Množství bazálu \(za den\)|Basal amount \(per day\)|Množstvo bazálu \(za deň\))\s+(?:{num}|--)`),
	Basal780G:     one(`(?:Autom\. bazál / bazál\. množství \(za den\)|Auto Basal / Basal amount \(per day\))\s+(?:{num}|--)`),
	Correction:    one(`(?:Hodnota automat\. korekce \(za den\)|Auto Correction amount \(per day\))\s+(?:{num}|--)`),
	BasalGuardian: one(`(?:Množství rychle působícího \(za den\)|Rapid-acting amount \(per day\))\s+(?:{num}|--)`),
	Period:        one(`^\s*(?:A\s*)?(\d\d[-./]\d\d[-./]\d\d\d\d)\s*-\s*(\d\d[-./]\d\d[-./]\d\d\d\d)\s*\(`),
	BandValue:     one(`^\d+%$`),
}
