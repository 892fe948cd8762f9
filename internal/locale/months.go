package locale

import "time"

var czechMonths = map[string]time.Month{
	"led": time.January, "úno": time.February, "bře": time.March, "dub": time.April,
	"kvě": time.May, "čvn": time.June, "čvc": time.July, "srp": time.August,
	"zář": time.September, "říj": time.October, "lis": time.November, "pro": time.December,

	"leden": time.January, "únor": time.February, "březen": time.March, "duben": time.April,
	"květen": time.May, "červen": time.June, "červenec": time.July, "srpen": time.August,
	"září": time.September, "říjen": time.October, "listopad": time.November, "prosinec": time.December,

	"ledna": time.January, "února": time.February, "března": time.March, "dubna": time.April,
	"května": time.May, "června": time.June, "července": time.July, "srpna": time.August,
	"října": time.October, "listopadu": time.November, "prosince": time.December,
}

var slovakMonths = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"máj": time.May, "jún": time.June, "júl": time.July, "aug": time.August,
	"sep": time.September, "okt": time.October, "nov": time.November, "dec": time.December,

	"január": time.January, "február": time.February, "marec": time.March, "apríl": time.April,
	"august": time.August, "september": time.September, "október": time.October,
	"november": time.November, "december": time.December,

	"januára": time.January, "februára": time.February, "marca": time.March, "apríla": time.April,
	"mája": time.May, "júna": time.June, "júla": time.July, "augusta": time.August,
	"septembra": time.September, "októbra": time.October, "novembra": time.November, "decembra": time.December,
}

var englishMonths = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "sept": time.September, "oct": time.October, "nov": time.November, "dec": time.December,

	"january": time.January, "february": time.February, "march": time.March, "april": time.April,
	"june": time.June, "july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

var italianMonths = map[string]time.Month{
	"gen": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"mag": time.May, "giu": time.June, "lug": time.July, "ago": time.August,
	"set": time.September, "ott": time.October, "nov": time.November, "dic": time.December,

	"gennaio": time.January, "febbraio": time.February, "marzo": time.March, "aprile": time.April,
	"maggio": time.May, "giugno": time.June, "luglio": time.July, "agosto": time.August,
	"settembre": time.September, "ottobre": time.October, "novembre": time.November, "dicembre": time.December,
}

// Marker words: frequent in report headings and labels of one language, rare in the others.
var czechMarkers = []string{
	"přehled", "průměrná", "průměr", "směrodatná", "odchylka", "rozmezí", "souhrn", "glykémie",
	"hodnota", "narození", "používání", "celková", "dávka", "množství", "nízká", "vysoká", "dny", "velmi",
}

var slovakMarkers = []string{
	"súhrn", "priemerná", "priemer", "smerodajná", "odchýlka", "rozsahu", "údajmi", "zhrnutie",
	"dátum", "narodenia", "veľmi", "vysoké", "nízke", "dni", "cieľový",
}

var englishMarkers = []string{
	"overview", "average", "standard", "deviation", "range", "summary", "days", "very",
	"high", "low", "target", "sensor", "wear", "daily", "dose", "report",
}

var italianMarkers = []string{
	"riepilogo", "media", "glicemia", "molto", "alta", "bassa", "intervallo", "giorni",
	"deviazione", "glucosio", "panoramica", "giornaliera",
}
