package engine

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ============================================================================
// MESSAGES — Localized labels for charts, tables and age display
// ============================================================================

var (
	supportedTags  = []language.Tag{language.English, language.Italian}
	supportedLangs = language.NewMatcher(supportedTags)
)

func init() {
	register(language.English, map[string]string{
		"axis.age":           "Age (months)",
		"axis.weight":        "Weight (kg)",
		"axis.height":        "Length/height (cm)",
		"axis.head":          "Head circumference (cm)",
		"title.weight":       "Weight for age",
		"title.height":       "Length/height for age",
		"title.head":         "Head circumference for age",
		"series.p3":          "3rd percentile (WHO ~ -2SD)",
		"series.p50":         "50th percentile (WHO)",
		"series.p97":         "97th percentile (WHO ~ +2SD)",
		"series.weight":      "Child's weight",
		"series.height":      "Child's height",
		"series.head":        "Child's head circumference",
		"series.projected":   "Projection (demo)",
		"column.age":         "Age (months)",
		"column.measured":    "Measured",
		"column.projected":   "Projected",
		"position.below_p3":  "below the 3rd percentile",
		"position.p3_p50":    "between the 3rd and 50th percentile",
		"position.p50_p97":   "between the 50th and 97th percentile",
		"position.above_p97": "above the 97th percentile",
		"age.years.one":      "%d year",
		"age.years.other":    "%d years",
		"age.months.one":     "%d month",
		"age.months.other":   "%d months",
		"age.days.one":       "%d day",
		"age.days.other":     "%d days",
		"name.weight":        "weight",
		"name.height":        "height",
		"name.head":          "head circumference",
		"reply.empty":        "No %s measurements to plot.",
		"reply.latest":       "Latest %s: %s at %.1f months, %s.",
	})
	register(language.Italian, map[string]string{
		"axis.age":           "Età (mesi)",
		"axis.weight":        "Peso (kg)",
		"axis.height":        "Lunghezza/altezza (cm)",
		"axis.head":          "Circonferenza cranica (cm)",
		"title.weight":       "Peso per età",
		"title.height":       "Lunghezza/altezza per età",
		"title.head":         "Circonferenza cranica per età",
		"series.p3":          "3° percentile (OMS ~ -2SD)",
		"series.p50":         "50° percentile (OMS)",
		"series.p97":         "97° percentile (OMS ~ +2SD)",
		"series.weight":      "Peso bambino",
		"series.height":      "Altezza bambino",
		"series.head":        "Circonferenza cranica bambino",
		"series.projected":   "Proiezione (demo)",
		"column.age":         "Età (mesi)",
		"column.measured":    "Misurato",
		"column.projected":   "Proiezione",
		"position.below_p3":  "sotto il 3° percentile",
		"position.p3_p50":    "tra il 3° e il 50° percentile",
		"position.p50_p97":   "tra il 50° e il 97° percentile",
		"position.above_p97": "sopra il 97° percentile",
		"age.years.one":      "%d anno",
		"age.years.other":    "%d anni",
		"age.months.one":     "%d mese",
		"age.months.other":   "%d mesi",
		"age.days.one":       "%d giorno",
		"age.days.other":     "%d giorni",
		"name.weight":        "peso",
		"name.height":        "altezza",
		"name.head":          "circonferenza cranica",
		"reply.empty":        "Nessuna misura di %s da mostrare.",
		"reply.latest":       "Ultimo valore di %s: %s a %.1f mesi, %s.",
	})
}

func register(tag language.Tag, messages map[string]string) {
	for key, msg := range messages {
		if err := message.SetString(tag, key, msg); err != nil {
			panic("engine: register message " + key + ": " + err.Error())
		}
	}
}

// Printer returns a message printer for a BCP 47 language string.
// Unknown or empty languages fall back to English.
func Printer(lang string) *message.Printer {
	_, index := language.MatchStrings(supportedLangs, lang)
	return message.NewPrinter(supportedTags[index])
}

// Format renders the age as e.g. "1 year, 2 months, 3 days".
// Zero components are left out except when the whole age is zero.
func (a Age) Format(lang string) string {
	p := Printer(lang)
	var parts []string
	if a.Years > 0 {
		parts = append(parts, plural(p, "age.years", a.Years))
	}
	if a.Months > 0 {
		parts = append(parts, plural(p, "age.months", a.Months))
	}
	if a.Days > 0 || len(parts) == 0 {
		parts = append(parts, plural(p, "age.days", a.Days))
	}
	return strings.Join(parts, ", ")
}

func plural(p *message.Printer, key string, n int) string {
	if n == 1 {
		return p.Sprintf(key+".one", n)
	}
	return p.Sprintf(key+".other", n)
}
