package localedata

// CLDRVersion is the CLDR release the bundled data is taken from.
const CLDRVersion = "45"

// SupplementalDocument returns the supplemental data loaded at initialization.
func SupplementalDocument() map[string]any {
	return map[string]any{
		"supplemental": map[string]any{
			"version": map[string]any{
				"_unicodeVersion": "15.1.0",
				"_cldrVersion":    CLDRVersion,
			},
			"likelySubtags": map[string]any{
				"en": "en-Latn-US",
				"ja": "ja-Jpan-JP",
				"es": "es-Latn-ES",
				"fr": "fr-Latn-FR",
				"de": "de-Latn-DE",
			},
			"weekData": map[string]any{
				"firstDay": map[string]any{"001": "mon", "US": "sun", "JP": "sun", "GB": "mon"},
				"minDays":  map[string]any{"001": 1, "US": 1, "JP": 1, "GB": 4},
			},
			"timeData": map[string]any{
				"001": map[string]any{"_preferred": "H"},
				"US":  map[string]any{"_preferred": "h"},
			},
		},
	}
}

type localeMonths struct {
	pattern string
	wide    [12]string
}

var bundled = map[string]localeMonths{
	"en": {
		pattern: "{month} {day}, {year}",
		wide:    [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	},
	"es": {
		pattern: "{day} de {month} de {year}",
		wide:    [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	},
	"fr": {
		pattern: "{day} {month} {year}",
		wide:    [12]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	},
	"de": {
		pattern: "{day}. {month} {year}",
		wide:    [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
	},
	"ja": {
		pattern: "{year}年{month}{day}日",
		wide:    [12]string{"1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"},
	},
}

// BundledLocales returns the base languages with bundled month data.
func BundledLocales() []string {
	return []string{"en", "es", "fr", "de", "ja"}
}

// MainDocument returns the per-locale month names and long date patterns.
func MainDocument() map[string]any {
	main := make(map[string]any, len(bundled))
	for locale, data := range bundled {
		wide := make([]any, len(data.wide))
		for i, name := range data.wide {
			wide[i] = name
		}
		main[locale] = map[string]any{
			"months":          map[string]any{"wide": wide},
			"longDatePattern": data.pattern,
		}
	}
	return map[string]any{"main": main}
}
