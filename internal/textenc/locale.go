package textenc

import (
	"os"
	"strings"
)

// localeVars are consulted in POSIX precedence order.
var localeVars = []string{"LC_ALL", "LC_CTYPE", "LANG"}

// ForLocale returns the encoder named by override, or else the codeset of
// the current locale (for example "de_DE.ISO-8859-1@euro" yields
// ISO-8859-1). It falls back to UTF8.
func ForLocale(override string) *Encoder {
	if override != "" {
		return Lookup(override)
	}
	return Lookup(localeCodeset(os.Getenv))
}

func localeCodeset(getenv func(string) string) string {
	for _, v := range localeVars {
		loc := getenv(v)
		if loc == "" {
			continue
		}
		// The first non-empty variable decides, even without a codeset.
		if loc == "C" || loc == "POSIX" {
			return ""
		}
		dot := strings.IndexByte(loc, '.')
		if dot < 0 {
			return ""
		}
		codeset := loc[dot+1:]
		if at := strings.IndexByte(codeset, '@'); at >= 0 {
			codeset = codeset[:at]
		}
		return codeset
	}
	return ""
}
