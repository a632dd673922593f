package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Detect maps a reported language preference to a supported locale:
// Chinese → zh, Japanese → jp, anything else (including unparseable input)
// → en.
//
// The preference may be a BCP 47 tag ("zh-CN", "ja") or a POSIX locale
// ("zh_CN.UTF-8", "ja_JP@euro"); the codeset and modifier are ignored.
func Detect(preference string) string {
	pref := strings.TrimSpace(preference)
	if i := strings.IndexAny(pref, ".@"); i >= 0 {
		pref = pref[:i]
	}
	pref = strings.ReplaceAll(pref, "_", "-")
	if pref == "" {
		return LocaleEN
	}

	tag, err := language.Parse(pref)
	if err != nil {
		return LocaleEN
	}
	base, _ := tag.Base()
	switch base.String() {
	case "zh":
		return LocaleZH
	case "ja":
		return LocaleJP
	}
	return LocaleEN
}

// PreferenceFromEnv returns the first non-empty value among the usual POSIX
// locale variables, looked up through getenv.
func PreferenceFromEnv(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(key); v != "" {
			return v
		}
	}
	return ""
}
