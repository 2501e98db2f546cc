// Package i18n holds the user-facing strings of the widget, prompt and TUI.
package i18n

import "fmt"

// Language is a supported locale.
type Language string

const LangEN Language = "en"

var catalogs = map[Language]map[string]string{
	LangEN: en,
}

var current = LangEN

// SetLanguage switches the active catalog. Unknown languages fall back to English.
func SetLanguage(lang string) {
	if _, ok := catalogs[Language(lang)]; ok {
		current = Language(lang)
		return
	}
	current = LangEN
}

// Current returns the active language.
func Current() Language { return current }

// T returns the string for key in the active language, then English, then
// the key itself.
func T(key string) string {
	if v, ok := catalogs[current][key]; ok {
		return v
	}
	if v, ok := en[key]; ok {
		return v
	}
	return key
}

// Tf formats the string for key with args.
func Tf(key string, args ...any) string {
	return fmt.Sprintf(T(key), args...)
}
