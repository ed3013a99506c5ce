// Package i18n holds the supported site languages and language-keyed text lookups.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Lang is a supported content language.
type Lang string

// Supported languages.
const (
	English Lang = "en"
	Yoruba  Lang = "yo"
)

// Supported lists the languages in preference order. English is the fallback.
var Supported = []Lang{English, Yoruba}

var matcher = language.NewMatcher([]language.Tag{language.English, language.MustParse("yo")})

// Parse converts a language code such as "en", "YO" or "yo-NG" into a Lang.
func Parse(s string) (Lang, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("language is required")
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", s, err)
	}
	base, _ := tag.Base()
	switch Lang(base.String()) {
	case English:
		return English, nil
	case Yoruba:
		return Yoruba, nil
	}
	return "", fmt.Errorf("unsupported language %q, use: en, yo", s)
}

// Negotiate picks the best supported language for an Accept-Language header value.
func Negotiate(acceptLanguage string) Lang {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	return Supported[idx]
}

// Text is a string with one value per language.
type Text map[Lang]string

// Get returns the text for lang, falling back to English.
func (t Text) Get(lang Lang) string {
	if v, ok := t[lang]; ok && v != "" {
		return v
	}
	return t[English]
}

// Dictionary maps language -> key -> translated string.
type Dictionary map[Lang]map[string]string

// T looks a key up for lang. Missing keys fall back to English, then to the key itself.
func (d Dictionary) T(lang Lang, key string) string {
	if v, ok := d[lang][key]; ok {
		return v
	}
	if v, ok := d[English][key]; ok {
		return v
	}
	return key
}

// Strings returns a copy of every key for lang with English filling the gaps.
func (d Dictionary) Strings(lang Lang) map[string]string {
	out := make(map[string]string, len(d[English]))
	for k, v := range d[English] {
		out[k] = v
	}
	for k, v := range d[lang] {
		out[k] = v
	}
	return out
}
