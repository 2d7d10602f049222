package assistant

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a transcription language hint sent with every job.
type Language string

// LanguageAuto lets the service detect the spoken language.
const LanguageAuto Language = "auto"

var supportedLanguages = []Language{LanguageAuto, "en", "ka", "sk", "sl", "lv"}

// SupportedLanguages returns the hints the service accepts, auto-detect first.
func SupportedLanguages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// ParseLanguage maps user input to a supported hint. Empty input is auto-detect.
func ParseLanguage(s string) (Language, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "auto", "auto-detect", "autodetect":
		return LanguageAuto, nil
	}
	for _, l := range supportedLanguages {
		if string(l) == v {
			return l, nil
		}
	}
	// Accept English names too, e.g. "Georgian".
	for _, l := range supportedLanguages[1:] {
		if strings.EqualFold(l.EnglishName(), v) {
			return l, nil
		}
	}
	return "", Rejected("language", fmt.Sprintf("unsupported language %q", s))
}

// OrAuto returns l, or auto-detect when l is unset.
func (l Language) OrAuto() Language {
	if l == "" {
		return LanguageAuto
	}
	return l
}

// EnglishName is the language's English display name.
func (l Language) EnglishName() string {
	if l.OrAuto() == LanguageAuto {
		return "Auto Detect"
	}
	tag, err := language.Parse(string(l))
	if err != nil {
		return string(l)
	}
	return display.English.Languages().Name(tag)
}

// DisplayName renders "Georgian (ქართული)" style labels.
func (l Language) DisplayName() string {
	if l.OrAuto() == LanguageAuto {
		return l.EnglishName()
	}
	tag, err := language.Parse(string(l))
	if err != nil {
		return string(l)
	}
	en := display.English.Languages().Name(tag)
	self := display.Self.Name(tag)
	if self == "" || self == en {
		return en
	}
	return fmt.Sprintf("%s (%s)", en, self)
}

// Next cycles through the supported hints.
func (l Language) Next() Language {
	cur := l.OrAuto()
	for i, s := range supportedLanguages {
		if s == cur {
			return supportedLanguages[(i+1)%len(supportedLanguages)]
		}
	}
	return LanguageAuto
}
