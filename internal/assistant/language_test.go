package assistant

import "testing"

func TestParseLanguage(t *testing.T) {
	cases := map[string]Language{
		"":            LanguageAuto,
		"auto-detect": LanguageAuto,
		"AUTO":        LanguageAuto,
		"ka":          "ka",
		" en ":        "en",
		"Georgian":    "ka",
		"slovak":      "sk",
	}
	for in, want := range cases {
		got, err := ParseLanguage(in)
		if err != nil {
			t.Errorf("ParseLanguage(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseLanguageRejectsUnknown(t *testing.T) {
	_, err := ParseLanguage("klingon")
	if !IsKind(err, KindInputRejected) {
		t.Errorf("err = %v, want input-rejected", err)
	}
}

func TestLanguageNext(t *testing.T) {
	l := LanguageAuto
	seen := map[Language]bool{}
	for range SupportedLanguages() {
		seen[l] = true
		l = l.Next()
	}
	if l != LanguageAuto {
		t.Errorf("cycle ended at %q, want auto", l)
	}
	if len(seen) != len(SupportedLanguages()) {
		t.Errorf("visited %d languages, want %d", len(seen), len(SupportedLanguages()))
	}
}

func TestLanguageDisplayName(t *testing.T) {
	if got := Language("").DisplayName(); got != "Auto Detect" {
		t.Errorf("DisplayName() = %q, want Auto Detect", got)
	}
	if got := Language("en").EnglishName(); got != "English" {
		t.Errorf("EnglishName() = %q, want English", got)
	}
	if got := Language("ka").EnglishName(); got != "Georgian" {
		t.Errorf("EnglishName() = %q, want Georgian", got)
	}
}
