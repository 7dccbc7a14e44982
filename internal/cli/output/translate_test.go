package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func resetLang(t *testing.T) {
	t.Helper()
	orig := currentLang
	t.Cleanup(func() { currentLang = orig })
}

func TestSetLang(t *testing.T) {
	resetLang(t)

	SetLang(language.Russian)
	assert.Equal(t, language.Russian, Lang())

	SetLang(language.English)
	assert.Equal(t, language.English, Lang())

	// Regional variants match their base language
	SetLang(language.MustParse("ru-RU"))
	assert.Equal(t, language.Russian, Lang())

	SetLang(language.MustParse("en-US"))
	assert.Equal(t, language.English, Lang())

	// Unsupported languages fall back to English
	SetLang(language.Japanese)
	assert.Equal(t, language.English, Lang())
}

func TestTranslate(t *testing.T) {
	resetLang(t)

	SetLang(language.English)
	assert.Equal(t, english["launcher.error"], Translate("launcher.error"))

	SetLang(language.Russian)
	assert.Equal(t, russian["launcher.error"], Translate("launcher.error"))

	// Unknown keys come back verbatim
	assert.Equal(t, "no.such.key", Translate("no.such.key"))
}

func TestTranslateRussianFallsBackToEnglish(t *testing.T) {
	resetLang(t)
	SetLang(language.Russian)

	for key := range english {
		assert.NotEmpty(t, Translate(key), "key %s", key)
	}
}

func TestTranslationsCoverage(t *testing.T) {
	resetLang(t)

	SetLang(language.English)
	table := Translations()
	for key := range english {
		assert.Contains(t, table, key)
	}

	// Russian table overlays English, keeping untranslated keys
	SetLang(language.Russian)
	table = Translations()
	for key := range english {
		assert.Contains(t, table, key)
	}
	assert.Equal(t, russian["launcher.error"], table["launcher.error"])
}
