// Package i18n holds the user-facing message catalog. Messages are registered
// with golang.org/x/text/message and looked up by Key.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is the locale the product ships in.
const DefaultLocale = "pt-BR"

var (
	supported = []language.Tag{language.BrazilianPortuguese, language.AmericanEnglish}
	matcher   = language.NewMatcher(supported)
)

func init() {
	register(language.BrazilianPortuguese, ptBR)
	register(language.AmericanEnglish, enUS)
}

func register(tag language.Tag, messages map[Key]string) {
	for key, value := range messages {
		// SetString only fails on malformed tags; ours are constants.
		_ = message.SetString(tag, string(key), value)
	}
}

// Translator renders catalog messages for one locale.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a translator for the closest supported locale, falling back to
// pt-BR for unknown or malformed input.
func New(locale string) *Translator {
	tag := language.BrazilianPortuguese
	if requested, err := language.Parse(strings.TrimSpace(locale)); err == nil {
		_, idx, confidence := matcher.Match(requested)
		if confidence != language.No {
			tag = supported[idx]
		}
	}
	return &Translator{tag: tag, printer: message.NewPrinter(tag)}
}

// Default returns the pt-BR translator.
func Default() *Translator {
	return New(DefaultLocale)
}

func (t *Translator) Locale() string {
	return t.tag.String()
}

// T renders the message for key, formatting args into it when the message
// carries verbs.
func (t *Translator) T(key Key, args ...any) string {
	if t == nil {
		t = Default()
	}
	return t.printer.Sprintf(string(key), args...)
}
