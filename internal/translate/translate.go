// Package translate forwards user text to a translation provider and
// formats the result for the chat. Providers are tried in configured order
// (Azure Translator, then LLM fallbacks) behind a Gateway that adds
// timeouts, retry with jittered backoff, per-chat rate limiting and
// duplicate-request collapsing.
package translate

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	domerrors "github.com/garyellow/line-menu-bot-go/internal/errors"
)

// Translator is a single translation backend.
type Translator interface {
	// Name identifies the provider in logs and metrics.
	Name() string
	// Translate converts text into the target language (BCP 47 code).
	Translate(ctx context.Context, text, to string) (*Result, error)
}

// Result is a provider response. DetectedLanguage and Score are
// observability data and never shown to users.
type Result struct {
	Text             string
	To               string
	DetectedLanguage string
	Score            float64
	Provider         string
}

// SupportedLanguages are the targets offered in the language picker, in display order.
var SupportedLanguages = []string{"en", "ja", "ko", "zh-Hant"}

// ValidateLanguage canonicalizes code and checks it is a supported target.
func ValidateLanguage(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", domerrors.ErrUnsupportedLanguage, code, err)
	}
	canonical := tag.String()
	if !slices.Contains(SupportedLanguages, canonical) {
		return "", fmt.Errorf("%w: %q", domerrors.ErrUnsupportedLanguage, code)
	}
	return canonical, nil
}

// Label returns the language's own name for display ("日本語" for ja).
func Label(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}

// EnglishName returns the English name of a language, used in LLM prompts.
func EnglishName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}
