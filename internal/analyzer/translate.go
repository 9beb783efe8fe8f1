package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonesrussell/trendradar/internal/domain"
)

const translateSystemPrompt = `You translate short e-commerce product names and
ad hook lines into %s. Keep the translation natural and compact. Respond with
the translation only, no quotes or commentary.`

// latinThreshold is the share of ASCII letters above which a string is
// assumed to need no translation.
const latinThreshold = 0.8

// TranslateProduct fills the product's translated name and hooks when the
// originals are not already in the target language. Failures are returned
// but leave the product usable with originals only.
func (a *Analyzer) TranslateProduct(ctx context.Context, p *domain.Product) error {
	if needsTranslation(p.NameOriginal) && p.NameTranslated == nil {
		translated, err := a.translate(ctx, p.NameOriginal)
		if err != nil {
			return fmt.Errorf("failed to translate name of %q: %w", p.NameOriginal, err)
		}
		p.NameTranslated = &translated
	}

	if p.HooksOriginal != nil && needsTranslation(*p.HooksOriginal) && p.HooksTranslated == nil {
		translated, err := a.translate(ctx, *p.HooksOriginal)
		if err != nil {
			return fmt.Errorf("failed to translate hooks of %q: %w", p.NameOriginal, err)
		}
		p.HooksTranslated = &translated
	}

	return nil
}

func (a *Analyzer) translate(ctx context.Context, text string) (string, error) {
	system := fmt.Sprintf(translateSystemPrompt, a.targetLanguage)
	out, err := a.client.Complete(ctx, system, text)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(out), `"`)), nil
}

// needsTranslation reports whether the text is mostly non-Latin script.
func needsTranslation(text string) bool {
	var letters, latin int
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letters++
			latin++
		case r > 127:
			letters++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(latin)/float64(letters) < latinThreshold
}
