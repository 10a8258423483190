// Package i18n negotiates the request locale and localizes the fixed
// messages the API returns.
package i18n

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const DefaultLocale = "en"

type ctxKey struct{}

// Translator owns the supported locales and the message catalog.
type Translator struct {
	tags     []language.Tag
	locales  []string
	matcher  language.Matcher
	fallback string
	catalog  catalog.Catalog
}

// New builds a translator for the given locales. The fallback must be one of them.
func New(locales []string, fallback string) (*Translator, error) {
	if len(locales) == 0 {
		locales = []string{DefaultLocale}
	}
	if fallback == "" {
		fallback = locales[0]
	}

	var (
		tags  []language.Tag
		names []string
	)
	fallbackIdx := -1
	for _, raw := range locales {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		tag, err := language.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing locale %q: %w", raw, err)
		}
		if strings.EqualFold(raw, fallback) {
			fallbackIdx = len(tags)
		}
		tags = append(tags, tag)
		names = append(names, strings.ToLower(raw))
	}
	if fallbackIdx < 0 {
		return nil, fmt.Errorf("fallback locale %q is not in %v", fallback, locales)
	}

	// the matcher prefers its first tag on ties, so the fallback leads
	tags[0], tags[fallbackIdx] = tags[fallbackIdx], tags[0]
	names[0], names[fallbackIdx] = names[fallbackIdx], names[0]

	cat, err := buildCatalog()
	if err != nil {
		return nil, err
	}

	return &Translator{
		tags:     tags,
		locales:  names,
		matcher:  language.NewMatcher(tags),
		fallback: names[0],
		catalog:  cat,
	}, nil
}

// Locales returns the supported locale codes, fallback first.
func (t *Translator) Locales() []string {
	out := make([]string, len(t.locales))
	copy(out, t.locales)
	return out
}

func (t *Translator) Fallback() string {
	return t.fallback
}

// Negotiate picks a supported locale. An explicit locale code wins over an
// Accept-Language header; anything unrecognized yields the fallback.
func (t *Translator) Negotiate(explicit, acceptLanguage string) string {
	if explicit = strings.ToLower(strings.TrimSpace(explicit)); explicit != "" {
		for _, name := range t.locales {
			if name == explicit {
				return name
			}
		}
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return t.fallback
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return t.fallback
	}
	_, idx, conf := t.matcher.Match(desired...)
	if conf == language.No || idx < 0 || idx >= len(t.locales) {
		return t.fallback
	}
	return t.locales[idx]
}

// Printer returns a message printer for the locale.
func (t *Translator) Printer(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = t.tags[0]
	}
	return message.NewPrinter(tag, message.Catalog(t.catalog))
}

// Sprintf localizes a catalog message for the locale.
func (t *Translator) Sprintf(locale, key string, args ...any) string {
	return t.Printer(locale).Sprintf(key, args...)
}

// WithLocale stores the negotiated locale on the context.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

// LocaleFrom returns the negotiated locale, or DefaultLocale.
func LocaleFrom(ctx context.Context) string {
	if ctx != nil {
		if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
			return v
		}
	}
	return DefaultLocale
}

type translatorKey struct{}

// WithTranslator attaches the translator to the context.
func WithTranslator(ctx context.Context, t *Translator) context.Context {
	return context.WithValue(ctx, translatorKey{}, t)
}

// FromContext returns the attached translator, or nil.
func FromContext(ctx context.Context) *Translator {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(translatorKey{}).(*Translator)
	return t
}

// T localizes key for the context locale. Without a translator the key is
// formatted as-is, which is the English text.
func T(ctx context.Context, key string, args ...any) string {
	if t := FromContext(ctx); t != nil {
		return t.Sprintf(LocaleFrom(ctx), key, args...)
	}
	if len(args) == 0 {
		return key
	}
	return fmt.Sprintf(key, args...)
}
