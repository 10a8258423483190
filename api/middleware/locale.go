package middleware

import (
	"net/http"

	"github.com/angelmondragon/catalog-api/pkg/i18n"
	"github.com/angelmondragon/catalog-api/pkg/logger"
)

const localizationHeader = "X-Localization"

// Locale negotiates the response language. X-Localization wins over
// Accept-Language; unsupported values fall back to the translator default.
func Locale(translator *i18n.Translator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if translator == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := translator.Negotiate(r.Header.Get(localizationHeader), r.Header.Get("Accept-Language"))

			ctx := i18n.WithTranslator(r.Context(), translator)
			ctx = i18n.WithLocale(ctx, locale)
			if logg != nil {
				ctx = logg.WithLocale(ctx, locale)
			}
			w.Header().Set("Content-Language", locale)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
