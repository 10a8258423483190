package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTranslator(t *testing.T) *Translator {
	t.Helper()
	tr, err := New([]string{"en", "es"}, "en")
	require.NoError(t, err)
	return tr
}

func TestNegotiate(t *testing.T) {
	tr := newTranslator(t)

	tests := []struct {
		name     string
		explicit string
		accept   string
		want     string
	}{
		{name: "nothing", want: "en"},
		{name: "explicit wins", explicit: "ES", accept: "en-US", want: "es"},
		{name: "unknown explicit falls through", explicit: "fr", accept: "es-MX,es;q=0.9", want: "es"},
		{name: "accept language", accept: "es-419", want: "es"},
		{name: "unsupported", accept: "ja", want: "en"},
		{name: "garbage", accept: ";;;", want: "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Negotiate(tt.explicit, tt.accept))
		})
	}
}

func TestSprintfLocalizes(t *testing.T) {
	tr := newTranslator(t)

	assert.Equal(t, "Product not found!", tr.Sprintf("en", MsgProductNotFound))
	assert.Equal(t, "¡Producto no encontrado!", tr.Sprintf("es", MsgProductNotFound))
	assert.Equal(t, "The rating may not be greater than 5.", tr.Sprintf("en", MsgFieldMax, "rating", "5"))
	assert.Equal(t, "El campo rating es obligatorio.", tr.Sprintf("es", MsgFieldRequired, "rating"))
	assert.Equal(t, "The product id field is required.", tr.Sprintf("xx", MsgFieldRequired, "product id"))
}

func TestNewValidatesFallback(t *testing.T) {
	_, err := New([]string{"en"}, "es")
	assert.Error(t, err)

	tr, err := New([]string{"en", "es"}, "es")
	require.NoError(t, err)
	assert.Equal(t, "es", tr.Fallback())
	assert.Equal(t, []string{"es", "en"}, tr.Locales())
	assert.Equal(t, "es", tr.Negotiate("", "ja"))
}

func TestLocaleContext(t *testing.T) {
	assert.Equal(t, DefaultLocale, LocaleFrom(context.Background()))
	ctx := WithLocale(context.Background(), "es")
	assert.Equal(t, "es", LocaleFrom(ctx))
}

func TestTranslateFromContext(t *testing.T) {
	assert.Equal(t, "The comment field is required.", T(context.Background(), MsgFieldRequired, "comment"))
	assert.Equal(t, MsgFavoriteAdded, T(context.Background(), MsgFavoriteAdded))

	ctx := WithTranslator(WithLocale(context.Background(), "es"), newTranslator(t))
	assert.Equal(t, "¡Artículo añadido a la lista de favoritos!", T(ctx, MsgFavoriteAdded))
	assert.NotNil(t, FromContext(ctx))
}
