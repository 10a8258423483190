package enums

// TranslationKey names the translated attribute of an entity.
type TranslationKey string

const (
	TranslationKeyName        TranslationKey = "name"
	TranslationKeyDescription TranslationKey = "description"
)

// TranslatableProduct is the translationable_type stored for product rows.
const TranslatableProduct = "App\\Model\\Product"
