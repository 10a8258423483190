package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Message keys double as the English text.
const (
	MsgProductNotFound    = "Product not found!"
	MsgProductsNotFound   = "Products not found!"
	MsgNoSuchProduct      = "There is no such product"
	MsgReviewSubmitted    = "successfully review submitted!"
	MsgProductIDsRequired = "product_ids is required"
	MsgProductIDsArray    = "product_ids must be an array"
	MsgFavoriteAdded      = "Item added to favourite list!"
	MsgFavoriteRemoved    = "Item removed from favourite list!"
	MsgUnauthorized       = "Unauthorized."
	MsgFieldRequired      = "The %s field is required."
	MsgFieldNumeric       = "The %s must be a number."
	MsgFieldMax           = "The %s may not be greater than %s."
	MsgFieldInteger       = "The %s must be an integer."
	MsgFieldFile          = "The %s must be a file."
)

var spanish = map[string]string{
	MsgProductNotFound:    "¡Producto no encontrado!",
	MsgProductsNotFound:   "¡Productos no encontrados!",
	MsgNoSuchProduct:      "No existe tal producto",
	MsgReviewSubmitted:    "¡reseña enviada con éxito!",
	MsgProductIDsRequired: "product_ids es obligatorio",
	MsgProductIDsArray:    "product_ids debe ser una lista",
	MsgFavoriteAdded:      "¡Artículo añadido a la lista de favoritos!",
	MsgFavoriteRemoved:    "¡Artículo eliminado de la lista de favoritos!",
	MsgUnauthorized:       "No autorizado.",
	MsgFieldRequired:      "El campo %s es obligatorio.",
	MsgFieldNumeric:       "El campo %s debe ser un número.",
	MsgFieldMax:           "El campo %s no debe ser mayor que %s.",
	MsgFieldInteger:       "El campo %s debe ser un número entero.",
	MsgFieldFile:          "El campo %s debe ser un archivo.",
}

func buildCatalog() (catalog.Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, value := range spanish {
		if err := b.SetString(language.Spanish, key, value); err != nil {
			return nil, err
		}
	}
	return b, nil
}
