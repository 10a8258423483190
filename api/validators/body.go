package validators

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/i18n"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			tag := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if tag != "" && tag != "-" {
				return tag
			}
		}
		return f.Name
	})
	// numeric strings compared by value, unlike max which measures length
	if err := v.RegisterValidation("maxnumeric", maxNumeric); err != nil {
		panic(err)
	}
	return v
}

func maxNumeric(fl validator.FieldLevel) bool {
	limit, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		value, err := strconv.ParseFloat(strings.TrimSpace(field.String()), 64)
		if err != nil {
			// left to the numeric rule
			return true
		}
		return value <= limit
	case reflect.Float32, reflect.Float64:
		return field.Float() <= limit
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(field.Int()) <= limit
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(field.Uint()) <= limit
	}
	return false
}

// DecodeJSONBody decodes a JSON body into dest and validates it.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	if fields := ValidateStruct(r.Context(), dest); fields != nil {
		return pkgerrors.Validation(fields)
	}
	return nil
}

// ValidateStruct runs every rule and collects localized messages per field.
// It returns nil when the value is valid.
func ValidateStruct(ctx context.Context, dest any) pkgerrors.FieldErrors {
	err := validate.Struct(dest)
	if err == nil {
		return nil
	}
	fields := pkgerrors.FieldErrors{}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		fields.Add("body", err.Error())
		return fields
	}
	for _, fieldErr := range errs {
		fields.Add(fieldErr.Field(), validationMessage(ctx, fieldErr))
	}
	return fields
}

func validationMessage(ctx context.Context, fe validator.FieldError) string {
	attr := Attribute(fe.Field())
	switch fe.Tag() {
	case "required":
		return i18n.T(ctx, i18n.MsgFieldRequired, attr)
	case "numeric":
		return i18n.T(ctx, i18n.MsgFieldNumeric, attr)
	case "number":
		return i18n.T(ctx, i18n.MsgFieldInteger, attr)
	case "maxnumeric", "max", "lte":
		return i18n.T(ctx, i18n.MsgFieldMax, attr, fe.Param())
	}
	return i18n.T(ctx, i18n.MsgFieldRequired, attr)
}

// Attribute renders a field name the way messages refer to it.
func Attribute(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
