package validators

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/i18n"
)

const productIDsField = "product_ids"

// ProductIDs reads the required product_ids list from a JSON body or, when the
// body is empty, from product_ids[] query values.
func ProductIDs(r *http.Request) ([]uint, error) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}

	var raw []any
	present, isArray := false, false
	if len(bytes.TrimSpace(body)) > 0 {
		var payload map[string]json.RawMessage
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
		}
		if value, ok := payload[productIDsField]; ok && string(value) != "null" {
			present = true
			isArray = json.Unmarshal(value, &raw) == nil
		}
	} else {
		query := r.URL.Query()
		if values, ok := query[productIDsField+"[]"]; ok {
			present, isArray = true, true
			for _, v := range values {
				raw = append(raw, v)
			}
		} else if query.Has(productIDsField) {
			present = true
		}
	}

	fields := pkgerrors.FieldErrors{}
	switch {
	case !present || (isArray && len(raw) == 0):
		fields.Add(productIDsField, i18n.T(ctx, i18n.MsgProductIDsRequired))
	case !isArray:
		fields.Add(productIDsField, i18n.T(ctx, i18n.MsgProductIDsArray))
	}
	if !fields.Empty() {
		return nil, pkgerrors.Validation(fields)
	}

	ids := make([]uint, 0, len(raw))
	for _, item := range raw {
		id, ok := toID(item)
		if !ok {
			fields.Add(productIDsField, i18n.T(ctx, i18n.MsgFieldInteger, Attribute(productIDsField)))
			return nil, pkgerrors.Validation(fields)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func toID(v any) (uint, bool) {
	switch value := v.(type) {
	case float64:
		if value <= 0 || value != float64(uint64(value)) {
			return 0, false
		}
		return uint(value), true
	case string:
		id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil || id == 0 {
			return 0, false
		}
		return uint(id), true
	}
	return 0, false
}
