package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/i18n"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/types"
)

// WriteSuccess writes data as the raw JSON body with status 200.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// WriteMessage writes {"message": ...} localized for the request.
func WriteMessage(ctx context.Context, w http.ResponseWriter, key string) {
	WriteSuccess(w, types.MessageResponse{Message: i18n.T(ctx, key)})
}

// WriteError maps err onto the storefront error shapes:
// field errors as {"errors":{field:[...]}}, forbidden as {"errors":{"message"}},
// everything else as {"errors":{"code","message"}}.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	var body any
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		if fields := pkgerrors.FieldErrorsOf(typed); fields != nil && !fields.Empty() {
			body = fields
			break
		}
		body = apiError(ctx, typed, meta)
	case pkgerrors.CodeForbidden:
		msg := typed.Message()
		if msg == "" {
			msg = meta.PublicMessage
		}
		body = types.APIError{Message: msg}
	default:
		body = apiError(ctx, typed, meta)
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)

		fields := map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"public_code":   dump.PublicCode,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
			"status":        meta.HTTPStatus,
		}

		ctx = logg.WithFields(ctx, fields)
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.error")
		}
	}

	writeJSON(w, meta.HTTPStatus, types.ErrorEnvelope{Errors: body})
}

func apiError(ctx context.Context, typed *pkgerrors.Error, meta pkgerrors.Metadata) types.APIError {
	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeIdempotency,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			msg = i18n.T(ctx, m)
		}
	}
	return types.APIError{Code: typed.PublicCode(), Message: msg}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
