package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/catalog-api/api/responses"
	pkgAuth "github.com/angelmondragon/catalog-api/pkg/auth"
	"github.com/angelmondragon/catalog-api/pkg/auth/session"
	"github.com/angelmondragon/catalog-api/pkg/config"
	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/i18n"
	"github.com/angelmondragon/catalog-api/pkg/logger"
)

func unauthorized(err error) error {
	if err == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, i18n.MsgUnauthorized).WithPublicCode(pkgerrors.PublicAuthFailed)
	}
	return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, i18n.MsgUnauthorized).WithPublicCode(pkgerrors.PublicAuthFailed)
}

// Auth validates a bearer token, checks its session is still open and seeds
// the request context with the customer id.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, unauthorized(nil))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, unauthorized(err))
				return
			}
			if claims.ID == "" || claims.UserID == 0 {
				responses.WriteError(r.Context(), logg, w, unauthorized(nil))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, unauthorized(nil))
					return
				}
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
