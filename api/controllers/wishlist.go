package controllers

import (
	"net/http"

	"github.com/angelmondragon/catalog-api/api/middleware"
	"github.com/angelmondragon/catalog-api/api/responses"
	"github.com/angelmondragon/catalog-api/api/validators"
	"github.com/angelmondragon/catalog-api/internal/favorites"
	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/i18n"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/pagination"
)

func customerID(r *http.Request) (uint, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, i18n.MsgUnauthorized).WithPublicCode(pkgerrors.PublicAuthFailed)
	}
	return userID, nil
}

// WishList pages the caller's favorite products.
func WishList(svc favorites.Service, bounds pagination.Bounds, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}
		userID, err := customerID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := svc.List(ctx, userID, validators.ParsePagination(r, bounds))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagedProducts(page))
	}
}

// WishListAdd favorites every product id in the request for the caller.
func WishListAdd(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}
		userID, err := customerID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ids, err := validators.ProductIDs(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.Add(ctx, userID, ids); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteMessage(ctx, w, i18n.MsgFavoriteAdded)
	}
}

// WishListRemove drops the favorites of the given products.
func WishListRemove(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}
		userID, err := customerID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ids, err := validators.ProductIDs(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.Remove(ctx, userID, ids); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteMessage(ctx, w, i18n.MsgFavoriteRemoved)
	}
}
