package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/catalog-api/api/middleware"
	"github.com/angelmondragon/catalog-api/api/responses"
	"github.com/angelmondragon/catalog-api/api/validators"
	"github.com/angelmondragon/catalog-api/internal/reviews"
	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/i18n"
	"github.com/angelmondragon/catalog-api/pkg/logger"
)

const attachmentField = "attachment"

// ProductReviews lists every review of a product. An unparsable id simply
// has no reviews.
func ProductReviews(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}
		id, err := validators.ParseIDParam(r, productIDParam)
		if err != nil {
			responses.WriteSuccess(w, []reviews.ReviewDTO{})
			return
		}
		items, err := svc.List(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

type submitReviewForm struct {
	ProductID string `form:"product_id" validate:"required"`
	OrderID   string `form:"order_id" validate:"required"`
	Comment   string `form:"comment" validate:"required"`
	Rating    string `form:"rating" validate:"required,numeric,maxnumeric=5"`
}

func (f submitReviewForm) toInput(userID uint, files []validators.UploadedFile, invalid pkgerrors.FieldErrors) reviews.SubmitInput {
	input := reviews.SubmitInput{
		UserID:  userID,
		Comment: f.Comment,
		Invalid: invalid,
	}
	if id, err := strconv.ParseUint(f.ProductID, 10, 64); err == nil {
		input.ProductID = uint(id)
	}
	if id, err := strconv.ParseUint(f.OrderID, 10, 64); err == nil {
		orderID := uint(id)
		input.OrderID = &orderID
	}
	if rating, err := strconv.ParseFloat(f.Rating, 64); err == nil {
		input.Rating = rating
	}
	for _, file := range files {
		input.Attachments = append(input.Attachments, reviews.Attachment{Filename: file.Filename, Data: file.Data})
	}
	return input
}

// SubmitReview creates or overwrites the caller's review of a product from a
// multipart form with optional attachment[] files.
func SubmitReview(svc reviews.Service, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	maxBytes := int64(maxUploadMB) << 20
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, i18n.MsgUnauthorized).WithPublicCode(pkgerrors.PublicAuthFailed))
			return
		}

		if err := validators.ParseForm(w, r, maxBytes); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		form := submitReviewForm{
			ProductID: strings.TrimSpace(r.FormValue("product_id")),
			OrderID:   strings.TrimSpace(r.FormValue("order_id")),
			Comment:   strings.TrimSpace(r.FormValue("comment")),
			Rating:    strings.TrimSpace(r.FormValue("rating")),
		}
		invalid := validators.ValidateStruct(ctx, &form)
		if validators.HasTextValue(r, attachmentField) {
			if invalid == nil {
				invalid = pkgerrors.FieldErrors{}
			}
			invalid.Add(attachmentField, i18n.T(ctx, i18n.MsgFieldFile, attachmentField))
		}

		files, err := validators.FormFiles(r, attachmentField)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Submit(ctx, form.toInput(userID, files, invalid)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteMessage(ctx, w, i18n.MsgReviewSubmitted)
	}
}
