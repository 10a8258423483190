package reviews

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/catalog-api/pkg/db/models"
	"github.com/angelmondragon/catalog-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
	"github.com/angelmondragon/catalog-api/pkg/i18n"
	"github.com/angelmondragon/catalog-api/pkg/logger"
	"github.com/angelmondragon/catalog-api/pkg/metrics"
	"github.com/angelmondragon/catalog-api/pkg/storage"
	"go.uber.org/multierr"
)

const (
	uploadStored  = "stored"
	uploadFailed  = "failed"
	uploadRemoved = "removed"
)

// Service handles review submission and listing.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) error
	List(ctx context.Context, productID uint) ([]ReviewDTO, error)
}

type reviewStore interface {
	FindByProductAndUser(ctx context.Context, productID, userID uint) (*models.Review, error)
	Save(ctx context.Context, review *models.Review) error
	ListForProduct(ctx context.Context, productID uint) ([]models.Review, error)
}

type productChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

type service struct {
	repo     reviewStore
	products productChecker
	files    storage.Store
	metrics  *metrics.CatalogMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs the review service. metrics may be nil.
func NewService(repo reviewStore, products productChecker, files storage.Store, m *metrics.CatalogMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if files == nil {
		return nil, fmt.Errorf("file store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		products: products,
		files:    files,
		metrics:  m,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Submit creates the user's review of a product or overwrites the existing one.
func (s *service) Submit(ctx context.Context, input SubmitInput) error {
	fields := pkgerrors.FieldErrors{}
	for field, msgs := range input.Invalid {
		for _, msg := range msgs {
			fields.Add(field, msg)
		}
	}

	exists := false
	if input.ProductID != 0 {
		ok, err := s.products.Exists(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check product")
		}
		exists = ok
	}
	if !exists {
		fields.Add("product_id", i18n.T(ctx, i18n.MsgNoSuchProduct))
	}
	if !fields.Empty() {
		return pkgerrors.Validation(fields)
	}

	review, err := s.repo.FindByProductAndUser(ctx, input.ProductID, input.UserID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load review")
	}
	if review == nil {
		review = &models.Review{IsActive: true}
	}

	keys, err := s.storeAttachments(ctx, input.Attachments)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store attachments")
	}

	review.UserID = input.UserID
	review.ProductID = input.ProductID
	review.OrderID = input.OrderID
	review.Comment = input.Comment
	review.Rating = input.Rating
	review.Attachment = keys

	if err := s.repo.Save(ctx, review); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, multierr.Append(err, s.removeAttachments(ctx, keys)), "save review")
	}

	s.metrics.IncReviewSubmitted()
	ctx = s.logg.WithFields(ctx, map[string]any{
		"review_id":   review.ID,
		"product_id":  review.ProductID,
		"attachments": len(keys),
	})
	s.logg.Info(ctx, "review submitted")
	return nil
}

// storeAttachments writes every non-empty file. On failure the files already
// written are removed again.
func (s *service) storeAttachments(ctx context.Context, files []Attachment) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, file := range files {
		if len(file.Data) == 0 {
			continue
		}
		key, err := storage.Upload(ctx, s.files, enums.MediaAreaReview, file.Data, s.now())
		if err != nil {
			s.metrics.IncUpload(uploadFailed)
			return nil, multierr.Append(err, s.removeAttachments(ctx, keys))
		}
		s.metrics.IncUpload(uploadStored)
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *service) removeAttachments(ctx context.Context, keys []string) error {
	var errs error
	for _, key := range keys {
		if err := s.files.Delete(ctx, key); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("remove %s: %w", key, err))
			continue
		}
		s.metrics.IncUpload(uploadRemoved)
	}
	return errs
}

// List returns every review of a product, oldest first.
func (s *service) List(ctx context.Context, productID uint) ([]ReviewDTO, error) {
	rows, err := s.repo.ListForProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	out := make([]ReviewDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, newReviewDTO(row))
	}
	return out, nil
}
