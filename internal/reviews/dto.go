package reviews

import (
	"time"

	"github.com/angelmondragon/catalog-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-api/pkg/errors"
)

// ReviewDTO is a review as listed under a product.
type ReviewDTO struct {
	ID         uint         `json:"id"`
	ProductID  uint         `json:"product_id"`
	UserID     uint         `json:"user_id"`
	OrderID    *uint        `json:"order_id"`
	Comment    string       `json:"comment"`
	Attachment []string     `json:"attachment"`
	Rating     float64      `json:"rating"`
	IsActive   bool         `json:"is_active"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	Customer   *models.User `json:"customer"`
}

func newReviewDTO(r models.Review) ReviewDTO {
	attachments := []string(r.Attachment)
	if attachments == nil {
		attachments = []string{}
	}
	return ReviewDTO{
		ID:         r.ID,
		ProductID:  r.ProductID,
		UserID:     r.UserID,
		OrderID:    r.OrderID,
		Comment:    r.Comment,
		Attachment: attachments,
		Rating:     r.Rating,
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		Customer:   r.Customer,
	}
}

// Attachment is one uploaded file of a review submission.
type Attachment struct {
	Filename string
	Data     []byte
}

// SubmitInput is a review submission after transport decoding. Invalid holds
// the structural errors the transport already collected; the service adds
// its own checks before deciding.
type SubmitInput struct {
	UserID      uint
	ProductID   uint
	OrderID     *uint
	Comment     string
	Rating      float64
	Attachments []Attachment
	Invalid     pkgerrors.FieldErrors
}
