package product

import (
	"testing"

	"github.com/angelmondragon/catalog-api/internal/translations"
	"github.com/angelmondragon/catalog-api/pkg/db/models"
	"gorm.io/gorm"
)

type urlStub struct{}

func (urlStub) URL(key string) string { return "https://cdn.test/" + key }

func names(rows []models.Product) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Name)
	}
	return out
}

func dtoNames(rows []ProductDTO) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Name)
	}
	return out
}

func newTestFormatter(t *testing.T, conn *gorm.DB) *Formatter {
	t.Helper()
	f, err := NewFormatter(translations.NewRepository(conn), NewRepository(conn), urlStub{}, 2)
	if err != nil {
		t.Fatalf("new formatter: %v", err)
	}
	return f
}
