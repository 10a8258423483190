package metrics

import "github.com/prometheus/client_golang/prometheus"

// CatalogMetrics counts domain events worth alerting on.
type CatalogMetrics struct {
	searches  *prometheus.CounterVec
	reviews   prometheus.Counter
	uploads   *prometheus.CounterVec
	favorites *prometheus.CounterVec
}

func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	searches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_search_total",
		Help: "Product searches, by the path that produced the page.",
	}, []string{"path"})
	reviews := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_reviews_submitted_total",
		Help: "Reviews created or overwritten.",
	})
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_attachment_uploads_total",
		Help: "Review attachment writes, by outcome.",
	}, []string{"outcome"})
	favorites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_favorite_rows_total",
		Help: "Favorite rows inserted or deleted.",
	}, []string{"action"})
	reg.MustRegister(searches, reviews, uploads, favorites)
	return &CatalogMetrics{searches: searches, reviews: reviews, uploads: uploads, favorites: favorites}
}

// IncSearch records which search path answered: "primary" or "translation".
func (c *CatalogMetrics) IncSearch(path string) {
	if c == nil || c.searches == nil {
		return
	}
	c.searches.WithLabelValues(normalizeLabel(path)).Inc()
}

func (c *CatalogMetrics) IncReviewSubmitted() {
	if c == nil || c.reviews == nil {
		return
	}
	c.reviews.Inc()
}

func (c *CatalogMetrics) IncUpload(outcome string) {
	if c == nil || c.uploads == nil {
		return
	}
	c.uploads.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (c *CatalogMetrics) AddFavorites(action string, n int) {
	if c == nil || c.favorites == nil || n <= 0 {
		return
	}
	c.favorites.WithLabelValues(normalizeLabel(action)).Add(float64(n))
}
