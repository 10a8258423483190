package types

// APIError is the single-error body nested under "errors".
type APIError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// ErrorEnvelope wraps either an APIError or a field -> messages map.
type ErrorEnvelope struct {
	Errors any `json:"errors"`
}

// MessageResponse is the acknowledgement body of write endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// PagedProducts is the listing envelope storefront clients page through.
type PagedProducts struct {
	TotalSize int64 `json:"total_size"`
	Limit     int   `json:"limit"`
	Offset    int   `json:"offset"`
	Products  any   `json:"products"`
}
