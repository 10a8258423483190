package enums

// MediaArea is the top-level folder a stored file lives under.
type MediaArea string

const (
	MediaAreaProduct MediaArea = "product"
	MediaAreaReview  MediaArea = "review"
)

func (m MediaArea) String() string {
	return string(m)
}
