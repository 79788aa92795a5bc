package tmdb

import "strings"

// DefaultImageBaseURL is the TMDB image CDN root.
const DefaultImageBaseURL = "https://image.tmdb.org/t/p"

// Tier selects the rendition size of an image.
type Tier int

const (
	// TierPoster is used for posters and profile pictures.
	TierPoster Tier = iota
	// TierBackdrop is used for wide background images.
	TierBackdrop
	// TierLogo is used for provider logos.
	TierLogo
)

// Size returns the CDN size segment of the tier.
func (t Tier) Size() string {
	switch t {
	case TierBackdrop:
		return "w1280"
	case TierLogo:
		return "w185"
	default:
		return "w500"
	}
}

// ImageResolver turns relative image paths into absolute URLs.
type ImageResolver struct {
	baseURL string
}

// NewImageResolver creates a resolver rooted at baseURL.
func NewImageResolver(baseURL string) ImageResolver {
	if baseURL == "" {
		baseURL = DefaultImageBaseURL
	}
	return ImageResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// Base returns the URL prefix for tier.
func (r ImageResolver) Base(tier Tier) string {
	return r.baseURL + "/" + tier.Size()
}

// Resolve returns nil for a missing path, never an empty string.
func (r ImageResolver) Resolve(path *string, tier Tier) *string {
	if path == nil || strings.TrimSpace(*path) == "" {
		return nil
	}
	p := *path
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := r.Base(tier) + p
	return &u
}
