package normalizer

import (
	"net/url"
	"strings"
)

const DefaultBookingBaseURL = "https://www.skyscanner.co.in/transport/flights"

// LinkBuilder produces partner deep links for offers.
type LinkBuilder struct {
	BaseURL     string
	AffiliateID string
}

// Build never fails. Without an affiliate id the link is the plain route URL.
func (b LinkBuilder) Build(origin, destination, offerID string) string {
	base := strings.TrimSuffix(b.BaseURL, "/")
	if base == "" {
		base = DefaultBookingBaseURL
	}

	link := base + "/" + url.PathEscape(strings.ToUpper(origin)) + "/" + url.PathEscape(strings.ToUpper(destination))
	if b.AffiliateID == "" {
		return link
	}

	q := url.Values{}
	q.Set("affiliateid", b.AffiliateID)
	if offerID != "" {
		q.Set("offer", offerID)
	}
	return link + "?" + q.Encode()
}
