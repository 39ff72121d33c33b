package domain

import "time"

type Review struct {
	ID             string    `json:"id"`
	GuestName      string    `json:"guest_name"`
	Content        string    `json:"content"`
	Rating         int       `json:"rating"` // 1..5
	ExternalSource *string   `json:"external_source,omitempty"`
	ExternalLink   *string   `json:"external_link,omitempty"`
	IsPublished    bool      `json:"is_published"`
	CreatedAt      time.Time `json:"created_at"`
}

// ExtractedReview is what the extractor pulled out of a third-party review page.
type ExtractedReview struct {
	GuestName      string `json:"guest_name"`
	Content        string `json:"content"`
	Rating         int    `json:"rating"`
	ExternalSource string `json:"external_source"`
	ExternalLink   string `json:"external_link"`
}
