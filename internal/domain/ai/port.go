package ai

import "context"

// ListingDraft is the factual input a description is written from.
type ListingDraft struct {
	Title      string   `json:"title"`
	Type       string   `json:"property_type"`
	Bedrooms   int      `json:"bedrooms"`
	Bathrooms  float64  `json:"bathrooms"`
	SquareFeet int      `json:"square_feet"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Price      float64  `json:"price"`
	Highlights []string `json:"highlights"`
}

// Writer drafts marketing copy for a listing.
type Writer interface {
	DescribeListing(ctx context.Context, d ListingDraft) (string, error)
}
