package locator

import (
	"context"

	"business-locator/internal/models"
)

// DetailFetcher looks up phone and website for retained candidates.
type DetailFetcher struct {
	provider Provider
}

func NewDetailFetcher(provider Provider) *DetailFetcher {
	return &DetailFetcher{provider: provider}
}

// FetchDetail leaves missing fields nil; callers substitute models.NotAvailable.
func (d *DetailFetcher) FetchDetail(ctx context.Context, placeID string) (models.PlaceDetail, error) {
	return d.provider.PlaceDetails(ctx, placeID)
}
