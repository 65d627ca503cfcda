package ports

import (
	"context"
	"image"

	"github.com/lazzyms/scratch-reveal-deals/internal/domain"
	"github.com/lazzyms/scratch-reveal-deals/internal/scratch"
)

// CatalogStore provides access to offer catalogs.
type CatalogStore interface {
	GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// CardRenderer paints both layers of a card.
type CardRenderer interface {
	scratch.Painter
	PaintPrize(o domain.Offer, width, height, scale int) (*image.RGBA, error)
}
