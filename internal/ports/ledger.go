package ports

import (
	"context"

	"github.com/lazzyms/scratch-reveal-deals/internal/domain"
)

// RevealLedger records revealed offers.
type RevealLedger interface {
	RecordReveal(ctx context.Context, r domain.Reveal) error
	RecentReveals(ctx context.Context, limit int) ([]domain.Reveal, error)
}
