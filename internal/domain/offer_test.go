package domain_test

import (
	"testing"

	"github.com/lazzyms/scratch-reveal-deals/internal/domain"
)

// deterministicRNG returns values from a pre-set sequence.
type deterministicRNG struct {
	values []int
	idx    int
}

func (r *deterministicRNG) Intn(n int) int {
	v := r.values[r.idx%len(r.values)] % n
	r.idx++
	return v
}

func testCatalog() domain.Catalog {
	return domain.Catalog{
		ID:   "test",
		Name: "Test Catalog",
		Offers: []domain.Offer{
			{Label: "Better luck next time", Description: "Try again for a discount!"},
			{Label: "5% OFF", Description: "on purchase of at least ₹250", IsLucky: true},
			{Label: "10% OFF", Description: "on purchase of at least ₹500", IsLucky: true},
		},
	}
}

func TestPickOffer_UsesRNG(t *testing.T) {
	catalog := testCatalog()
	rng := &deterministicRNG{values: []int{2, 0, 1}}

	expected := []string{"10% OFF", "Better luck next time", "5% OFF"}
	for i, want := range expected {
		got, err := domain.PickOffer(catalog, rng)
		if err != nil {
			t.Fatalf("pick %d: unexpected error: %v", i, err)
		}
		if got.Label != want {
			t.Errorf("pick %d: expected %q, got %q", i, want, got.Label)
		}
	}
}

func TestPickOffer_StaysInRange(t *testing.T) {
	catalog := testCatalog()
	rng := &deterministicRNG{values: []int{7, 100, 3, 5}}

	for i := 0; i < 8; i++ {
		if _, err := domain.PickOffer(catalog, rng); err != nil {
			t.Fatalf("pick %d: unexpected error: %v", i, err)
		}
	}
}

func TestPickOffer_EmptyCatalog(t *testing.T) {
	rng := &deterministicRNG{values: []int{0}}

	_, err := domain.PickOffer(domain.Catalog{ID: "empty"}, rng)
	if err != domain.ErrEmptyCatalog {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestRevealMessage(t *testing.T) {
	lucky := domain.Offer{Label: "20% OFF", IsLucky: true}
	if got := domain.RevealMessage(lucky); got != "Congratulations! You won 20% OFF!" {
		t.Errorf("unexpected lucky message: %s", got)
	}

	unlucky := domain.Offer{Label: "Better luck next time"}
	if got := domain.RevealMessage(unlucky); got != "Better luck next time" {
		t.Errorf("unexpected unlucky message: %s", got)
	}
}
