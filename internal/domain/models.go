package domain

import "time"

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Offer is a possible prize outcome hidden under a scratch card.
type Offer struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	IsLucky     bool   `json:"isLucky"`
}

// Catalog is a fixed list of offers. Duplicate entries weight the pick.
type Catalog struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Offers []Offer `json:"offers"`
}

// Reveal records one card whose offer was exposed.
type Reveal struct {
	CardID      string
	Label       string
	Description string
	IsLucky     bool
	RevealedAt  time.Time
}
