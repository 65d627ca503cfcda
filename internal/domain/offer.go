package domain

import "fmt"

// PickOffer draws one offer uniformly from the catalog using the provided RNG.
func PickOffer(catalog Catalog, rng RNG) (Offer, error) {
	if len(catalog.Offers) == 0 {
		return Offer{}, ErrEmptyCatalog
	}
	return catalog.Offers[rng.Intn(len(catalog.Offers))], nil
}

// RevealMessage is the notification copy shown once an offer is revealed.
func RevealMessage(o Offer) string {
	if o.IsLucky {
		return fmt.Sprintf("Congratulations! You won %s!", o.Label)
	}
	return o.Label
}
