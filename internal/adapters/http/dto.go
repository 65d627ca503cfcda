package http

import "time"

// CardResponse is the JSON shape of a card's state.
type CardResponse struct {
	ID             string         `json:"id"`
	Width          int            `json:"width"`
	Height         int            `json:"height"`
	Coverage       float64        `json:"coverage"`
	Revealed       bool           `json:"revealed"`
	Offer          *OfferResponse `json:"offer,omitempty"`
	Message        string         `json:"message,omitempty"`
	PreventDefault bool           `json:"prevent_default,omitempty"`
	ImageURL       string         `json:"image_url"`
}

type OfferResponse struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	IsLucky     bool   `json:"is_lucky"`
}

// EventsRequest is the body of POST /v1/cards/:id/events.
type EventsRequest struct {
	Events []EventRequest `json:"events"`
}

type EventRequest struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type RevealResponse struct {
	CardID      string    `json:"card_id"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	IsLucky     bool      `json:"is_lucky"`
	RevealedAt  time.Time `json:"revealed_at"`
}

type RevealsResponse struct {
	Reveals []RevealResponse `json:"reveals"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
