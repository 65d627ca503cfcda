package http

import (
	"bytes"
	"errors"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lazzyms/scratch-reveal-deals/internal/app"
	"github.com/lazzyms/scratch-reveal-deals/internal/domain"
)

const maxEventsPerBatch = 256

type Handler struct {
	svc  *app.CardService
	page PageCopy
}

func NewHandler(svc *app.CardService, page PageCopy) *Handler {
	return &Handler{svc: svc, page: page}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/healthz", h.Healthz)

	v1 := e.Group("/v1")
	v1.POST("/cards", h.CreateCard)
	v1.GET("/cards/:id", h.GetCard)
	v1.DELETE("/cards/:id", h.DeleteCard)
	v1.POST("/cards/:id/events", h.PostEvents)
	v1.GET("/cards/:id/image.png", h.CardImage)
	v1.GET("/reveals", h.ListReveals)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Index(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return Page(h.page).Render(c.Request().Context(), c.Response())
}

func (h *Handler) CreateCard(c echo.Context) error {
	v, err := h.svc.NewCard(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, toResponse(v))
}

func (h *Handler) GetCard(c echo.Context) error {
	v, err := h.svc.Card(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toResponse(v))
}

func (h *Handler) DeleteCard(c echo.Context) error {
	if err := h.svc.Discard(c.Request().Context(), c.Param("id")); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) PostEvents(c echo.Context) error {
	var req EventsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "body must be a JSON object with an events array"})
	}
	if len(req.Events) > maxEventsPerBatch {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "at most " + strconv.Itoa(maxEventsPerBatch) + " events per batch"})
	}

	inputs := make([]app.EventInput, len(req.Events))
	for i, ev := range req.Events {
		inputs[i] = app.EventInput{Type: ev.Type, X: ev.X, Y: ev.Y}
	}

	v, err := h.svc.HandleEvents(c.Request().Context(), c.Param("id"), inputs)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toResponse(v))
}

func (h *Handler) CardImage(c echo.Context) error {
	img, err := h.svc.Image(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return mapError(c, err)
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (h *Handler) ListReveals(c echo.Context) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be an integer between 1 and 100"})
		}
		limit = parsed
	}

	reveals, err := h.svc.RecentReveals(c.Request().Context(), limit)
	if err != nil {
		return mapError(c, err)
	}
	out := RevealsResponse{Reveals: make([]RevealResponse, len(reveals))}
	for i, r := range reveals {
		out.Reveals[i] = RevealResponse{
			CardID:      r.CardID,
			Label:       r.Label,
			Description: r.Description,
			IsLucky:     r.IsLucky,
			RevealedAt:  r.RevealedAt,
		}
	}
	return c.JSON(http.StatusOK, out)
}

func toResponse(v app.CardView) CardResponse {
	resp := CardResponse{
		ID:             v.ID,
		Width:          v.Width,
		Height:         v.Height,
		Coverage:       v.Coverage,
		Revealed:       v.Revealed,
		Message:        v.Message,
		PreventDefault: v.PreventDefault,
		ImageURL:       "/v1/cards/" + v.ID + "/image.png",
	}
	if v.Offer != nil {
		resp.Offer = &OfferResponse{
			Label:       v.Offer.Label,
			Description: v.Offer.Description,
			IsLucky:     v.Offer.IsLucky,
		}
	}
	return resp
}

func mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, domain.ErrCardNotFound), errors.Is(err, domain.ErrCatalogNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidEvent):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
