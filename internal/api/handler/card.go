package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/backlogbingo/internal/api/apierr"
	"github.com/mcoot/backlogbingo/internal/api/middleware"
	"github.com/mcoot/backlogbingo/internal/api/request"
	"github.com/mcoot/backlogbingo/internal/api/response"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/card"
	"github.com/mcoot/backlogbingo/internal/services/source"
)

// CardHandler handles card generation and play endpoints
type CardHandler struct {
	cards *card.Service
}

// NewCardHandler creates a new card handler
func NewCardHandler(cards *card.Service) *CardHandler {
	return &CardHandler{cards: cards}
}

// Generate handles POST /api/v1/card
func (h *CardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req request.GenerateCardRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		WriteError(w, err)
		return
	}

	id := middleware.MustGetProfileID(r.Context())
	res, err := h.cards.Generate(r.Context(), id, strings.TrimSpace(req.Name))
	if err != nil {
		WriteError(w, err)
		return
	}
	grid, err := h.cards.Output(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.GeneratedCardFromResult(res, grid))
}

// Get handles GET /api/v1/card
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respondCard(w, r, http.StatusOK)
}

// SetEntry handles PUT /api/v1/card/entries/{index}
func (h *CardHandler) SetEntry(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		WriteError(w, apierr.NewInvalidRequestError("cell index must be a number"))
		return
	}

	var req request.SetEntryRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	if _, err := h.cards.SetEntry(r.Context(), middleware.MustGetProfileID(r.Context()), index, req.Entry); err != nil {
		WriteError(w, err)
		return
	}
	h.respondCard(w, r, http.StatusOK)
}

// Clear handles DELETE /api/v1/card
func (h *CardHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cards.Clear(r.Context(), middleware.MustGetProfileID(r.Context())); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Export handles GET /api/v1/card/export
func (h *CardHandler) Export(w http.ResponseWriter, r *http.Request) {
	export, err := h.cards.Export(r.Context(), middleware.MustGetProfileID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.Attachment(w, export.Filename, export.Document)
}

// Import handles POST /api/v1/card/import
func (h *CardHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := readDocument(w, r)
	if err != nil {
		WriteError(w, err)
		return
	}

	format := source.FormatFromContentType(r.Header.Get("Content-Type"))
	if _, err := h.cards.Import(r.Context(), middleware.MustGetProfileID(r.Context()), data, format); err != nil {
		WriteError(w, err)
		return
	}
	h.respondCard(w, r, http.StatusCreated)
}

// Preview handles POST /api/v1/cards/preview. Nothing is stored.
func (h *CardHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req request.PreviewCardRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	gameRules := model.DefaultGameRules()
	if req.Rules != nil {
		gameRules = req.Rules.Apply(gameRules)
	}

	pool := make([]model.Category, len(req.Categories))
	for i, c := range req.Categories {
		if strings.TrimSpace(c.Text) == "" {
			WriteError(w, apierr.NewInvalidRequestError("categories[%d].name is required", i))
			return
		}
		if c.ID == "" {
			c.ID = model.CategoryID(fmt.Sprintf("cat-%d", i+1))
		}
		pool[i] = c
	}

	res, err := h.cards.Preview(req.Name, pool, gameRules)
	if err != nil {
		WriteError(w, err)
		return
	}
	grid, err := card.Output(res.Card, gameRules)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GeneratedCardFromResult(res, grid))
}

func (h *CardHandler) respondCard(w http.ResponseWriter, r *http.Request, status int) {
	id := middleware.MustGetProfileID(r.Context())
	c, err := h.cards.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	grid, err := h.cards.Output(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.CardFromModel(c, grid))
}
