package handler

import (
	"net/http"

	"github.com/mcoot/backlogbingo/internal/api/apierr"
	"github.com/mcoot/backlogbingo/internal/api/middleware"
	"github.com/mcoot/backlogbingo/internal/api/request"
	"github.com/mcoot/backlogbingo/internal/api/response"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/rules"
)

// RulesHandler handles game rule endpoints
type RulesHandler struct {
	rules *rules.Service
}

// NewRulesHandler creates a new rules handler
func NewRulesHandler(rules *rules.Service) *RulesHandler {
	return &RulesHandler{rules: rules}
}

// Get handles GET /api/v1/rules
func (h *RulesHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameRules, err := h.rules.Get(r.Context(), middleware.MustGetProfileID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	h.respond(w, r, gameRules)
}

// Patch handles PATCH /api/v1/rules
func (h *RulesHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var patch model.RulesPatch
	if err := decodeJSON(w, r, &patch, false); err != nil {
		WriteError(w, err)
		return
	}

	gameRules, err := h.rules.Patch(r.Context(), middleware.MustGetProfileID(r.Context()), patch)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.respond(w, r, gameRules)
}

// Reset handles POST /api/v1/rules/reset
func (h *RulesHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req request.ResetRulesRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.Mode == "" {
		WriteError(w, apierr.NewInvalidRequestError("mode is required"))
		return
	}

	gameRules, err := h.rules.Reset(r.Context(), middleware.MustGetProfileID(r.Context()), req.Mode)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.respond(w, r, gameRules)
}

func (h *RulesHandler) respond(w http.ResponseWriter, r *http.Request, gameRules model.GameRules) {
	locked, err := h.rules.Locked(r.Context(), middleware.MustGetProfileID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RulesResponse{
		Rules:  gameRules,
		Mode:   model.ModeOf(gameRules),
		Locked: locked,
	})
}
