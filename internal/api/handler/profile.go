package handler

import (
	"net/http"

	"github.com/mcoot/backlogbingo/internal/api/middleware"
	"github.com/mcoot/backlogbingo/internal/api/response"
	"github.com/mcoot/backlogbingo/internal/services/profile"
	"github.com/mcoot/backlogbingo/internal/services/rules"
)

// ProfileHandler handles profile endpoints
type ProfileHandler struct {
	profiles *profile.Service
	rules    *rules.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *profile.Service, rules *rules.Service) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		rules:    rules,
	}
}

// Create handles POST /api/v1/profiles
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Create(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	gameRules, err := h.rules.Get(r.Context(), p.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.ProfileCookie,
		Value:    string(p.ID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	response.JSON(w, http.StatusCreated, response.CreateProfileResponse{
		Profile: response.ProfileFromModel(p),
		Token:   string(p.ID),
		Rules:   gameRules,
	})
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.ProfileFromModel(middleware.GetProfile(r.Context())))
}

// Delete handles DELETE /api/v1/profile
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.Delete(r.Context(), middleware.MustGetProfileID(r.Context())); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
