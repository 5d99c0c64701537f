package profiles

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/devconnector-go/apperror"
	"github.com/user/devconnector-go/auth"
	"github.com/user/devconnector-go/validation"
)

// Handlers provides the HTTP handlers for profile management.
type Handlers struct {
	service *ProfileService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *ProfileService) *Handlers {
	return &Handlers{service: service}
}

// requireUserID extracts the authenticated user id or writes a 401.
func requireUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("No token, authorization denied", nil))
	}
	return userID, ok
}

// HandleGetMyProfile godoc
// @Summary Get the current user's profile
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} profiles.Profile
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "No profile exists for this user"
// @Router /api/profile/me [get]
func (h *Handlers) HandleGetMyProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}

		profile, err := h.service.GetByUserID(r.Context(), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, profile)
	}
}

// HandleUpsertProfile godoc
// @Summary Create or update the current user's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param profileBody body profiles.UpsertProfileRequest true "Profile fields"
// @Success 200 {object} profiles.Profile
// @Failure 400 {object} apperror.ErrorResponse "Validation failure"
// @Failure 401 {object} apperror.ErrorResponse
// @Router /api/profile [post]
func (h *Handlers) HandleUpsertProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}

		var req UpsertProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req, upsertProfileMessages); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		profile, err := h.service.Upsert(r.Context(), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, profile)
	}
}

// HandleListProfiles godoc
// @Summary List all profiles
// @Tags profile
// @Produce json
// @Success 200 {array} profiles.Profile
// @Router /api/profile [get]
func (h *Handlers) HandleListProfiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.service.List(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		if list == nil {
			list = []*Profile{}
		}
		auth.WriteJSON(w, http.StatusOK, list)
	}
}

// HandleGetProfileByUserID godoc
// @Summary Get a profile by user id
// @Tags profile
// @Produce json
// @Param user_id path int true "User id"
// @Success 200 {object} profiles.Profile
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Router /api/profile/user/{user_id} [get]
func (h *Handlers) HandleGetProfileByUserID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// A malformed user id cannot match any profile; it maps to the same
		// 404 as an unknown one.
		userID, err := parseUserID(chi.URLParam(r, "user_id"))
		if err != nil {
			auth.WriteError(w, r, apperror.NewNotFoundError("User not found", nil))
			return
		}

		profile, err := h.service.GetByUserID(r.Context(), userID)
		if err != nil {
			if apperror.IsNotFound(err) {
				auth.WriteError(w, r, apperror.NewNotFoundError("User not found", nil))
				return
			}
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, profile)
	}
}

// HandleDeleteAccount godoc
// @Summary Delete the current user's account, profile and posts
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} profiles.MessageResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "Account already deleted"
// @Router /api/profile [delete]
func (h *Handlers) HandleDeleteAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}

		if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, MessageResponse{Msg: "User deleted"})
	}
}

// HandleAddExperience godoc
// @Summary Add an experience entry to the current user's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param experienceBody body profiles.AddExperienceRequest true "Experience entry"
// @Success 200 {object} profiles.Profile
// @Failure 400 {object} apperror.ErrorResponse "Validation failure"
// @Failure 404 {object} apperror.ErrorResponse "No profile exists for this user"
// @Router /api/profile/experience [put]
func (h *Handlers) HandleAddExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}

		var req AddExperienceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req, addExperienceMessages); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		profile, err := h.service.AddExperience(r.Context(), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, profile)
	}
}

// HandleRemoveExperience godoc
// @Summary Remove an experience entry by id
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Param exp_id path string true "Experience entry id"
// @Success 200 {object} profiles.Profile "Updated profile; unchanged if the id was unknown"
// @Failure 401 {object} apperror.ErrorResponse
// @Router /api/profile/experience/{exp_id} [delete]
func (h *Handlers) HandleRemoveExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}

		profile, err := h.service.RemoveExperience(r.Context(), userID, chi.URLParam(r, "exp_id"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, profile)
	}
}

// HandleAddEducation godoc
// @Summary Add an education entry to the current user's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param educationBody body profiles.AddEducationRequest true "Education entry"
// @Success 200 {object} profiles.Profile
// @Failure 400 {object} apperror.ErrorResponse "Validation failure"
// @Failure 404 {object} apperror.ErrorResponse "No profile exists for this user"
// @Router /api/profile/education [put]
func (h *Handlers) HandleAddEducation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}

		var req AddEducationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req, addEducationMessages); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		profile, err := h.service.AddEducation(r.Context(), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, profile)
	}
}

// HandleRemoveEducation godoc
// @Summary Remove an education entry by id
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Param edu_id path string true "Education entry id"
// @Success 200 {object} profiles.Profile "Updated profile; unchanged if the id was unknown"
// @Failure 401 {object} apperror.ErrorResponse
// @Router /api/profile/education/{edu_id} [delete]
func (h *Handlers) HandleRemoveEducation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}

		profile, err := h.service.RemoveEducation(r.Context(), userID, chi.URLParam(r, "edu_id"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteJSON(w, http.StatusOK, profile)
	}
}
