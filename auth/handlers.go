package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/user/devconnector-go/apperror"
	"github.com/user/devconnector-go/validation"
)

// Handlers wraps the AuthService to provide HTTP handlers.
type Handlers struct {
	service *AuthService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister godoc
// @Summary Register a new user
// @Description Registers a user and returns a signed bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 200 {object} auth.TokenResponse "Registration successful, token provided"
// @Failure 400 {object} apperror.ErrorResponse "Validation failure or duplicate email"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /api/users [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req, registerMessages); err != nil {
			WriteError(w, r, err)
			return
		}

		resp, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleLogin godoc
// @Summary Authenticate a user
// @Description Logs in an existing user and returns a signed bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} auth.TokenResponse "Login successful, token provided"
// @Failure 400 {object} apperror.ErrorResponse "Validation failure or invalid credentials"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /api/auth [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req, loginMessages); err != nil {
			WriteError(w, r, err)
			return
		}

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleGetAuthUser godoc
// @Summary Get the authenticated user
// @Description Returns the user record belonging to the presented token, without the password hash.
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} auth.AuthUserResponse "Authenticated user"
// @Failure 401 {object} apperror.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /api/auth [get]
func (h *Handlers) HandleGetAuthUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("No token, authorization denied", nil))
			return
		}

		user, err := h.service.GetUser(r.Context(), userID)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, AuthUserResponse{User: user})
	}
}

// WriteJSON serializes data to JSON and writes it with the given status.
// It is shared by the handler packages.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"msg":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError converts any error into a standardized error response. Errors
// that are not *apperror.AppError become a generic 500; server-side failures
// are logged with their underlying cause, which is never sent to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("Server Error", err)
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		// Replace whatever message the error carried with the generic one so
		// no internal detail leaks.
		appErr = apperror.NewInternalError("Server Error", nil)
	}

	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
