package githubapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/devconnector-go/auth"
)

// Handlers exposes the GitHub repo lookup over HTTP.
type Handlers struct {
	client *Client
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *Client) *Handlers {
	return &Handlers{client: client}
}

// HandleGetRepos godoc
// @Summary Get a user's latest GitHub repositories
// @Tags profile
// @Produce json
// @Param username path string true "GitHub username"
// @Success 200 {array} githubapi.Repo
// @Failure 404 {object} apperror.ErrorResponse "No Github profile found"
// @Router /api/profile/github/{username} [get]
func (h *Handlers) HandleGetRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.client.FetchRepos(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, repos)
}
