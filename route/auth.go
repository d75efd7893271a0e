package route

import (
	"encoding/json"
	"net/http"
	"strings"

	"tdrs/internal/auth"
	"tdrs/internal/middleware"
)

type testLoginRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// PostTestLogin returns a handler for the test-only login endpoint. It trusts
// any username presented together with the shared token.
func PostTestLogin(sharedToken string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.GetLogger(r)

		var req testLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("test login failed - invalid body", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" {
			log.Warn("test login failed - empty username")
			writeError(w, http.StatusBadRequest, "Username is required")
			return
		}

		if err := auth.CheckSharedToken(sharedToken, req.Token); err != nil {
			log.Warn("test login failed - bad token", "username", req.Username)
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := auth.GenerateToken()
		if err != nil {
			log.Error("failed to create session", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to create session")
			return
		}
		auth.SetCookie(w, token)

		log.Info("test user logged in", "username", req.Username)
		writeJSON(w, http.StatusOK, map[string]any{
			"user": map[string]string{"email": req.Username},
		})
	}
}

// PostLogout clears the session cookie.
func PostLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth.ResetCookie(w)
		middleware.GetLogger(r).Info("user logged out")
		w.WriteHeader(http.StatusNoContent)
	}
}
