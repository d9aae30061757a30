package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ornithedex/server/internal/middleware"
	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/observability"
	"github.com/ornithedex/server/internal/services"
)

// AuthHandler handles registration, login and session endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
}

// Register creates an account and opens a session
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	user, session, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch err.(type) {
		case models.UserError:
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			observability.Errorf("register failed: %v", err)
			respondError(w, http.StatusInternalServerError, "Registration failed.")
		}
		return
	}

	setSessionCookie(w, r, session)
	respondJSON(w, http.StatusOK, authResponse{Success: true, Username: user.Username})
}

// Login verifies credentials and opens a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	user, session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if err == models.ErrBadCredentials {
			respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		observability.Errorf("login failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Login failed.")
		return
	}

	setSessionCookie(w, r, session)
	respondJSON(w, http.StatusOK, authResponse{Success: true, Username: user.Username})
}

// Logout closes the current session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSessionFromContext(r.Context()); session != nil {
		if err := h.authService.Logout(r.Context(), session.ID); err != nil && err != models.ErrSessionNotFound {
			observability.Warnf("logout failed: %v", err)
		}
	}

	clearSessionCookie(w, r)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the current session state. Unlike the other endpoints this
// never responds 401: an anonymous visitor simply gets logged_in=false.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondJSON(w, http.StatusOK, models.SessionInfo{LoggedIn: false})
		return
	}

	respondJSON(w, http.StatusOK, models.SessionInfo{
		LoggedIn: true,
		Username: user.Username,
		UserID:   user.ID,
		Theme:    user.Theme,
		IsAdmin:  user.IsAdmin,
	})
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, session *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(models.SessionDuration.Seconds()),
	})
}

func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
