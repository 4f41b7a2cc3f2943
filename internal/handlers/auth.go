package handlers

import (
	"net/http"

	"github.com/AnshRaj112/journal-backend/internal/middleware"
	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/pkg/clientip"
	"github.com/google/uuid"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"email"`
	IsStaff bool      `json:"is_staff"`
}

type AuthResponse struct {
	Status string       `json:"status"`
	Token  string       `json:"token,omitempty"`
	User   UserResponse `json:"user"`
}

func userResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, IsStaff: u.IsStaff}
}

// Signup handles POST /api/auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeStatusError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	u, err := h.auth.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, AuthResponse{Status: "created", User: userResponse(u)})
}

// Signin handles POST /api/auth/signin. The token is returned in the body
// for API clients and set as an HttpOnly cookie for the browser.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeStatusError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	token, u, err := h.auth.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, AuthResponse{Status: "ok", Token: token, User: userResponse(u)})
}

// Signout handles POST /api/auth/signout
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Signout(r.Context(), middleware.SessionToken(r)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	writeJSON(w, http.StatusOK, UserResponse{ID: id.UserID, Email: id.Email, IsStaff: id.IsStaff})
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type ThrottledResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	RetryAfter int64  `json:"retry_after"`
}

const resetSentMessage = "If an account exists for this email, a password reset link has been sent."

// RequestPasswordReset handles POST /api/auth/password-reset. The response
// does not reveal whether an account exists for the email.
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeStatusError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	decision, err := h.auth.RequestPasswordReset(r.Context(), req.Email, clientip.FromRequest(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !decision.Eligible {
		writeJSON(w, http.StatusTooManyRequests, ThrottledResponse{
			Status:     "throttled",
			Message:    decision.Message(),
			RetryAfter: int64(decision.Remaining.Seconds()),
		})
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok", Message: resetSentMessage})
}

type ConfirmPasswordResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ConfirmPasswordReset handles POST /api/auth/password-reset/confirm
func (h *Handler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPasswordResetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeStatusError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.auth.ConfirmPasswordReset(r.Context(), req.Token, req.Password); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok", Message: "Password updated. Please sign in again."})
}
