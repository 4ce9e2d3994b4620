package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pawmate/pawmate/internal/server/services"
)

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fields := map[string]string{}
	if req.Username == "" {
		fields["username"] = "required"
	}
	if req.Email == "" {
		fields["email"] = "required"
	}
	if req.Password == "" {
		fields["password"] = "required"
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		fields["confirm_password"] = "passwords do not match"
	}
	if len(fields) > 0 {
		respondValidation(w, "validation failed", fields)
		return
	}

	account, pair, err := h.users.Register(r.Context(), services.RegisterParams{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	data := accountResponse(account)
	data["tokens"] = tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
	respondSuccess(w, http.StatusCreated,
		"registered; check your inbox for a verification link", data)
}

type loginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	login := req.Login
	if login == "" {
		login = req.Username
	}
	if login == "" || req.Password == "" {
		respondValidation(w, "validation failed", map[string]string{"login": "login and password are required"})
		return
	}

	user, pair, err := h.users.Login(r.Context(), login, req.Password, clientIP(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "logged in", map[string]any{
		"user":   userResponse(user),
		"tokens": tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken},
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.users.Logout(r.Context(), req.RefreshToken); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "logged out", nil)
}

func (h *Handler) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		respondValidation(w, "validation failed", map[string]string{"refresh_token": "required"})
		return
	}

	pair, err := h.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "token refreshed",
		tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		respondValidation(w, "validation failed", map[string]string{"token": "required"})
		return
	}

	if err := h.users.VerifyEmail(r.Context(), token); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "email verified", nil)
}
