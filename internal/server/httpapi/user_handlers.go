package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pawmate/pawmate/internal/server/models"
	"github.com/pawmate/pawmate/internal/server/services"
)

type userDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type profileDTO struct {
	Phone         *string    `json:"phone"`
	Bio           string     `json:"bio"`
	BirthDate     *time.Time `json:"birth_date"`
	Gender        string     `json:"gender,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	PhoneVerified bool       `json:"phone_verified"`
	LoginCount    int64      `json:"login_count"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
}

func userResponse(u *models.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func profileResponse(p *models.Profile, avatarURL string) profileDTO {
	return profileDTO{
		Phone:         p.Phone,
		Bio:           p.Bio,
		BirthDate:     p.BirthDate,
		Gender:        p.Gender,
		EmailVerified: p.EmailVerified,
		PhoneVerified: p.PhoneVerified,
		LoginCount:    p.LoginCount,
		AvatarURL:     avatarURL,
	}
}

func accountResponse(a *services.Account) map[string]any {
	return map[string]any{
		"user":    userResponse(a.User),
		"profile": profileResponse(a.Profile, ""),
	}
}

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	account, err := h.users.GetAccount(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	avatarURL := ""
	if account.Profile.AvatarKey != "" {
		if url, err := h.avatars.DownloadURL(r.Context(), userID); err == nil {
			avatarURL = url
		} else {
			h.logger.Warn(r.Context(), "avatar url not presigned", "user_id", userID, "error", err)
		}
	}

	respondSuccess(w, http.StatusOK, "", map[string]any{
		"user":    userResponse(account.User),
		"profile": profileResponse(account.Profile, avatarURL),
	})
}

type updateMeRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Bio       *string `json:"bio"`
	BirthDate *string `json:"birth_date"` // YYYY-MM-DD
	Gender    *string `json:"gender"`
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req updateMeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	upd := services.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Bio:       req.Bio,
		Gender:    req.Gender,
	}
	if req.BirthDate != nil {
		d, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			respondValidation(w, "validation failed", map[string]string{"birth_date": "expected YYYY-MM-DD"})
			return
		}
		upd.BirthDate = &d
	}

	account, err := h.users.UpdateAccount(r.Context(), userID, upd)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "profile updated", accountResponse(account))
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req changePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		respondValidation(w, "validation failed", map[string]string{"new_password": "old and new passwords are required"})
		return
	}

	if err := h.users.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "password changed", nil)
}

func (h *Handler) beginAvatarUpload(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	up, err := h.avatars.BeginUpload(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "upload the image with HTTP PUT, then confirm", map[string]string{
		"key":        up.Key,
		"upload_url": up.URL,
	})
}

type confirmAvatarRequest struct {
	Key string `json:"key"`
}

func (h *Handler) confirmAvatar(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req confirmAvatarRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Key == "" {
		respondValidation(w, "validation failed", map[string]string{"key": "required"})
		return
	}

	if err := h.avatars.Confirm(r.Context(), userID, req.Key); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "avatar updated", nil)
}

func (h *Handler) removeAvatar(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := h.avatars.Remove(r.Context(), userID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "avatar removed", nil)
}

// --- admin ---

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	out := make([]userDTO, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	respondSuccess(w, http.StatusOK, "", out)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	account, err := h.users.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", accountResponse(account))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if callerID, _ := UserIDFromContext(r.Context()); callerID == id {
		respondError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "user deleted", nil)
}
