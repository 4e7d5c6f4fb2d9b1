package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/auth"
	"github.com/rogerio-castellano/pantry-tracker/internal/mail"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
	"github.com/rogerio-castellano/pantry-tracker/internal/repo"
)

const SessionCookieName = "session"

// RegisterHandler godoc
// @Summary Request a login link
// @Description Finds or creates the user by email and mails a single-use login link
// @Tags users
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Name and email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 429 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /users/register [post]
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if errs := validateRegister(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	user, err := userRepo.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, repo.ErrUserNotFound) {
		t := now()
		user, err = userRepo.Create(r.Context(), models.User{
			ID:        uuid.New(),
			Name:      req.Name,
			Email:     req.Email,
			CreatedAt: t,
			UpdatedAt: t,
		})
	}
	if err != nil {
		serverError(w, "register user", err)
		return
	}

	token, jti, err := auth.GenerateLoginToken(user.ID, settings.LoginLinkTTL)
	if err != nil {
		serverError(w, "generate login token", err)
		return
	}
	if err := linkStore.Save(r.Context(), jti, settings.LoginLinkTTL); err != nil {
		serverError(w, "store login link", err)
		return
	}

	link := fmt.Sprintf("%s/api/v1/users/verify?token=%s", settings.AppURL, url.QueryEscape(token))
	msg := mail.Message{
		To:      user.Email,
		Subject: "Your Pantry Tracker login link",
		Body:    fmt.Sprintf("Hello %s,\n\nUse the link below to sign in. It expires in %s and works once.\n\n%s\n", user.Name, settings.LoginLinkTTL, link),
	}
	if err := mailer.Send(r.Context(), msg); err != nil {
		serverError(w, "send login link", err)
		return
	}

	writeMessage(w, http.StatusOK, "Check your email inbox.")
}

// VerifyHandler godoc
// @Summary Redeem a login link
// @Description Validates the emailed token, sets the session cookie and redirects to the app
// @Tags users
// @Produce json
// @Param token query string true "Login token"
// @Success 302 {object} MessageResponse
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /users/verify [get]
func VerifyHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeMessage(w, http.StatusBadRequest, "Token is required.")
		return
	}

	claims, err := auth.ParseToken(token, auth.PurposeLogin)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid or expired token.")
		return
	}

	pending, err := linkStore.Consume(r.Context(), claims.ID)
	if err != nil {
		serverError(w, "consume login link", err)
		return
	}
	if !pending {
		writeMessage(w, http.StatusUnauthorized, "Invalid or expired token.")
		return
	}

	userID, _ := claims.UserID()
	if _, err := userRepo.GetByID(r.Context(), userID); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found.")
			return
		}
		serverError(w, "fetch user", err)
		return
	}

	session, err := auth.GenerateSessionToken(userID, settings.SessionTTL)
	if err != nil {
		serverError(w, "generate session token", err)
		return
	}

	http.SetCookie(w, sessionCookie(session, int(settings.SessionTTL.Seconds())))
	respond(w, http.StatusFound, MessageResponse{Message: settings.AppURL}, http.Header{"Location": {settings.AppURL}})
}

// LogoutHandler godoc
// @Summary Clear the session cookie
// @Tags users
// @Success 204
// @Router /users/logout [post]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, sessionCookie("", -1))
	w.WriteHeader(http.StatusNoContent)
}

func sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   settings.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
