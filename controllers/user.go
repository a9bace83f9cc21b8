package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"fundacion-api/models"
	"fundacion-api/store"
	"fundacion-api/utils"

	"github.com/sirupsen/logrus"
)

type Controller struct{}

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type loginResponse struct {
	User         models.SessionUser `json:"user"`
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
}

// Signup creates a dashboard account. Outside development it requires the
// bootstrap key so the public API cannot mint admins.
func (c Controller) Signup(db *sql.DB) http.HandlerFunc {
	users := store.NewUserStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		if key := os.Getenv("SIGNUP_KEY"); key != "" && r.Header.Get("X-Signup-Key") != key {
			utils.RespondWithError(w, http.StatusForbidden, models.Error{Message: "registro de administradores deshabilitado"})
			return
		}

		var req signupRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			utils.RespondError(w, err)
			return
		}

		id, err := users.Create(r.Context(), models.User{
			Name:     req.Name,
			Email:    strings.ToLower(strings.TrimSpace(req.Email)),
			Password: hashed,
		})
		if err != nil {
			utils.RespondError(w, err)
			return
		}

		logrus.WithField("user_id", id).Info("admin account created")
		utils.ResponseJSONStatus(w, http.StatusCreated, models.SessionUser{ID: id, Name: req.Name, Email: req.Email})
	}
}

// Login checks credentials and issues the session token pair. Malformed
// input, unknown email and wrong password all produce the same answer so
// callers cannot probe which part failed.
func (c Controller) Login(db *sql.DB) http.HandlerFunc {
	users := store.NewUserStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		invalid := func() {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "credenciales incorrectas"})
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			invalid()
			return
		}
		if req.Email == "" || req.Password == "" {
			invalid()
			return
		}

		user, err := users.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			invalid()
			return
		}
		if !utils.ComparePasswords(user.Password, []byte(req.Password)) {
			invalid()
			return
		}

		accessToken, err := utils.GenerateAccessToken(user, utils.AccessTokenTTL)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		refreshToken, err := utils.GenerateRefreshToken(user, utils.RefreshTokenTTL)
		if err != nil {
			utils.RespondError(w, err)
			return
		}

		logrus.WithField("user_id", user.ID).Info("login")
		utils.ResponseJSON(w, loginResponse{
			User:         models.SessionUser{ID: user.ID, Name: user.Name, Email: user.Email},
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		})
	}
}

// Refresh exchanges a refresh token for a fresh access token, keeping the
// dashboard session alive while the user stays active.
func (c Controller) Refresh(db *sql.DB) http.HandlerFunc {
	users := store.NewUserStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		userID, err := utils.VerifyRefreshToken(req.RefreshToken)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "token de refresco inválido o expirado"})
			return
		}

		user, err := users.GetByID(r.Context(), userID)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "token de refresco inválido o expirado"})
			return
		}

		accessToken, err := utils.GenerateAccessToken(user, utils.AccessTokenTTL)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, map[string]string{"accessToken": accessToken})
	}
}

// GetMe returns the session user for the dashboard header.
func (c Controller) GetMe(db *sql.DB) http.HandlerFunc {
	users := store.NewUserStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireAuth(w, r)
		if !ok {
			return
		}
		user, err := users.GetByID(r.Context(), session.ID)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, models.SessionUser{ID: user.ID, Name: user.Name, Email: user.Email})
	}
}
