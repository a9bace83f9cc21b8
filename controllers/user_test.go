package controllers

import (
	"net/http"
	"testing"

	"fundacion-api/models"
)

func TestSignupLoginGetMeFlow(t *testing.T) {
	router, _ := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/signup", "", map[string]any{
		"name":     "Laura Gómez",
		"email":    "laura@fundacion.org",
		"password": "super-secreta",
	})
	expectStatus(t, rec, http.StatusCreated)

	rec = doJSON(t, router, http.MethodPost, "/login", "", map[string]any{
		"email":    "laura@fundacion.org",
		"password": "super-secreta",
	})
	expectStatus(t, rec, http.StatusOK)

	var session struct {
		User         models.SessionUser `json:"user"`
		AccessToken  string             `json:"accessToken"`
		RefreshToken string             `json:"refreshToken"`
	}
	decodeData(t, rec, &session)
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatal("expected both tokens in login response")
	}
	if session.User.Email != "laura@fundacion.org" {
		t.Fatalf("user email = %q", session.User.Email)
	}

	rec = doJSON(t, router, http.MethodGet, "/getMe", session.AccessToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var me models.SessionUser
	decodeData(t, rec, &me)
	if me.ID != session.User.ID || me.Name != "Laura Gómez" {
		t.Fatalf("getMe = %+v", me)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	router, db := newTestServer(t)
	seedAdmin(t, db, "admin@fundacion.org")

	cases := map[string]map[string]any{
		"unknown email":  {"email": "nadie@fundacion.org", "password": "secret-password"},
		"wrong password": {"email": "admin@fundacion.org", "password": "incorrecta"},
		"missing fields": {"email": "", "password": ""},
	}
	for name, body := range cases {
		rec := doJSON(t, router, http.MethodPost, "/login", "", body)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, rec.Code)
		}
		env := decodeEnvelope(t, rec)
		if env.Error != "credenciales incorrectas" {
			t.Fatalf("%s: error = %q, want the one shared message", name, env.Error)
		}
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	router, db := newTestServer(t)
	seedAdmin(t, db, "admin@fundacion.org")

	rec := doJSON(t, router, http.MethodPost, "/signup", "", map[string]any{
		"name":     "Otro Admin",
		"email":    "admin@fundacion.org",
		"password": "super-secreta",
	})
	expectStatus(t, rec, http.StatusConflict)
}

func TestSignupKeyGate(t *testing.T) {
	router, _ := newTestServer(t)
	t.Setenv("SIGNUP_KEY", "bootstrap-key")

	rec := doJSON(t, router, http.MethodPost, "/signup", "", map[string]any{
		"name":     "Sin Llave",
		"email":    "sin@fundacion.org",
		"password": "super-secreta",
	})
	expectStatus(t, rec, http.StatusForbidden)

	req := doJSONWithHeader(t, router, "/signup", "X-Signup-Key", "bootstrap-key", map[string]any{
		"name":     "Con Llave",
		"email":    "con@fundacion.org",
		"password": "super-secreta",
	})
	expectStatus(t, req, http.StatusCreated)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	router, _ := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/signup", "", map[string]any{
		"name":     "Laura Gómez",
		"email":    "laura@fundacion.org",
		"password": "super-secreta",
	})
	expectStatus(t, rec, http.StatusCreated)

	rec = doJSON(t, router, http.MethodPost, "/login", "", map[string]any{
		"email":    "laura@fundacion.org",
		"password": "super-secreta",
	})
	var session struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	decodeData(t, rec, &session)

	rec = doJSON(t, router, http.MethodPost, "/refresh", "", map[string]any{
		"refreshToken": session.RefreshToken,
	})
	expectStatus(t, rec, http.StatusOK)
	var refreshed struct {
		AccessToken string `json:"accessToken"`
	}
	decodeData(t, rec, &refreshed)
	if refreshed.AccessToken == "" {
		t.Fatal("expected a new access token")
	}

	// An access token is not accepted as a refresh token.
	rec = doJSON(t, router, http.MethodPost, "/refresh", "", map[string]any{
		"refreshToken": session.AccessToken,
	})
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestGetMeRequiresToken(t *testing.T) {
	router, _ := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/getMe", "", nil)
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = doJSON(t, router, http.MethodGet, "/getMe", "not-a-token", nil)
	expectStatus(t, rec, http.StatusUnauthorized)
}
