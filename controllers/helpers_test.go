package controllers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fundacion-api/models"
	"fundacion-api/store"
	"fundacion-api/utils"

	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
)

// newTestServer wires the full route table over an in-memory sqlite
// database, mirroring the production router so handler tests exercise the
// same paths and methods clients use.
func newTestServer(t *testing.T) (*mux.Router, *sql.DB) {
	t.Helper()
	t.Setenv("SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range testSchema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	controller := Controller{}
	programController := ProgramController{}
	registrationController := RegistrationController{}
	eventController := EventController{}
	newsController := NewsController{}
	contactController := ContactController{}
	router := mux.NewRouter()

	router.HandleFunc("/signup", controller.Signup(db)).Methods("POST")
	router.HandleFunc("/login", controller.Login(db)).Methods("POST")
	router.HandleFunc("/refresh", controller.Refresh(db)).Methods("POST")
	router.HandleFunc("/getMe", controller.GetMe(db)).Methods("GET")

	router.HandleFunc("/programs", programController.GetPrograms(db)).Methods("GET")
	router.HandleFunc("/programs", programController.CreateProgram(db)).Methods("POST")
	router.HandleFunc("/programs/{id}", programController.GetProgram(db)).Methods("GET")
	router.HandleFunc("/programs/{id}", programController.UpdateProgram(db)).Methods("PUT")
	router.HandleFunc("/programs/{id}", programController.DeleteProgram(db)).Methods("DELETE")

	router.HandleFunc("/programs/{id}/registrations", registrationController.Register(db)).Methods("POST")
	router.HandleFunc("/programs/{id}/registrations", registrationController.ListByProgram(db)).Methods("GET")
	router.HandleFunc("/registrations/{id}", registrationController.GetRegistration(db)).Methods("GET")
	router.HandleFunc("/registrations/{id}", registrationController.UpdateRegistration(db)).Methods("PUT")
	router.HandleFunc("/registrations/{id}", registrationController.DeleteRegistration(db)).Methods("DELETE")

	router.HandleFunc("/events", eventController.GetEvents(db)).Methods("GET")
	router.HandleFunc("/events", eventController.CreateEvent(db)).Methods("POST")
	router.HandleFunc("/events/{id}", eventController.GetEvent(db)).Methods("GET")
	router.HandleFunc("/events/{id}", eventController.UpdateEvent(db)).Methods("PUT")
	router.HandleFunc("/events/{id}", eventController.DeleteEvent(db)).Methods("DELETE")
	router.HandleFunc("/events/{id}/registrations", eventController.RegisterToEvent(db)).Methods("POST")
	router.HandleFunc("/events/{id}/registrations", eventController.GetEventRegistrations(db)).Methods("GET")

	router.HandleFunc("/news", newsController.GetNews(db)).Methods("GET")
	router.HandleFunc("/news", newsController.CreateNews(db)).Methods("POST")
	router.HandleFunc("/news/{id}", newsController.GetNewsByID(db)).Methods("GET")
	router.HandleFunc("/news/{id}", newsController.UpdateNews(db)).Methods("PUT")
	router.HandleFunc("/news/{id}", newsController.DeleteNews(db)).Methods("DELETE")

	router.HandleFunc("/contact", contactController.SendMessage(db)).Methods("POST")

	return router, db
}

var testSchema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE programs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		long_description TEXT NOT NULL DEFAULT '',
		requirements TEXT NOT NULL DEFAULT '[]',
		benefits TEXT NOT NULL DEFAULT '[]',
		specific_information TEXT NOT NULL DEFAULT '{}',
		min_age INTEGER,
		max_age INTEGER,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE registrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type_document TEXT NOT NULL DEFAULT 'CC',
		num_document TEXT NOT NULL,
		full_name TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT '',
		birth_date TEXT NOT NULL DEFAULT '',
		comune TEXT NOT NULL DEFAULT '',
		social_stratum TEXT NOT NULL DEFAULT '',
		age INTEGER NOT NULL DEFAULT 0,
		etnical_group TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		motivation TEXT NOT NULL DEFAULT '',
		expectations TEXT NOT NULL DEFAULT '',
		accept_terms INTEGER NOT NULL DEFAULT 0,
		specific_information TEXT NOT NULL DEFAULT '{}',
		program_id INTEGER NOT NULL REFERENCES programs(id),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (program_id, num_document)
	)`,
	`CREATE TABLE events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		duration INTEGER NOT NULL DEFAULT 0,
		capacity INTEGER NOT NULL,
		registered INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'Programado',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE event_registrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name TEXT NOT NULL,
		num_document TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		event_id INTEGER NOT NULL REFERENCES events(id),
		created_at TEXT NOT NULL,
		UNIQUE (event_id, num_document)
	)`,
	`CREATE TABLE news (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '[]',
		important INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		images TEXT NOT NULL DEFAULT '[]',
		author_id INTEGER NOT NULL REFERENCES users(id),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE contact_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
}

// doJSON sends a JSON request through the router and returns the recorder.
func doJSON(t *testing.T, router *mux.Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// doJSONWithHeader posts a JSON body with one extra header set.
func doJSONWithHeader(t *testing.T, router *mux.Router, path, header, value string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(header, value)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// responseEnvelope mirrors the wire shape every handler writes.
type responseEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details []any           `json:"details"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("expected success envelope, got error %q", env.Error)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v\ndata: %s", err, env.Data)
	}
}

// seedAdmin creates an account directly in the store and returns a valid
// access token for it.
func seedAdmin(t *testing.T, db *sql.DB, email string) (models.User, string) {
	t.Helper()
	hashed, err := utils.HashPassword("secret-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	id, err := store.NewUserStore(db).Create(context.Background(), models.User{
		Name: "Admin", Email: email, Password: hashed,
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	user := models.User{ID: id, Name: "Admin", Email: email}
	token, err := utils.GenerateAccessToken(user, utils.AccessTokenTTL)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

func seedTestProgram(t *testing.T, db *sql.DB, p models.Program) models.Program {
	t.Helper()
	created, err := store.NewProgramStore(db).Create(context.Background(), p)
	if err != nil {
		t.Fatalf("seed program: %v", err)
	}
	return created
}

func intPtr(v int) *int { return &v }

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, want, rec.Body.String())
	}
}
