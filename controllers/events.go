package controllers

import (
	"database/sql"
	"net/http"

	"fundacion-api/models"
	"fundacion-api/store"
	"fundacion-api/utils"
)

type EventController struct{}

func (ec EventController) GetEvents(db *sql.DB) http.HandlerFunc {
	events := store.NewEventStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := events.GetAll(r.Context())
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, all)
	}
}

func (ec EventController) GetEvent(db *sql.DB) http.HandlerFunc {
	events := store.NewEventStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de evento inválido"})
			return
		}
		event, err := events.GetByID(r.Context(), id)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, event)
	}
}

func (ec EventController) CreateEvent(db *sql.DB) http.HandlerFunc {
	events := store.NewEventStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}
		var event models.Event
		if !decodeAndValidate(w, r, &event) {
			return
		}
		created, err := events.Create(r.Context(), event)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSONStatus(w, http.StatusCreated, created)
	}
}

func (ec EventController) UpdateEvent(db *sql.DB) http.HandlerFunc {
	events := store.NewEventStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de evento inválido"})
			return
		}
		var event models.Event
		if !decodeAndValidate(w, r, &event) {
			return
		}
		event.ID = id

		updated, err := events.Update(r.Context(), event)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, updated)
	}
}

func (ec EventController) DeleteEvent(db *sql.DB) http.HandlerFunc {
	events := store.NewEventStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de evento inválido"})
			return
		}
		if err := events.Delete(r.Context(), id); err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "evento eliminado"})
	}
}

// RegisterToEvent is public: a sign-up only needs contact data, and the
// store handles capacity and the one-sign-up-per-document rule atomically.
func (ec EventController) RegisterToEvent(db *sql.DB) http.HandlerFunc {
	events := store.NewEventStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de evento inválido"})
			return
		}
		var reg models.EventRegistration
		if !decodeAndValidate(w, r, &reg) {
			return
		}
		reg.EventID = eventID

		created, err := events.Register(r.Context(), reg)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSONStatus(w, http.StatusCreated, created)
	}
}

func (ec EventController) GetEventRegistrations(db *sql.DB) http.HandlerFunc {
	events := store.NewEventStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}
		eventID, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de evento inválido"})
			return
		}
		list, err := events.ListRegistrations(r.Context(), eventID)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, list)
	}
}
