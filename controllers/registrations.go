package controllers

import (
	"database/sql"
	"fmt"
	"net/http"

	"fundacion-api/models"
	"fundacion-api/store"
	"fundacion-api/utils"
)

type RegistrationController struct{}

// Register is the public enrollment endpoint. Anyone can sign up for a
// program; the store enforces terms, eligibility, questionnaire answers
// and the one-registration-per-document rule.
func (rc RegistrationController) Register(db *sql.DB) http.HandlerFunc {
	registrations := store.NewRegistrationStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		programID, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de programa inválido"})
			return
		}
		var reg models.Registration
		if !decodeAndValidate(w, r, &reg) {
			return
		}
		reg.ProgramID = programID

		created, err := registrations.Register(r.Context(), reg)
		if err != nil {
			utils.RespondError(w, err)
			return
		}

		if created.Email != "" {
			go utils.SendEmail(created.Email, "Inscripción recibida",
				fmt.Sprintf("Hola %s, recibimos tu inscripción al programa %s. Pronto nos pondremos en contacto contigo.",
					created.FullName, created.ProgramName))
		}
		utils.ResponseJSONStatus(w, http.StatusCreated, created)
	}
}

func (rc RegistrationController) ListByProgram(db *sql.DB) http.HandlerFunc {
	registrations := store.NewRegistrationStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}
		programID, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de programa inválido"})
			return
		}
		search := r.URL.Query().Get("search")
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 10)

		list, pagination, err := registrations.ListByProgram(r.Context(), programID, search, page, limit)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, map[string]any{
			"registrations": list,
			"pagination":    pagination,
		})
	}
}

func (rc RegistrationController) GetRegistration(db *sql.DB) http.HandlerFunc {
	registrations := store.NewRegistrationStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de inscripción inválido"})
			return
		}
		reg, err := registrations.GetByID(r.Context(), id)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, reg)
	}
}

func (rc RegistrationController) UpdateRegistration(db *sql.DB) http.HandlerFunc {
	registrations := store.NewRegistrationStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de inscripción inválido"})
			return
		}
		var reg models.Registration
		if !decodeAndValidate(w, r, &reg) {
			return
		}
		reg.ID = id

		updated, err := registrations.Update(r.Context(), reg)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, updated)
	}
}

func (rc RegistrationController) DeleteRegistration(db *sql.DB) http.HandlerFunc {
	registrations := store.NewRegistrationStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de inscripción inválido"})
			return
		}
		if err := registrations.Delete(r.Context(), id); err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "inscripción eliminada"})
	}
}
