package controllers

import (
	"database/sql"
	"net/http"

	"fundacion-api/forms"
	"fundacion-api/models"
	"fundacion-api/store"
	"fundacion-api/utils"
)

type ProgramController struct{}

type programRequest struct {
	Name                string       `json:"name" validate:"required,min=3"`
	Description         string       `json:"description" validate:"required"`
	LongDescription     string       `json:"longDescription"`
	Requirements        []string     `json:"requirements"`
	Benefits            []string     `json:"benefits"`
	SpecificInformation forms.Schema `json:"specificInformation"`
	MinAge              *int         `json:"minAge" validate:"omitempty,min=0,max=120"`
	MaxAge              *int         `json:"maxAge" validate:"omitempty,min=0,max=120"`
}

// checkProgramRequest runs the schema sanity checks an authored form must
// pass before it can be stored.
func checkProgramRequest(w http.ResponseWriter, req programRequest) bool {
	if req.MinAge != nil && req.MaxAge != nil && *req.MinAge > *req.MaxAge {
		utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "minAge no puede ser mayor que maxAge"})
		return false
	}
	if errs := forms.CheckSchema(req.SpecificInformation); len(errs) > 0 {
		details := make([]any, len(errs))
		for i, e := range errs {
			details[i] = e
		}
		utils.RespondWithError(w, http.StatusBadRequest, models.Error{
			Message: "el formulario del programa tiene errores",
			Details: details,
		})
		return false
	}
	return true
}

func (pc ProgramController) GetPrograms(db *sql.DB) http.HandlerFunc {
	programs := store.NewProgramStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := programs.GetAll(r.Context())
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, all)
	}
}

func (pc ProgramController) GetProgram(db *sql.DB) http.HandlerFunc {
	programs := store.NewProgramStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de programa inválido"})
			return
		}
		program, err := programs.GetByID(r.Context(), id)
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, program)
	}
}

func (pc ProgramController) CreateProgram(db *sql.DB) http.HandlerFunc {
	programs := store.NewProgramStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}
		var req programRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if !checkProgramRequest(w, req) {
			return
		}

		created, err := programs.Create(r.Context(), models.Program{
			Name:                req.Name,
			Description:         req.Description,
			LongDescription:     req.LongDescription,
			Requirements:        req.Requirements,
			Benefits:            req.Benefits,
			SpecificInformation: req.SpecificInformation,
			MinAge:              req.MinAge,
			MaxAge:              req.MaxAge,
		})
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSONStatus(w, http.StatusCreated, created)
	}
}

func (pc ProgramController) UpdateProgram(db *sql.DB) http.HandlerFunc {
	programs := store.NewProgramStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de programa inválido"})
			return
		}
		var req programRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if !checkProgramRequest(w, req) {
			return
		}

		// Ensure it exists before the update so a miss is a clean 404.
		if _, err := programs.GetByID(r.Context(), id); err != nil {
			utils.RespondError(w, err)
			return
		}

		updated, err := programs.Update(r.Context(), models.Program{
			ID:                  id,
			Name:                req.Name,
			Description:         req.Description,
			LongDescription:     req.LongDescription,
			Requirements:        req.Requirements,
			Benefits:            req.Benefits,
			SpecificInformation: req.SpecificInformation,
			MinAge:              req.MinAge,
			MaxAge:              req.MaxAge,
		})
		if err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, updated)
	}
}

func (pc ProgramController) DeleteProgram(db *sql.DB) http.HandlerFunc {
	programs := store.NewProgramStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireAuth(w, r); !ok {
			return
		}
		id, ok := pathID(r, "id")
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "id de programa inválido"})
			return
		}
		if err := programs.Delete(r.Context(), id); err != nil {
			utils.RespondError(w, err)
			return
		}
		utils.ResponseJSON(w, map[string]string{"message": "programa eliminado"})
	}
}
