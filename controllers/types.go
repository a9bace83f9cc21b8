package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fundacion-api/models"
	"fundacion-api/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

var validate = validator.New()

// decodeAndValidate decodes a JSON body into dst and runs its validate tags.
// On failure it writes the 400 envelope and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "cuerpo de la petición inválido"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, models.Error{
			Message: "datos inválidos",
			Details: validationDetails(err),
		})
		return false
	}
	return true
}

func validationDetails(err error) []any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []any{err.Error()}
	}
	details := make([]any, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, map[string]string{
			"field": fe.Field(),
			"rule":  fe.Tag(),
		})
	}
	return details
}

// pathID reads the {id} route variable.
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryBool parses an optional boolean filter; nil means absent.
func queryBool(r *http.Request, name string) *bool {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// requireAuth verifies the bearer token and writes the 401 envelope when it
// is missing or invalid.
func requireAuth(w http.ResponseWriter, r *http.Request) (models.SessionUser, bool) {
	user, err := utils.VerifyToken(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, models.Error{Message: "no autorizado, debes iniciar sesión"})
		return user, false
	}
	return user, true
}
