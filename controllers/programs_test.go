package controllers

import (
	"net/http"
	"testing"

	"fundacion-api/models"
)

func testProgramBody(name string) map[string]any {
	return map[string]any{
		"name":        name,
		"description": "Programa de prueba para la fundación.",
		"minAge":      8,
		"maxAge":      14,
		"specificInformation": map[string]any{
			"secciones": []map[string]any{{
				"titulo": "Datos del acudiente",
				"campos": []map[string]any{
					{"nombre": "acudiente", "tipo": "text", "etiqueta": "Nombre del acudiente", "obligatorio": true},
				},
			}},
		},
	}
}

func TestProgramCRUDOverHTTP(t *testing.T) {
	router, db := newTestServer(t)
	_, token := seedAdmin(t, db, "admin@fundacion.org")

	rec := doJSON(t, router, http.MethodPost, "/programs", token, testProgramBody("Taller STEAM"))
	expectStatus(t, rec, http.StatusCreated)
	var created models.Program
	decodeData(t, rec, &created)
	if created.ID == 0 || created.Name != "Taller STEAM" {
		t.Fatalf("created = %+v", created)
	}
	if created.MinAge == nil || *created.MinAge != 8 {
		t.Fatalf("minAge = %v", created.MinAge)
	}

	rec = doJSON(t, router, http.MethodGet, "/programs", "", nil)
	expectStatus(t, rec, http.StatusOK)
	var all []models.Program
	decodeData(t, rec, &all)
	if len(all) != 1 {
		t.Fatalf("listed %d programs", len(all))
	}

	body := testProgramBody("Taller STEAM renovado")
	rec = doJSON(t, router, http.MethodPut, "/programs/1", token, body)
	expectStatus(t, rec, http.StatusOK)
	var updated models.Program
	decodeData(t, rec, &updated)
	if updated.Name != "Taller STEAM renovado" {
		t.Fatalf("updated name = %q", updated.Name)
	}

	rec = doJSON(t, router, http.MethodDelete, "/programs/1", token, nil)
	expectStatus(t, rec, http.StatusOK)

	rec = doJSON(t, router, http.MethodGet, "/programs/1", "", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestProgramMutationsRequireAuth(t *testing.T) {
	router, _ := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/programs", "", testProgramBody("Sin token"))
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = doJSON(t, router, http.MethodPut, "/programs/1", "", testProgramBody("Sin token"))
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = doJSON(t, router, http.MethodDelete, "/programs/1", "", nil)
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestProgramRejectsBrokenSchema(t *testing.T) {
	router, db := newTestServer(t)
	_, token := seedAdmin(t, db, "admin@fundacion.org")

	body := testProgramBody("Formulario roto")
	body["specificInformation"] = map[string]any{
		"secciones": []map[string]any{{
			"titulo": "Sección",
			"campos": []map[string]any{
				// A radio without options and a condition on a field that
				// does not exist.
				{"nombre": "nivel", "tipo": "radio", "etiqueta": "Nivel"},
				{"nombre": "detalle", "tipo": "text", "etiqueta": "Detalle",
					"condiciones": []map[string]any{{"campo": "inexistente", "valor": "x"}}},
			},
		}},
	}

	rec := doJSON(t, router, http.MethodPost, "/programs", token, body)
	expectStatus(t, rec, http.StatusBadRequest)
	env := decodeEnvelope(t, rec)
	if len(env.Details) == 0 {
		t.Fatal("expected field-level details on the schema errors")
	}
}

func TestProgramRejectsInvertedAgeBounds(t *testing.T) {
	router, db := newTestServer(t)
	_, token := seedAdmin(t, db, "admin@fundacion.org")

	body := testProgramBody("Edades invertidas")
	body["minAge"] = 30
	body["maxAge"] = 20
	rec := doJSON(t, router, http.MethodPost, "/programs", token, body)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestProgramDeleteBlockedByRegistrations(t *testing.T) {
	router, db := newTestServer(t)
	_, token := seedAdmin(t, db, "admin@fundacion.org")
	seedTestProgram(t, db, models.Program{Name: "Con inscritos", Description: "x"})

	reg := testRegistrationBody()
	rec := doJSON(t, router, http.MethodPost, "/programs/1/registrations", "", reg)
	expectStatus(t, rec, http.StatusCreated)

	rec = doJSON(t, router, http.MethodDelete, "/programs/1", token, nil)
	expectStatus(t, rec, http.StatusConflict)

	// Removing the registration unblocks the delete.
	rec = doJSON(t, router, http.MethodDelete, "/registrations/1", token, nil)
	expectStatus(t, rec, http.StatusOK)
	rec = doJSON(t, router, http.MethodDelete, "/programs/1", token, nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestProgramUpdateUnknownIDIs404(t *testing.T) {
	router, db := newTestServer(t)
	_, token := seedAdmin(t, db, "admin@fundacion.org")

	rec := doJSON(t, router, http.MethodPut, "/programs/99", token, testProgramBody("Fantasma"))
	expectStatus(t, rec, http.StatusNotFound)
}
