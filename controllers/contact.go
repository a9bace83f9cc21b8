package controllers

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"

	"fundacion-api/models"
	"fundacion-api/store"
	"fundacion-api/utils"
)

type ContactController struct{}

// SendMessage stores a contact-form submission and forwards it to the
// foundation inbox when one is configured.
func (cc ContactController) SendMessage(db *sql.DB) http.HandlerFunc {
	contacts := store.NewContactStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		var msg models.ContactMessage
		if !decodeAndValidate(w, r, &msg) {
			return
		}

		created, err := contacts.Create(r.Context(), msg)
		if err != nil {
			utils.RespondError(w, err)
			return
		}

		if inbox := os.Getenv("CONTACT_INBOX"); inbox != "" {
			subject := created.Subject
			if subject == "" {
				subject = "Nuevo mensaje de contacto"
			}
			go utils.SendEmail(inbox, subject,
				fmt.Sprintf("De: %s <%s>\n\n%s", created.Name, created.Email, created.Message))
		}
		utils.ResponseJSONStatus(w, http.StatusCreated, created)
	}
}
