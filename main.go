package main

import (
	"net/http"
	"os"

	"fundacion-api/controllers"
	"fundacion-api/driver"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found, using environment as-is")
	}
	if os.Getenv("SECRET") == "" {
		logrus.Fatal("SECRET variable is not set")
	}

	db := driver.ConnectDB()
	defer db.Close()

	controller := controllers.Controller{}
	programController := controllers.ProgramController{}
	registrationController := controllers.RegistrationController{}
	eventController := controllers.EventController{}
	newsController := controllers.NewsController{}
	contactController := controllers.ContactController{}
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

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	logrus.Info("Server started on port " + port)
	logrus.Fatal(http.ListenAndServe(":"+port, router))
}
