package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter mounts the API under /api next to /healthz and /metrics.
func NewRouter(h *ApiHandler) http.Handler {
	r := mux.NewRouter()
	r.Use(h.RequestMiddleware)

	r.HandleFunc("/healthz", h.Healthz).Methods("GET")
	r.Handle("/metrics", h.metrics.Handler()).Methods("GET")

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/register", h.RegisterUser).Methods("POST")
	apiRouter.HandleFunc("/login", h.LoginUser).Methods("POST")

	s := apiRouter.PathPrefix("/").Subrouter()
	s.Use(h.AuthMiddleware)
	s.HandleFunc("/seed", h.SeedDemo).Methods("POST")
	s.HandleFunc("/courses", h.GetCourses).Methods("GET")
	s.HandleFunc("/courses/{course_id:[0-9]+}/lessons", h.GetLessonsByCourse).Methods("GET")
	s.HandleFunc("/lessons/{lesson_id:[0-9]+}/exercises", h.GetExercisesByLesson).Methods("GET")
	s.HandleFunc("/exercises/{exercise_id:[0-9]+}/check", h.CheckAnswer).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondWithError(w, http.StatusNotFound, "Not found")
	})
	return r
}
