package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lingo-quiz/internal/models"
	"lingo-quiz/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Store is what the handlers need from persistence; see store.Postgres and store.Memory.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash string) (int, error)
	UserByEmail(ctx context.Context, email string) (store.User, error)
	Courses(ctx context.Context) ([]models.Course, error)
	Lessons(ctx context.Context, courseID int) ([]models.Lesson, error)
	Exercises(ctx context.Context, lessonID int) ([]models.Exercise, error)
	Answer(ctx context.Context, exerciseID int) (string, error)
	SeedDemo(ctx context.Context) error
}

// ApiHandler serves the course API.
type ApiHandler struct {
	store    Store
	jwtKey   []byte
	tokenTTL time.Duration
	metrics  *Metrics
	log      *zap.Logger
}

// NewApiHandler builds the handler. Tokens are signed with jwtKey and live for tokenTTL.
func NewApiHandler(st Store, jwtKey []byte, tokenTTL time.Duration, metrics *Metrics, log *zap.Logger) *ApiHandler {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ApiHandler{store: st, jwtKey: jwtKey, tokenTTL: tokenTTL, metrics: metrics, log: log}
}

// Credentials is the register and login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Claims is the JWT body.
type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// CheckRequest is the body of an answer check.
type CheckRequest struct {
	Answer string `json:"answer"`
}

func (h *ApiHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !strings.Contains(creds.Email, "@") || len(creds.Password) < 6 {
		respondWithError(w, http.StatusBadRequest, "Email and a password of at least 6 characters are required")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	if _, err := h.store.CreateUser(r.Context(), creds.Email, string(hashedPassword)); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			respondWithError(w, http.StatusConflict, "Email already exists")
			return
		}
		h.internalError(w, r, "register", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (h *ApiHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.store.UserByEmail(r.Context(), creds.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		} else {
			h.internalError(w, r, "login", err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtKey)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create token")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"token": tokenString})
}

func (h *ApiHandler) SeedDemo(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SeedDemo(r.Context()); err != nil {
		h.internalError(w, r, "seed", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Demo data seeded"})
}

func (h *ApiHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.store.Courses(r.Context())
	if err != nil {
		h.internalError(w, r, "list courses", err)
		return
	}
	respondWithJSON(w, http.StatusOK, courses)
}

func (h *ApiHandler) GetLessonsByCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "course_id")
	if !ok {
		return
	}
	lessons, err := h.store.Lessons(r.Context(), courseID)
	if err != nil {
		h.storeError(w, r, "list lessons", "Course not found", err)
		return
	}
	respondWithJSON(w, http.StatusOK, lessons)
}

func (h *ApiHandler) GetExercisesByLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(w, r, "lesson_id")
	if !ok {
		return
	}
	exercises, err := h.store.Exercises(r.Context(), lessonID)
	if err != nil {
		h.storeError(w, r, "list exercises", "Lesson not found", err)
		return
	}
	respondWithJSON(w, http.StatusOK, exercises)
}

func (h *ApiHandler) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	exerciseID, ok := pathID(w, r, "exercise_id")
	if !ok {
		return
	}
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	expected, err := h.store.Answer(r.Context(), exerciseID)
	if err != nil {
		h.storeError(w, r, "check answer", "Exercise not found", err)
		return
	}

	result := models.AnswerCheckResult{
		Correct:  answersMatch(expected, req.Answer),
		Expected: expected,
	}
	h.metrics.observeCheck(result.Correct)
	if userID, ok := UserID(r.Context()); ok {
		h.log.Debug("answer checked",
			zap.Int("user_id", userID),
			zap.Int("exercise_id", exerciseID),
			zap.Bool("correct", result.Correct))
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Healthz reports liveness.
func (h *ApiHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+strings.ReplaceAll(name, "_", " "))
		return 0, false
	}
	return id, true
}

func (h *ApiHandler) storeError(w http.ResponseWriter, r *http.Request, op, notFound string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, notFound)
		return
	}
	h.internalError(w, r, op, err)
}

func (h *ApiHandler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.Error(op+" failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, "Internal server error")
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		code = http.StatusInternalServerError
		response = []byte(`{"error":"Failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
