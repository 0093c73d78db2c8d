package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"lingo-quiz/internal/models"
	"lingo-quiz/internal/seed"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const pgUniqueViolation = "23505"

// Postgres is the database-backed store.
type Postgres struct {
	db  *sql.DB
	log *zap.Logger
}

// NewPostgres wraps an open pool; see database.Connect.
func NewPostgres(db *sql.DB, log *zap.Logger) *Postgres {
	return &Postgres{db: db, log: log}
}

func (p *Postgres) CreateUser(ctx context.Context, email, passwordHash string) (int, error) {
	var id int
	err := p.db.QueryRowContext(ctx,
		"INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id",
		normalizeEmail(email), passwordHash).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return 0, ErrDuplicate
	}
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (p *Postgres) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := p.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash FROM users WHERE email = $1",
		normalizeEmail(email)).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

func (p *Postgres) Courses(ctx context.Context) ([]models.Course, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT id, name, code FROM courses ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Code); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (p *Postgres) Lessons(ctx context.Context, courseID int) ([]models.Lesson, error) {
	if err := p.exists(ctx, "SELECT 1 FROM courses WHERE id = $1", courseID); err != nil {
		return nil, err
	}
	rows, err := p.db.QueryContext(ctx,
		"SELECT id, course_id, lesson_order, title FROM lessons WHERE course_id = $1 ORDER BY id",
		courseID)
	if err != nil {
		return nil, fmt.Errorf("query lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Order, &l.Title); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (p *Postgres) Exercises(ctx context.Context, lessonID int) ([]models.Exercise, error) {
	if err := p.exists(ctx, "SELECT 1 FROM lessons WHERE id = $1", lessonID); err != nil {
		return nil, err
	}
	rows, err := p.db.QueryContext(ctx,
		"SELECT id, lesson_id, kind, prompt, options FROM exercises WHERE lesson_id = $1 ORDER BY position",
		lessonID)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()

	exercises := []models.Exercise{}
	for rows.Next() {
		var (
			e       models.Exercise
			kind    string
			options sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.LessonID, &kind, &e.Prompt, &options); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		e.Type = models.ExerciseType(kind)
		if options.Valid {
			if err := json.Unmarshal([]byte(options.String), &e.Options); err != nil {
				return nil, fmt.Errorf("exercise %d options: %w", e.ID, err)
			}
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

func (p *Postgres) Answer(ctx context.Context, exerciseID int) (string, error) {
	var answer string
	err := p.db.QueryRowContext(ctx, "SELECT answer FROM exercises WHERE id = $1", exerciseID).Scan(&answer)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select answer: %w", err)
	}
	return answer, nil
}

func (p *Postgres) SeedDemo(ctx context.Context) error {
	_, err := seed.Load(ctx, p.db, seed.Demo, p.log)
	return err
}

func (p *Postgres) exists(ctx context.Context, query string, id int) error {
	var one int
	err := p.db.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
