// Package seed loads the demo courses into the course service database.
package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lingo-quiz/internal/models"

	"go.uber.org/zap"
)

// ExerciseSeed is one exercise row; Answer never leaves the server.
type ExerciseSeed struct {
	Type    models.ExerciseType
	Prompt  string
	Options []string
	Answer  string
}

// LessonSeed groups the exercises of one lesson, in position order.
type LessonSeed struct {
	Order     int
	Title     string
	Exercises []ExerciseSeed
}

// CourseSeed is one course with its lessons.
type CourseSeed struct {
	Name    string
	Code    string
	Lessons []LessonSeed
}

// Stats counts what a Load touched.
type Stats struct {
	Courses   int
	Lessons   int
	Exercises int
}

// Load writes courses in one transaction. Courses are matched by code and lessons
// by title, so running it again updates rows in place and keeps their ids.
func Load(ctx context.Context, db *sql.DB, courses []CourseSeed, log *zap.Logger) (Stats, error) {
	start := time.Now()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	stats, err := load(ctx, tx, courses, log)
	if err != nil {
		return Stats{}, err
	}
	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}
	log.Info("demo data seeded",
		zap.Int("courses", stats.Courses),
		zap.Int("lessons", stats.Lessons),
		zap.Int("exercises", stats.Exercises),
		zap.Duration("took", time.Since(start)))
	return stats, nil
}

func load(ctx context.Context, tx *sql.Tx, courses []CourseSeed, log *zap.Logger) (Stats, error) {
	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO exercises (lesson_id, position, kind, prompt, options, answer)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (lesson_id, position)
		DO UPDATE SET
			kind = EXCLUDED.kind,
			prompt = EXCLUDED.prompt,
			options = EXCLUDED.options,
			answer = EXCLUDED.answer`)
	if err != nil {
		return Stats{}, err
	}
	defer upsert.Close()

	var stats Stats
	for _, c := range courses {
		courseID, err := getOrInsertCourse(ctx, tx, c, log)
		if err != nil {
			return stats, fmt.Errorf("course %s: %w", c.Code, err)
		}
		stats.Courses++

		for _, l := range c.Lessons {
			lessonID, err := getOrInsertLesson(ctx, tx, courseID, l, log)
			if err != nil {
				return stats, fmt.Errorf("lesson %q of %s: %w", l.Title, c.Code, err)
			}
			stats.Lessons++

			for i, e := range l.Exercises {
				options, err := encodeOptions(e.Options)
				if err != nil {
					return stats, err
				}
				if _, err := upsert.ExecContext(ctx, lessonID, i+1, string(e.Type), e.Prompt, options, e.Answer); err != nil {
					return stats, fmt.Errorf("exercise %d of lesson %q: %w", i+1, l.Title, err)
				}
				stats.Exercises++
			}

			// Drop exercises left over from a longer earlier version of the lesson.
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM exercises WHERE lesson_id = $1 AND position > $2",
				lessonID, len(l.Exercises)); err != nil {
				return stats, err
			}
		}
	}
	return stats, nil
}

func getOrInsertCourse(ctx context.Context, tx *sql.Tx, c CourseSeed, log *zap.Logger) (int, error) {
	var id int
	err := tx.QueryRowContext(ctx, "SELECT id FROM courses WHERE lower(code) = lower($1)", c.Code).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx,
			"INSERT INTO courses (name, code) VALUES ($1, $2) RETURNING id",
			c.Name, c.Code).Scan(&id)
		if err != nil {
			return 0, err
		}
		log.Debug("course created", zap.String("code", c.Code), zap.Int("id", id))
		return id, nil
	}
	if err != nil {
		return 0, err
	}
	_, err = tx.ExecContext(ctx, "UPDATE courses SET name = $1 WHERE id = $2", c.Name, id)
	return id, err
}

func getOrInsertLesson(ctx context.Context, tx *sql.Tx, courseID int, l LessonSeed, log *zap.Logger) (int, error) {
	var id int
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM lessons WHERE course_id = $1 AND title = $2",
		courseID, l.Title).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx,
			"INSERT INTO lessons (course_id, lesson_order, title) VALUES ($1, $2, $3) RETURNING id",
			courseID, l.Order, l.Title).Scan(&id)
		if err != nil {
			return 0, err
		}
		log.Debug("lesson created", zap.String("title", l.Title), zap.Int("id", id))
		return id, nil
	}
	if err != nil {
		return 0, err
	}
	_, err = tx.ExecContext(ctx, "UPDATE lessons SET lesson_order = $1 WHERE id = $2", l.Order, id)
	return id, err
}

// encodeOptions renders options for the JSONB column; no options is NULL.
func encodeOptions(options []string) (any, error) {
	if len(options) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
