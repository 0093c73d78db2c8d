package store

import (
	"context"
	"slices"
	"sync"

	"lingo-quiz/internal/models"
	"lingo-quiz/internal/seed"
)

// Memory keeps everything in process. It backs `--storage=memory` and the API tests.
type Memory struct {
	mu        sync.RWMutex
	users     map[string]User
	courses   []models.Course
	lessons   []models.Lesson
	exercises []models.Exercise
	answers   map[int]string
	nextID    int
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		users:   make(map[string]User),
		answers: make(map[int]string),
	}
}

func (m *Memory) id() int {
	m.nextID++
	return m.nextID
}

func (m *Memory) CreateUser(_ context.Context, email, passwordHash string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = normalizeEmail(email)
	if _, ok := m.users[email]; ok {
		return 0, ErrDuplicate
	}
	u := User{ID: m.id(), Email: email, PasswordHash: passwordHash}
	m.users[email] = u
	return u.ID, nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[normalizeEmail(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) Courses(context.Context) ([]models.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Course{}, m.courses...), nil
}

func (m *Memory) Lessons(_ context.Context, courseID int) ([]models.Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !slices.ContainsFunc(m.courses, func(c models.Course) bool { return c.ID == courseID }) {
		return nil, ErrNotFound
	}
	lessons := []models.Lesson{}
	for _, l := range m.lessons {
		if l.CourseID == courseID {
			lessons = append(lessons, l)
		}
	}
	return lessons, nil
}

func (m *Memory) Exercises(_ context.Context, lessonID int) ([]models.Exercise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !slices.ContainsFunc(m.lessons, func(l models.Lesson) bool { return l.ID == lessonID }) {
		return nil, ErrNotFound
	}
	exercises := []models.Exercise{}
	for _, e := range m.exercises {
		if e.LessonID == lessonID {
			e.Options = slices.Clone(e.Options)
			exercises = append(exercises, e)
		}
	}
	return exercises, nil
}

func (m *Memory) Answer(_ context.Context, exerciseID int) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	answer, ok := m.answers[exerciseID]
	if !ok {
		return "", ErrNotFound
	}
	return answer, nil
}

// SeedDemo loads seed.Demo, updating courses and lessons that already exist.
func (m *Memory) SeedDemo(ctx context.Context) error {
	return m.Load(ctx, seed.Demo)
}

// Load applies courses with the same matching rules as seed.Load.
func (m *Memory) Load(_ context.Context, courses []seed.CourseSeed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range courses {
		courseID := m.upsertCourse(c)
		for _, l := range c.Lessons {
			lessonID := m.upsertLesson(courseID, l)
			m.replaceExercises(lessonID, l.Exercises)
		}
	}
	return nil
}

func (m *Memory) upsertCourse(c seed.CourseSeed) int {
	for i := range m.courses {
		if m.courses[i].SameCode(c.Code) {
			m.courses[i].Name = c.Name
			return m.courses[i].ID
		}
	}
	course := models.Course{ID: m.id(), Name: c.Name, Code: c.Code}
	m.courses = append(m.courses, course)
	return course.ID
}

func (m *Memory) upsertLesson(courseID int, l seed.LessonSeed) int {
	for i := range m.lessons {
		if m.lessons[i].CourseID == courseID && m.lessons[i].Title == l.Title {
			m.lessons[i].Order = l.Order
			return m.lessons[i].ID
		}
	}
	lesson := models.Lesson{ID: m.id(), CourseID: courseID, Order: l.Order, Title: l.Title}
	m.lessons = append(m.lessons, lesson)
	return lesson.ID
}

// replaceExercises keeps the ids of existing positions, like the SQL upsert.
func (m *Memory) replaceExercises(lessonID int, seeds []seed.ExerciseSeed) {
	var existing []int
	kept := m.exercises[:0]
	for _, e := range m.exercises {
		if e.LessonID == lessonID {
			existing = append(existing, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	m.exercises = kept

	for i, s := range seeds {
		var id int
		if i < len(existing) {
			id = existing[i]
		} else {
			id = m.id()
		}
		m.exercises = append(m.exercises, models.Exercise{
			ID:       id,
			LessonID: lessonID,
			Type:     s.Type,
			Prompt:   s.Prompt,
			Options:  slices.Clone(s.Options),
		})
		m.answers[id] = s.Answer
	}
	for _, id := range existing[min(len(existing), len(seeds)):] {
		delete(m.answers, id)
	}
}
