package quiz

import (
	"context"
	"errors"
	"sync"
	"testing"

	"lingo-quiz/internal/models"
	"lingo-quiz/internal/remote"

	tea "github.com/charmbracelet/bubbletea"
)

// fakeService is an in-memory course service with injectable failures.
type fakeService struct {
	mu        sync.Mutex
	courses   []models.Course
	lessons   map[int][]models.Lesson
	exercises map[int][]models.Exercise
	answers   map[int]string

	coursesErr   error
	lessonsErr   error
	exercisesErr error
	checkErr     error

	listExerciseCalls int
	checkCalls        int
}

var _ remote.Service = (*fakeService)(nil)

func newFakeService() *fakeService {
	return &fakeService{
		courses: []models.Course{
			{ID: 1, Name: "Spanish", Code: "es"},
			{ID: 2, Name: "French", Code: "fr"},
		},
		lessons: map[int][]models.Lesson{
			1: {
				{ID: 10, CourseID: 1, Order: 2, Title: "Food"},
				{ID: 11, CourseID: 1, Order: 1, Title: "Greetings"},
				{ID: 12, CourseID: 1, Order: 1, Title: "Numbers"},
				{ID: 13, CourseID: 1, Order: 3, Title: "Travel"},
			},
			2: {
				{ID: 20, CourseID: 2, Order: 0, Title: "Bonjour"},
			},
		},
		exercises: map[int][]models.Exercise{
			10: {
				{ID: 100, LessonID: 10, Type: models.MultipleChoice, Prompt: "apple", Options: []string{"manzana", "pera"}},
				{ID: 101, LessonID: 10, Type: models.FreeText, Prompt: "bread"},
			},
			11: {},
			20: {
				{ID: 200, LessonID: 20, Type: models.FreeText, Prompt: "hello"},
			},
		},
		answers: map[int]string{100: "manzana", 101: "pan", 200: "bonjour"},
	}
}

func (f *fakeService) SeedDemo(ctx context.Context) error { return nil }

func (f *fakeService) ListCourses(ctx context.Context) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.coursesErr != nil {
		return nil, f.coursesErr
	}
	return append([]models.Course(nil), f.courses...), nil
}

func (f *fakeService) ListLessons(ctx context.Context, courseID int) ([]models.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lessonsErr != nil {
		return nil, f.lessonsErr
	}
	return append([]models.Lesson(nil), f.lessons[courseID]...), nil
}

func (f *fakeService) ListExercises(ctx context.Context, lessonID int) ([]models.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listExerciseCalls++
	if f.exercisesErr != nil {
		return nil, f.exercisesErr
	}
	return append([]models.Exercise(nil), f.exercises[lessonID]...), nil
}

func (f *fakeService) CheckAnswer(ctx context.Context, exerciseID int, answer string) (models.AnswerCheckResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkCalls++
	if f.checkErr != nil {
		return models.AnswerCheckResult{}, f.checkErr
	}
	expected := f.answers[exerciseID]
	return models.AnswerCheckResult{Correct: answer == expected, Expected: expected}, nil
}

var errNetwork = &remote.Error{Op: "test", Kind: remote.ErrTransport, Err: errors.New("connection refused")}

// drive runs cmd and every follow-up command, applying each result to c.
// It returns the first remote error reported.
func drive(t *testing.T, c *Controller, cmd tea.Cmd) error {
	t.Helper()
	var first error
	for cmd != nil {
		next, err := c.Update(cmd())
		if err != nil && first == nil {
			first = err
		}
		cmd = next
	}
	return first
}

// mustCmd fails the test when an operation was rejected. It is curried so an
// operation's (tea.Cmd, error) result can be passed straight in:
// mustCmd(t)(c.Submit()).
func mustCmd(t *testing.T) func(tea.Cmd, error) tea.Cmd {
	return func(cmd tea.Cmd, err error) tea.Cmd {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected rejection: %v", err)
		}
		if cmd == nil {
			t.Fatalf("expected a command")
		}
		return cmd
	}
}

// newLoadedController returns a controller with courses and the first course's lessons loaded.
func newLoadedController(t *testing.T, svc *fakeService) *Controller {
	t.Helper()
	c := NewController(context.Background(), svc, Options{})
	if err := drive(t, c, c.Init()); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

// selectCourse switches the catalog to courseID and applies its lessons.
func selectCourse(t *testing.T, c *Controller, courseID int) {
	t.Helper()
	course, ok := c.catalog.Course(courseID)
	if !ok {
		t.Fatalf("course %d not listed", courseID)
	}
	if err := drive(t, c, mustCmd(t)(c.SelectCourse(course))); err != nil {
		t.Fatalf("select course: %v", err)
	}
}

// startLesson begins lessonID and applies the fetched exercises.
func startLesson(t *testing.T, c *Controller, lessonID int) {
	t.Helper()
	lesson, ok := c.catalog.Lesson(lessonID)
	if !ok {
		t.Fatalf("lesson %d not listed", lessonID)
	}
	cmd := mustCmd(t)(c.StartLesson(lesson))
	if err := drive(t, c, cmd); err != nil {
		t.Fatalf("start lesson: %v", err)
	}
}

// answer sets the draft, submits it and applies the verdict.
func answer(t *testing.T, c *Controller, value string) {
	t.Helper()
	if err := c.SetDraftAnswer(value); err != nil {
		t.Fatalf("set draft: %v", err)
	}
	cmd := mustCmd(t)(c.Submit())
	if err := drive(t, c, cmd); err != nil {
		t.Fatalf("submit: %v", err)
	}
}
