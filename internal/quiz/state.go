package quiz

import "lingo-quiz/internal/models"

// Screen is the top-level view the controller presents.
type Screen int

const (
	ScreenCatalog Screen = iota
	ScreenActive
	ScreenSummary
)

func (s Screen) String() string {
	switch s {
	case ScreenCatalog:
		return "catalog"
	case ScreenActive:
		return "active"
	case ScreenSummary:
		return "summary"
	}
	return "unknown"
}

// Phase is the state of an exercise session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseAwaitingAnswer
	PhaseChecking
	PhaseReviewing
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseAwaitingAnswer:
		return "awaiting answer"
	case PhaseChecking:
		return "checking"
	case PhaseReviewing:
		return "reviewing"
	case PhaseCompleted:
		return "completed"
	}
	return "unknown"
}

// Pending names the remote call a component is waiting on.
type Pending int

const (
	PendingNone Pending = iota
	PendingCourses
	PendingLessons
	PendingExercises
	PendingCheck
)

func (p Pending) String() string {
	switch p {
	case PendingNone:
		return "none"
	case PendingCourses:
		return "courses"
	case PendingLessons:
		return "lessons"
	case PendingExercises:
		return "exercises"
	case PendingCheck:
		return "check"
	}
	return "unknown"
}

// State is a read-only snapshot of everything the UI needs to render.
// Slices are copies; mutating them does not affect the controller.
type State struct {
	Screen Screen
	Phase  Phase

	Courses        []models.Course
	SelectedCourse *models.Course
	Lessons        []models.Lesson
	SelectedLesson *models.Lesson

	Exercises    []models.Exercise
	CurrentIndex int
	DraftAnswer  string
	LastResult   *models.AnswerCheckResult
	Score        int

	Busy           bool
	CatalogPending Pending
	SessionPending Pending

	// Notice is the last error meant for the user; cleared by the next accepted action.
	Notice string
}

// CurrentExercise returns the exercise at CurrentIndex, if any.
func (s State) CurrentExercise() (models.Exercise, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Exercises) {
		return models.Exercise{}, false
	}
	return s.Exercises[s.CurrentIndex], true
}
