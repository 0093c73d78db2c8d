package quiz

import (
	"context"
	"slices"

	"lingo-quiz/internal/models"
	"lingo-quiz/internal/remote"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultPointsPerCorrect is the score awarded for each correct answer.
const DefaultPointsPerCorrect = 10

// Session is one attempt at a lesson: a fixed exercise list walked front to back.
//
// Session is not safe for concurrent use. The commands it returns only call the
// service and never touch the session; their results must be fed back through
// the controller on the goroutine that owns it.
type Session struct {
	service remote.Service
	points  int

	phase     Phase
	lesson    *models.Lesson
	exercises []models.Exercise
	index     int
	draft     string
	result    *models.AnswerCheckResult
	score     int

	pending Pending
	epoch   uint64
	// target and resume describe an in-flight start: the lesson being fetched and
	// the phase to fall back to if the fetch fails.
	target *models.Lesson
	resume Phase
}

// NewSession creates an idle session. A non-positive points value selects the default.
func NewSession(service remote.Service, points int) *Session {
	if points <= 0 {
		points = DefaultPointsPerCorrect
	}
	return &Session{service: service, points: points}
}

func (s *Session) Phase() Phase { return s.phase }

func (s *Session) Pending() Pending { return s.pending }

func (s *Session) Score() int { return s.score }

func (s *Session) Index() int { return s.index }

func (s *Session) Draft() string { return s.draft }

func (s *Session) PointsPerCorrect() int { return s.points }

// Lesson returns the lesson of the current attempt, or the one being loaded.
func (s *Session) Lesson() (models.Lesson, bool) {
	switch {
	case s.lesson != nil:
		return *s.lesson, true
	case s.target != nil:
		return *s.target, true
	}
	return models.Lesson{}, false
}

// Exercises returns a copy of the exercise list.
func (s *Session) Exercises() []models.Exercise { return slices.Clone(s.exercises) }

// Result returns the verdict of the last submission while it is being reviewed.
func (s *Session) Result() (models.AnswerCheckResult, bool) {
	if s.result == nil {
		return models.AnswerCheckResult{}, false
	}
	return *s.result, true
}

// Current returns the exercise being answered or reviewed.
func (s *Session) Current() (models.Exercise, bool) {
	if s.index < 0 || s.index >= len(s.exercises) {
		return models.Exercise{}, false
	}
	return s.exercises[s.index], true
}

// StartLesson fetches the exercises of lesson. Valid from Idle and Completed.
func (s *Session) StartLesson(ctx context.Context, lesson models.Lesson) (tea.Cmd, error) {
	if s.pending != PendingNone {
		return nil, invalid("start lesson", "session busy with %s", s.pending)
	}
	if s.phase != PhaseIdle && s.phase != PhaseCompleted {
		return nil, invalid("start lesson", "session is %s", s.phase)
	}
	s.resume = s.phase
	s.phase = PhaseLoading
	s.pending = PendingExercises
	s.target = &lesson
	s.epoch++
	epoch, service := s.epoch, s.service
	return func() tea.Msg {
		exercises, err := service.ListExercises(ctx, lesson.ID)
		return exercisesLoadedMsg{epoch: epoch, lesson: lesson, exercises: exercises, err: err}
	}, nil
}

// SetDraftAnswer replaces the draft. Valid only while an answer is awaited.
func (s *Session) SetDraftAnswer(value string) error {
	if s.phase != PhaseAwaitingAnswer {
		return invalid("set draft answer", "session is %s", s.phase)
	}
	s.draft = value
	return nil
}

// Submit sends the draft for checking. An empty draft is rejected; whitespace is
// sent as typed.
func (s *Session) Submit(ctx context.Context) (tea.Cmd, error) {
	if s.phase != PhaseAwaitingAnswer || s.pending != PendingNone {
		return nil, invalid("submit", "session is %s", s.phase)
	}
	if s.draft == "" {
		return nil, invalid("submit", "draft answer is empty")
	}
	exercise, _ := s.Current()
	answer := s.draft
	s.phase = PhaseChecking
	s.pending = PendingCheck
	s.epoch++
	epoch, service := s.epoch, s.service
	return func() tea.Msg {
		result, err := service.CheckAnswer(ctx, exercise.ID, answer)
		return answerCheckedMsg{epoch: epoch, exerciseID: exercise.ID, result: result, err: err}
	}, nil
}

// Next moves past the reviewed exercise, completing the session after the last one.
func (s *Session) Next() error {
	if s.phase != PhaseReviewing {
		return invalid("next", "session is %s", s.phase)
	}
	s.result = nil
	s.draft = ""
	if s.index+1 < len(s.exercises) {
		s.index++
		s.phase = PhaseAwaitingAnswer
		return nil
	}
	s.phase = PhaseCompleted
	return nil
}

// RetrySameLesson refetches the exercises of the completed lesson and starts over.
func (s *Session) RetrySameLesson(ctx context.Context) (tea.Cmd, error) {
	if s.phase != PhaseCompleted || s.lesson == nil {
		return nil, invalid("retry lesson", "session is %s", s.phase)
	}
	return s.StartLesson(ctx, *s.lesson)
}

// Exit abandons the attempt. Responses to requests still in flight are dropped.
func (s *Session) Exit() {
	s.epoch++
	s.phase = PhaseIdle
	s.pending = PendingNone
	s.lesson = nil
	s.target = nil
	s.exercises = nil
	s.index = 0
	s.draft = ""
	s.result = nil
	s.score = 0
}

func (s *Session) applyExercises(msg exercisesLoadedMsg) error {
	if msg.epoch != s.epoch || s.phase != PhaseLoading {
		return errStale
	}
	s.pending = PendingNone
	s.target = nil
	if msg.err != nil {
		s.phase = s.resume
		return msg.err
	}
	lesson := msg.lesson
	s.lesson = &lesson
	s.exercises = slices.Clone(msg.exercises)
	s.index = 0
	s.score = 0
	s.draft = ""
	s.result = nil
	if len(s.exercises) == 0 {
		s.phase = PhaseCompleted
		return nil
	}
	s.phase = PhaseAwaitingAnswer
	return nil
}

func (s *Session) applyCheck(msg answerCheckedMsg) error {
	if msg.epoch != s.epoch || s.phase != PhaseChecking {
		return errStale
	}
	s.pending = PendingNone
	if msg.err != nil {
		s.phase = PhaseAwaitingAnswer
		s.result = nil
		return msg.err
	}
	result := msg.result
	s.result = &result
	if result.Correct {
		s.score += s.points
	}
	s.phase = PhaseReviewing
	return nil
}
