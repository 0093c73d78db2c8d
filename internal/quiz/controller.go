package quiz

import (
	"context"
	"errors"

	"lingo-quiz/internal/models"
	"lingo-quiz/internal/remote"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Options configures a Controller.
type Options struct {
	// PointsPerCorrect is the award per correct answer; DefaultPointsPerCorrect when zero.
	PointsPerCorrect int
	Logger           *zap.Logger
}

// Controller drives the catalog and the exercise session and decides which
// screen is shown. Operations that are not valid for the current screen or
// state return ErrInvalidTransition and change nothing.
//
// All methods must be called from one goroutine; the returned commands may run
// anywhere and their messages are applied with Update.
type Controller struct {
	ctx     context.Context
	catalog *Catalog
	session *Session
	screen  Screen
	notice  string
	log     *zap.Logger
}

// NewController creates a controller on the catalog screen. ctx is passed to
// every remote call the controller issues.
func NewController(ctx context.Context, service remote.Service, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		ctx:     ctx,
		catalog: NewCatalog(service),
		session: NewSession(service, opts.PointsPerCorrect),
		screen:  ScreenCatalog,
		log:     log,
	}
}

// Init loads the course catalog.
func (c *Controller) Init() tea.Cmd {
	cmd, err := c.LoadCourses()
	if err != nil {
		return nil
	}
	return cmd
}

// Screen returns the screen currently presented.
func (c *Controller) Screen() Screen { return c.screen }

// LoadCourses reloads the course list from the catalog screen.
func (c *Controller) LoadCourses() (tea.Cmd, error) {
	if err := c.onCatalogIdle("load courses"); err != nil {
		return nil, c.reject(err)
	}
	cmd, err := c.catalog.LoadCourses(c.ctx)
	return c.accepted(cmd, err)
}

// SelectCourse switches the catalog to course and loads its lessons.
func (c *Controller) SelectCourse(course models.Course) (tea.Cmd, error) {
	if err := c.onCatalogIdle("select course"); err != nil {
		return nil, c.reject(err)
	}
	if _, ok := c.catalog.Course(course.ID); !ok {
		return nil, c.reject(invalid("select course", "course %d is not in the catalog", course.ID))
	}
	cmd, err := c.catalog.SelectCourse(c.ctx, course)
	return c.accepted(cmd, err)
}

// StartLesson begins an attempt at one of the listed lessons. The screen
// changes to Active once the exercises arrive.
func (c *Controller) StartLesson(lesson models.Lesson) (tea.Cmd, error) {
	if err := c.onCatalogIdle("start lesson"); err != nil {
		return nil, c.reject(err)
	}
	if _, ok := c.catalog.Lesson(lesson.ID); !ok {
		return nil, c.reject(invalid("start lesson", "lesson %d is not listed", lesson.ID))
	}
	cmd, err := c.session.StartLesson(c.ctx, lesson)
	return c.accepted(cmd, err)
}

// SetDraftAnswer updates the answer being typed or picked.
func (c *Controller) SetDraftAnswer(value string) error {
	if c.screen != ScreenActive {
		return c.reject(invalid("set draft answer", "screen is %s", c.screen))
	}
	if err := c.session.SetDraftAnswer(value); err != nil {
		return c.reject(err)
	}
	c.notice = ""
	return nil
}

// Submit sends the draft answer for checking.
func (c *Controller) Submit() (tea.Cmd, error) {
	if c.screen != ScreenActive {
		return nil, c.reject(invalid("submit", "screen is %s", c.screen))
	}
	cmd, err := c.session.Submit(c.ctx)
	return c.accepted(cmd, err)
}

// Next advances to the following exercise, or to the summary after the last one.
func (c *Controller) Next() error {
	if c.screen != ScreenActive {
		return c.reject(invalid("next", "screen is %s", c.screen))
	}
	if err := c.session.Next(); err != nil {
		return c.reject(err)
	}
	c.notice = ""
	if c.session.Phase() == PhaseCompleted {
		c.screen = ScreenSummary
		c.log.Info("lesson completed", zap.Int("score", c.session.Score()))
	}
	return nil
}

// Exit leaves the active lesson for the catalog. On the catalog screen it
// abandons a lesson that is still loading.
func (c *Controller) Exit() error {
	loading := c.screen == ScreenCatalog && c.session.Pending() != PendingNone
	if c.screen != ScreenActive && !loading {
		return c.reject(invalid("exit", "screen is %s", c.screen))
	}
	c.session.Exit()
	c.screen = ScreenCatalog
	c.notice = ""
	return nil
}

// RetrySameLesson starts the completed lesson again from a fresh fetch.
func (c *Controller) RetrySameLesson() (tea.Cmd, error) {
	if c.screen != ScreenSummary {
		return nil, c.reject(invalid("retry lesson", "screen is %s", c.screen))
	}
	cmd, err := c.session.RetrySameLesson(c.ctx)
	return c.accepted(cmd, err)
}

// BackToCourse returns from the summary to the catalog.
func (c *Controller) BackToCourse() error {
	if c.screen != ScreenSummary {
		return c.reject(invalid("back to course", "screen is %s", c.screen))
	}
	c.session.Exit()
	c.screen = ScreenCatalog
	c.notice = ""
	return nil
}

// Update applies the result of a command. It returns a follow-up command, if
// any, and the remote error the result carried. Results that no longer match
// the current state are dropped. Messages of other types are ignored.
func (c *Controller) Update(msg tea.Msg) (tea.Cmd, error) {
	switch msg := msg.(type) {
	case coursesLoadedMsg:
		cmd, err := c.catalog.applyCourses(c.ctx, msg)
		if err == nil {
			c.log.Debug("courses loaded", zap.Int("count", len(msg.courses)))
		}
		return cmd, c.applied("load courses", err)
	case lessonsLoadedMsg:
		err := c.catalog.applyLessons(msg)
		if err == nil {
			// A new lesson list invalidates whatever attempt was in progress.
			c.session.Exit()
			c.log.Debug("lessons loaded", zap.Int("course_id", msg.course.ID), zap.Int("count", len(msg.lessons)))
		}
		return nil, c.applied("load lessons", err)
	case exercisesLoadedMsg:
		err := c.session.applyExercises(msg)
		if err == nil {
			c.screen = ScreenActive
			if c.session.Phase() == PhaseCompleted {
				c.screen = ScreenSummary
			}
			c.log.Info("lesson started",
				zap.Int("lesson_id", msg.lesson.ID),
				zap.Int("exercises", len(msg.exercises)))
		}
		return nil, c.applied("start lesson", err)
	case answerCheckedMsg:
		err := c.session.applyCheck(msg)
		if err == nil {
			c.log.Debug("answer checked",
				zap.Int("exercise_id", msg.exerciseID),
				zap.Bool("correct", msg.result.Correct),
				zap.Int("score", c.session.Score()))
		}
		return nil, c.applied("submit", err)
	}
	return nil, nil
}

// State returns a snapshot for rendering.
func (c *Controller) State() State {
	st := State{
		Screen:         c.screen,
		Phase:          c.session.Phase(),
		Courses:        c.catalog.Courses(),
		Lessons:        c.catalog.Lessons(),
		Exercises:      c.session.Exercises(),
		CurrentIndex:   c.session.Index(),
		DraftAnswer:    c.session.Draft(),
		Score:          c.session.Score(),
		CatalogPending: c.catalog.Pending(),
		SessionPending: c.session.Pending(),
		Notice:         c.notice,
	}
	st.Busy = st.CatalogPending != PendingNone || st.SessionPending != PendingNone
	if course, ok := c.catalog.Selected(); ok {
		st.SelectedCourse = &course
	}
	if lesson, ok := c.session.Lesson(); ok {
		st.SelectedLesson = &lesson
	}
	if result, ok := c.session.Result(); ok {
		st.LastResult = &result
	}
	return st
}

// onCatalogIdle checks that a catalog-screen operation may start a remote call.
// Catalog and session calls exclude each other here: a lesson list arriving
// mid-start would invalidate the lesson being started.
func (c *Controller) onCatalogIdle(op string) error {
	if c.screen != ScreenCatalog {
		return invalid(op, "screen is %s", c.screen)
	}
	if p := c.catalog.Pending(); p != PendingNone {
		return invalid(op, "catalog busy loading %s", p)
	}
	if p := c.session.Pending(); p != PendingNone {
		return invalid(op, "session busy with %s", p)
	}
	return nil
}

func (c *Controller) accepted(cmd tea.Cmd, err error) (tea.Cmd, error) {
	if err != nil {
		return nil, c.reject(err)
	}
	c.notice = ""
	return cmd, nil
}

func (c *Controller) reject(err error) error {
	c.log.Debug("transition rejected", zap.Error(err), zap.Stringer("screen", c.screen))
	return err
}

func (c *Controller) applied(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errStale):
		c.log.Debug("stale response dropped", zap.String("op", op))
		return nil
	}
	c.notice = noticeFor(op, err)
	c.log.Warn("remote call failed", zap.String("op", op), zap.Error(err))
	return err
}

// noticeFor turns a remote failure into a short message for the user.
func noticeFor(op string, err error) string {
	switch {
	case errors.Is(err, remote.ErrDecode):
		return "Could not " + op + ": unexpected response from the server."
	case errors.Is(err, remote.ErrTransport):
		return "Could not " + op + ": the request failed. Try again."
	}
	return "Could not " + op + ": " + err.Error()
}
