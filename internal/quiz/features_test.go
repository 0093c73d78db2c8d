package quiz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"lingo-quiz/internal/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cucumber/godog"
)

// TestSessionFeatures runs the Gherkin scenarios in testdata/features.
func TestSessionFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "session-features",
		ScenarioInitializer: initializeSessionScenario,
		Options: &godog.Options{
			Format:   "progress",
			Paths:    []string{filepath.Join("testdata", "features")},
			Output:   io.Discard,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("session features failed")
	}
}

// sessionFeature holds per-scenario state.
type sessionFeature struct {
	svc     *fakeService
	ctrl    *Controller
	lastErr error
}

func initializeSessionScenario(ctx *godog.ScenarioContext) {
	f := &sessionFeature{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		f.svc = &fakeService{
			lessons:   map[int][]models.Lesson{},
			exercises: map[int][]models.Exercise{},
			answers:   map[int]string{},
		}
		f.ctrl = nil
		f.lastErr = nil
		return ctx, nil
	})

	ctx.Step(`^the course "([^"]*)" has a lesson "([^"]*)" with exercises:$`, f.courseHasLesson)
	ctx.Step(`^the catalog is loaded$`, f.catalogIsLoaded)
	ctx.Step(`^the service is unreachable$`, f.serviceIsUnreachable)
	ctx.Step(`^I start the lesson "([^"]*)"$`, f.startLesson)
	ctx.Step(`^I answer "([^"]*)"$`, f.answer)
	ctx.Step(`^I go to the next exercise$`, f.next)
	ctx.Step(`^I retry the lesson$`, f.retry)
	ctx.Step(`^the score is (\d+)$`, f.scoreIs)
	ctx.Step(`^the phase is "([^"]*)"$`, f.phaseIs)
	ctx.Step(`^the screen is "([^"]*)"$`, f.screenIs)
	ctx.Step(`^the current index is (\d+)$`, f.indexIs)
	ctx.Step(`^the last answer was correct$`, f.lastAnswerCorrect)
	ctx.Step(`^the expected answer shown is "([^"]*)"$`, f.expectedIs)
	ctx.Step(`^the session is not busy$`, f.notBusy)
	ctx.Step(`^no lesson is selected$`, f.noLessonSelected)
}

func (f *sessionFeature) courseHasLesson(code, title string, table *godog.Table) error {
	courseID := len(f.svc.courses) + 1
	lessonID := courseID * 10
	f.svc.courses = append(f.svc.courses, models.Course{ID: courseID, Name: code, Code: code})
	f.svc.lessons[courseID] = []models.Lesson{{ID: lessonID, CourseID: courseID, Title: title}}

	var exercises []models.Exercise
	for i, row := range table.Rows[1:] {
		if len(row.Cells) != 4 {
			return fmt.Errorf("row %d: expected 4 cells, got %d", i+1, len(row.Cells))
		}
		e := models.Exercise{
			ID:       lessonID*10 + i,
			LessonID: lessonID,
			Type:     models.ExerciseType(row.Cells[0].Value),
			Prompt:   row.Cells[1].Value,
		}
		if opts := row.Cells[2].Value; opts != "" {
			e.Options = strings.Split(opts, ",")
		}
		exercises = append(exercises, e)
		f.svc.answers[e.ID] = row.Cells[3].Value
	}
	f.svc.exercises[lessonID] = exercises
	return nil
}

func (f *sessionFeature) catalogIsLoaded() error {
	f.ctrl = NewController(context.Background(), f.svc, Options{})
	return f.run(f.ctrl.Init(), nil)
}

func (f *sessionFeature) serviceIsUnreachable() error {
	f.svc.exercisesErr = errNetwork
	f.svc.checkErr = errNetwork
	return nil
}

func (f *sessionFeature) startLesson(title string) error {
	for _, lesson := range f.ctrl.State().Lessons {
		if lesson.Title == title {
			f.lastErr = f.run(f.ctrl.StartLesson(lesson))
			return nil
		}
	}
	return fmt.Errorf("lesson %q is not listed", title)
}

func (f *sessionFeature) answer(value string) error {
	if err := f.ctrl.SetDraftAnswer(value); err != nil {
		return err
	}
	f.lastErr = f.run(f.ctrl.Submit())
	return nil
}

func (f *sessionFeature) next() error {
	return f.ctrl.Next()
}

func (f *sessionFeature) retry() error {
	return f.run(f.ctrl.RetrySameLesson())
}

// run applies cmd and its follow-ups, returning a rejection or the first remote error.
func (f *sessionFeature) run(cmd tea.Cmd, err error) error {
	if err != nil {
		return err
	}
	var first error
	for cmd != nil {
		next, err := f.ctrl.Update(cmd())
		if err != nil && first == nil {
			first = err
		}
		cmd = next
	}
	return first
}

func (f *sessionFeature) scoreIs(want int) error {
	if got := f.ctrl.State().Score; got != want {
		return fmt.Errorf("expected score %d, got %d", want, got)
	}
	return nil
}

func (f *sessionFeature) phaseIs(want string) error {
	if got := f.ctrl.State().Phase.String(); got != want {
		return fmt.Errorf("expected phase %q, got %q", want, got)
	}
	return nil
}

func (f *sessionFeature) screenIs(want string) error {
	if got := f.ctrl.State().Screen.String(); got != want {
		return fmt.Errorf("expected screen %q, got %q", want, got)
	}
	return nil
}

func (f *sessionFeature) indexIs(want int) error {
	if got := f.ctrl.State().CurrentIndex; got != want {
		return fmt.Errorf("expected index %d, got %d", want, got)
	}
	return nil
}

func (f *sessionFeature) lastAnswerCorrect() error {
	result := f.ctrl.State().LastResult
	if result == nil || !result.Correct {
		return errors.New("expected a correct result")
	}
	return nil
}

func (f *sessionFeature) expectedIs(want string) error {
	result := f.ctrl.State().LastResult
	if result == nil {
		return errors.New("expected a result")
	}
	if result.Expected != want {
		return fmt.Errorf("expected %q to be shown, got %q", want, result.Expected)
	}
	return nil
}

func (f *sessionFeature) notBusy() error {
	if f.ctrl.State().Busy {
		return errors.New("expected the session not to be busy")
	}
	return nil
}

func (f *sessionFeature) noLessonSelected() error {
	if lesson := f.ctrl.State().SelectedLesson; lesson != nil {
		return fmt.Errorf("expected no lesson, got %q", lesson.Title)
	}
	return nil
}
