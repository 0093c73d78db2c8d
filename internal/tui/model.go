// Package tui is the terminal front end of the quiz. It maps keys to
// quiz.Controller operations and renders its State; it holds no quiz logic.
package tui

import (
	"lingo-quiz/internal/models"
	"lingo-quiz/internal/quiz"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Options configures the terminal model.
type Options struct {
	NoColor bool
}

// Model is the Bubble Tea model of the quiz client.
type Model struct {
	ctrl         *quiz.Controller
	input        textinput.Model
	lessonCursor int
	optionCursor int
	noColor      bool
}

// NewModel wraps a controller.
func NewModel(ctrl *quiz.Controller, opts Options) Model {
	input := textinput.New()
	input.Placeholder = "type your answer"
	input.CharLimit = 200
	input.Focus()
	return Model{ctrl: ctrl, input: input, noColor: opts.NoColor}
}

// Init loads the catalog.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ctrl.Init(), textinput.Blink)
}

// Update routes keys to controller operations and hands every other message to
// the controller, which ignores the ones it does not own.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.Width = max(typed.Width-4, 10)
		return m, nil
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(typed)
	}

	cmd, _ := m.ctrl.Update(msg)
	var blink tea.Cmd
	m.input, blink = m.input.Update(msg)
	m.sync()
	return m, tea.Batch(cmd, blink)
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.ctrl.Screen() {
	case quiz.ScreenCatalog:
		var quit bool
		cmd, quit = m.catalogKey(key)
		if quit {
			return m, tea.Quit
		}
	case quiz.ScreenActive:
		cmd = m.activeKey(key)
	case quiz.ScreenSummary:
		var quit bool
		cmd, quit = m.summaryKey(key)
		if quit {
			return m, tea.Quit
		}
	}
	m.sync()
	return m, cmd
}

func (m *Model) catalogKey(key tea.KeyMsg) (tea.Cmd, bool) {
	st := m.ctrl.State()
	switch key.String() {
	case "q":
		return nil, true
	case "esc":
		// Cancels a lesson that is still loading.
		m.ctrl.Exit()
	case "r":
		cmd, _ := m.ctrl.LoadCourses()
		return cmd, false
	case "left", "h", "shift+tab":
		return m.switchCourse(st, -1), false
	case "right", "l", "tab":
		return m.switchCourse(st, 1), false
	case "up", "k":
		if m.lessonCursor > 0 {
			m.lessonCursor--
		}
	case "down", "j":
		if m.lessonCursor < len(st.Lessons)-1 {
			m.lessonCursor++
		}
	case "enter":
		if m.lessonCursor < len(st.Lessons) {
			cmd, _ := m.ctrl.StartLesson(st.Lessons[m.lessonCursor])
			return cmd, false
		}
	}
	return nil, false
}

func (m *Model) switchCourse(st quiz.State, step int) tea.Cmd {
	if len(st.Courses) == 0 {
		return nil
	}
	i := courseIndex(st)
	i = (i + step + len(st.Courses)) % len(st.Courses)
	cmd, err := m.ctrl.SelectCourse(st.Courses[i])
	if err == nil {
		m.lessonCursor = 0
	}
	return cmd
}

func (m *Model) activeKey(key tea.KeyMsg) tea.Cmd {
	st := m.ctrl.State()
	if key.String() == "esc" {
		m.ctrl.Exit()
		m.lessonCursor = 0
		return nil
	}

	switch st.Phase {
	case quiz.PhaseReviewing:
		if key.String() == "enter" || key.String() == " " {
			m.ctrl.Next()
			m.optionCursor = 0
		}
		return nil
	case quiz.PhaseAwaitingAnswer:
	default:
		return nil
	}

	ex, ok := st.CurrentExercise()
	if !ok {
		return nil
	}
	if ex.Type == models.MultipleChoice && len(ex.Options) > 0 {
		return m.choiceKey(key, ex)
	}

	if key.String() == "enter" {
		cmd, _ := m.ctrl.Submit()
		return cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	m.ctrl.SetDraftAnswer(m.input.Value())
	return cmd
}

func (m *Model) choiceKey(key tea.KeyMsg, ex models.Exercise) tea.Cmd {
	switch s := key.String(); s {
	case "up", "k":
		if m.optionCursor > 0 {
			m.optionCursor--
		}
	case "down", "j":
		if m.optionCursor < len(ex.Options)-1 {
			m.optionCursor++
		}
	case "enter":
		m.optionCursor = min(m.optionCursor, len(ex.Options)-1)
		m.ctrl.SetDraftAnswer(ex.Options[m.optionCursor])
		cmd, _ := m.ctrl.Submit()
		return cmd
	default:
		if len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(ex.Options) {
			m.optionCursor = int(s[0] - '1')
			m.ctrl.SetDraftAnswer(ex.Options[m.optionCursor])
			cmd, _ := m.ctrl.Submit()
			return cmd
		}
	}
	return nil
}

func (m *Model) summaryKey(key tea.KeyMsg) (tea.Cmd, bool) {
	switch key.String() {
	case "q":
		return nil, true
	case "r", "enter":
		cmd, _ := m.ctrl.RetrySameLesson()
		m.optionCursor = 0
		return cmd, false
	case "b", "esc":
		m.ctrl.BackToCourse()
	}
	return nil, false
}

// sync keeps cursors and the text input consistent with the controller state.
func (m *Model) sync() {
	st := m.ctrl.State()
	if m.lessonCursor >= len(st.Lessons) {
		m.lessonCursor = max(len(st.Lessons)-1, 0)
	}
	if st.DraftAnswer != m.input.Value() {
		m.input.SetValue(st.DraftAnswer)
	}
}

func courseIndex(st quiz.State) int {
	if st.SelectedCourse == nil {
		return 0
	}
	for i, c := range st.Courses {
		if c.ID == st.SelectedCourse.ID {
			return i
		}
	}
	return 0
}
