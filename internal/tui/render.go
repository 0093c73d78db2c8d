package tui

import (
	"fmt"
	"strings"

	"lingo-quiz/internal/models"
	"lingo-quiz/internal/quiz"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorTitle   = lipgloss.Color("33")
	colorCursor  = lipgloss.Color("212")
	colorCorrect = lipgloss.Color("42")
	colorWrong   = lipgloss.Color("196")
	colorNotice  = lipgloss.Color("214")
	colorHelp    = lipgloss.Color("242")
)

// View renders the current screen.
func (m Model) View() string {
	st := m.ctrl.State()
	var body string
	switch st.Screen {
	case quiz.ScreenCatalog:
		body = m.renderCatalog(st)
	case quiz.ScreenActive:
		body = m.renderActive(st)
	case quiz.ScreenSummary:
		body = m.renderSummary(st)
	}
	parts := []string{stylize("Lingo Quiz", m.noColor, colorTitle), body}
	if st.Notice != "" {
		parts = append(parts, stylize(st.Notice, m.noColor, colorNotice))
	}
	parts = append(parts, stylize(helpFor(st), m.noColor, colorHelp))
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func (m Model) renderCatalog(st quiz.State) string {
	var b strings.Builder
	if len(st.Courses) == 0 {
		if st.CatalogPending == quiz.PendingCourses {
			return "Loading courses..."
		}
		return "No courses available."
	}

	tabs := make([]string, 0, len(st.Courses))
	for _, c := range st.Courses {
		tab := fmt.Sprintf(" %s %s ", c.DisplayCode(), c.Name)
		if st.SelectedCourse != nil && st.SelectedCourse.ID == c.ID {
			tab = stylize("["+strings.TrimSpace(tab)+"]", m.noColor, colorCursor)
		}
		tabs = append(tabs, tab)
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	switch {
	case st.CatalogPending == quiz.PendingLessons:
		b.WriteString("Loading lessons...")
	case st.SessionPending == quiz.PendingExercises:
		b.WriteString("Starting lesson...")
	case len(st.Lessons) == 0:
		b.WriteString("This course has no lessons yet.")
	default:
		for i, l := range st.Lessons {
			line := fmt.Sprintf("  %2d. %s", l.Order, l.Title)
			if i == m.lessonCursor {
				line = stylize("> "+strings.TrimPrefix(line, "  "), m.noColor, colorCursor)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderActive(st quiz.State) string {
	var b strings.Builder
	if st.SelectedLesson != nil {
		fmt.Fprintf(&b, "%s  ", st.SelectedLesson.Title)
	}
	fmt.Fprintf(&b, "%d/%d  score %d\n\n", st.CurrentIndex+1, len(st.Exercises), st.Score)

	ex, ok := st.CurrentExercise()
	if !ok {
		return b.String()
	}
	b.WriteString(ex.Prompt)
	b.WriteString("\n\n")

	if ex.Type == models.MultipleChoice && len(ex.Options) > 0 {
		for i, opt := range ex.Options {
			line := fmt.Sprintf("  %d) %s", i+1, opt)
			if i == m.optionCursor && st.Phase == quiz.PhaseAwaitingAnswer {
				line = stylize("> "+strings.TrimPrefix(line, "  "), m.noColor, colorCursor)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	} else {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	switch st.Phase {
	case quiz.PhaseChecking:
		b.WriteString("\nChecking...")
	case quiz.PhaseReviewing:
		if st.LastResult != nil {
			b.WriteString("\n")
			if st.LastResult.Correct {
				b.WriteString(stylize("Correct!", m.noColor, colorCorrect))
			} else {
				b.WriteString(stylize("Wrong. Expected: "+st.LastResult.Expected, m.noColor, colorWrong))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderSummary(st quiz.State) string {
	title := "Lesson"
	if st.SelectedLesson != nil {
		title = st.SelectedLesson.Title
	}
	if st.SessionPending == quiz.PendingExercises {
		return title + " restarting..."
	}
	if len(st.Exercises) == 0 {
		return title + " has no exercises.\nScore: 0"
	}
	return fmt.Sprintf("%s completed.\nScore: %d", title, st.Score)
}

func helpFor(st quiz.State) string {
	switch st.Screen {
	case quiz.ScreenActive:
		if st.Phase == quiz.PhaseReviewing {
			return "enter next • esc exit"
		}
		return "enter submit • esc exit"
	case quiz.ScreenSummary:
		return "r retry • b back to course • q quit"
	}
	return "←/→ course • ↑/↓ lesson • enter start • r reload • q quit"
}

func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
