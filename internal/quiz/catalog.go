package quiz

import (
	"cmp"
	"context"
	"slices"

	"lingo-quiz/internal/models"
	"lingo-quiz/internal/remote"

	tea "github.com/charmbracelet/bubbletea"
)

// Catalog holds the course list, the selected course and its lessons.
type Catalog struct {
	service  remote.Service
	courses  []models.Course
	selected *models.Course
	lessons  []models.Lesson
	pending  Pending
	epoch    uint64
}

// NewCatalog creates an empty catalog backed by service.
func NewCatalog(service remote.Service) *Catalog {
	return &Catalog{service: service}
}

// Pending reports the remote call the catalog is waiting on.
func (c *Catalog) Pending() Pending { return c.pending }

// Courses returns a copy of the loaded courses.
func (c *Catalog) Courses() []models.Course { return slices.Clone(c.courses) }

// Lessons returns a copy of the lessons of the selected course, sorted by order.
func (c *Catalog) Lessons() []models.Lesson { return slices.Clone(c.lessons) }

// Selected returns the selected course, if any.
func (c *Catalog) Selected() (models.Course, bool) {
	if c.selected == nil {
		return models.Course{}, false
	}
	return *c.selected, true
}

// Course looks up a loaded course by id.
func (c *Catalog) Course(id int) (models.Course, bool) {
	i := slices.IndexFunc(c.courses, func(course models.Course) bool { return course.ID == id })
	if i < 0 {
		return models.Course{}, false
	}
	return c.courses[i], true
}

// Lesson looks up a loaded lesson by id.
func (c *Catalog) Lesson(id int) (models.Lesson, bool) {
	i := slices.IndexFunc(c.lessons, func(lesson models.Lesson) bool { return lesson.ID == id })
	if i < 0 {
		return models.Lesson{}, false
	}
	return c.lessons[i], true
}

// LoadCourses fetches the course list. On success the first course is selected
// and its lessons are requested.
func (c *Catalog) LoadCourses(ctx context.Context) (tea.Cmd, error) {
	if c.pending != PendingNone {
		return nil, invalid("load courses", "catalog busy loading %s", c.pending)
	}
	c.pending = PendingCourses
	c.epoch++
	epoch, service := c.epoch, c.service
	return func() tea.Msg {
		courses, err := service.ListCourses(ctx)
		return coursesLoadedMsg{epoch: epoch, courses: courses, err: err}
	}, nil
}

// LoadLessons fetches the lessons of course. The selection and the lesson list are
// replaced only when the fetch succeeds.
func (c *Catalog) LoadLessons(ctx context.Context, course models.Course) (tea.Cmd, error) {
	if c.pending != PendingNone {
		return nil, invalid("load lessons", "catalog busy loading %s", c.pending)
	}
	c.pending = PendingLessons
	c.epoch++
	epoch, service := c.epoch, c.service
	return func() tea.Msg {
		lessons, err := service.ListLessons(ctx, course.ID)
		return lessonsLoadedMsg{epoch: epoch, course: course, lessons: lessons, err: err}
	}, nil
}

// SelectCourse switches to course and loads its lessons.
func (c *Catalog) SelectCourse(ctx context.Context, course models.Course) (tea.Cmd, error) {
	return c.LoadLessons(ctx, course)
}

func (c *Catalog) applyCourses(ctx context.Context, msg coursesLoadedMsg) (tea.Cmd, error) {
	if msg.epoch != c.epoch || c.pending != PendingCourses {
		return nil, errStale
	}
	c.pending = PendingNone
	if msg.err != nil {
		return nil, msg.err
	}
	c.courses = slices.Clone(msg.courses)
	if len(c.courses) == 0 {
		c.selected = nil
		c.lessons = nil
		return nil, nil
	}
	return c.LoadLessons(ctx, c.courses[0])
}

func (c *Catalog) applyLessons(msg lessonsLoadedMsg) error {
	if msg.epoch != c.epoch || c.pending != PendingLessons {
		return errStale
	}
	c.pending = PendingNone
	if msg.err != nil {
		if c.selected != nil {
			if _, ok := c.Course(c.selected.ID); !ok {
				c.selected = nil
				c.lessons = nil
			}
		}
		return msg.err
	}
	lessons := slices.Clone(msg.lessons)
	slices.SortStableFunc(lessons, func(a, b models.Lesson) int {
		return cmp.Compare(a.Order, b.Order)
	})
	course := msg.course
	c.selected = &course
	c.lessons = lessons
	return nil
}
