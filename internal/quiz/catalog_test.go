package quiz

import (
	"context"
	"errors"
	"testing"

	"lingo-quiz/internal/models"
	"lingo-quiz/internal/remote"
)

func lessonIDs(lessons []models.Lesson) []int {
	ids := make([]int, len(lessons))
	for i, l := range lessons {
		ids[i] = l.ID
	}
	return ids
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestLoadCoursesSelectsFirstCourse verifies the first course is selected and its lessons loaded.
func TestLoadCoursesSelectsFirstCourse(t *testing.T) {
	c := newLoadedController(t, newFakeService())
	st := c.State()
	if len(st.Courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(st.Courses))
	}
	if st.SelectedCourse == nil || st.SelectedCourse.ID != 1 {
		t.Fatalf("expected course 1 selected, got %+v", st.SelectedCourse)
	}
	if len(st.Lessons) != 4 {
		t.Fatalf("expected 4 lessons, got %d", len(st.Lessons))
	}
	if st.Busy {
		t.Fatalf("expected catalog to be idle")
	}
}

// TestLessonsSortedStably verifies equal orders keep the order the service returned.
func TestLessonsSortedStably(t *testing.T) {
	c := newLoadedController(t, newFakeService())
	got := lessonIDs(c.State().Lessons)
	want := []int{11, 12, 10, 13}
	if !equalInts(got, want) {
		t.Fatalf("expected lessons %v, got %v", want, got)
	}
}

// TestLoadLessonsTwiceIsIdempotent verifies repeated loads give the same sequence.
func TestLoadLessonsTwiceIsIdempotent(t *testing.T) {
	svc := newFakeService()
	c := newLoadedController(t, svc)
	first := lessonIDs(c.State().Lessons)

	course, _ := c.catalog.Course(1)
	cmd := mustCmd(t)(c.SelectCourse(course))
	if err := drive(t, c, cmd); err != nil {
		t.Fatalf("reload lessons: %v", err)
	}
	second := lessonIDs(c.State().Lessons)
	if !equalInts(first, second) {
		t.Fatalf("expected %v twice, got %v", first, second)
	}
}

// TestSelectCourseReplacesLessons verifies a course switch swaps the lesson list.
func TestSelectCourseReplacesLessons(t *testing.T) {
	c := newLoadedController(t, newFakeService())
	course, _ := c.catalog.Course(2)
	cmd := mustCmd(t)(c.SelectCourse(course))

	if c.State().CatalogPending != PendingLessons {
		t.Fatalf("expected lessons pending, got %s", c.State().CatalogPending)
	}
	if err := drive(t, c, cmd); err != nil {
		t.Fatalf("select course: %v", err)
	}
	st := c.State()
	if st.SelectedCourse == nil || st.SelectedCourse.ID != 2 {
		t.Fatalf("expected course 2 selected, got %+v", st.SelectedCourse)
	}
	if got := lessonIDs(st.Lessons); !equalInts(got, []int{20}) {
		t.Fatalf("expected lesson 20, got %v", got)
	}
}

// TestSelectCourseRejectedWhileBusy verifies a second lesson load cannot start.
func TestSelectCourseRejectedWhileBusy(t *testing.T) {
	c := newLoadedController(t, newFakeService())
	french, _ := c.catalog.Course(2)
	spanish, _ := c.catalog.Course(1)
	cmd := mustCmd(t)(c.SelectCourse(french))

	if _, err := c.SelectCourse(spanish); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if err := drive(t, c, cmd); err != nil {
		t.Fatalf("select course: %v", err)
	}
	if c.State().SelectedCourse.ID != 2 {
		t.Fatalf("expected the first selection to win")
	}
}

// TestSelectUnknownCourseRejected verifies only listed courses can be selected.
func TestSelectUnknownCourseRejected(t *testing.T) {
	c := newLoadedController(t, newFakeService())
	_, err := c.SelectCourse(models.Course{ID: 99, Name: "Klingon", Code: "tlh"})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

// TestLoadCoursesFailureKeepsState verifies a failed reload leaves the catalog untouched.
func TestLoadCoursesFailureKeepsState(t *testing.T) {
	svc := newFakeService()
	c := newLoadedController(t, svc)
	before := c.State()

	svc.coursesErr = errNetwork
	cmd := mustCmd(t)(c.LoadCourses())
	err := drive(t, c, cmd)
	if !errors.Is(err, remote.ErrTransport) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	after := c.State()
	if len(after.Courses) != len(before.Courses) || after.SelectedCourse.ID != before.SelectedCourse.ID {
		t.Fatalf("expected catalog unchanged")
	}
	if after.Busy {
		t.Fatalf("expected busy to clear after failure")
	}
	if after.Notice == "" {
		t.Fatalf("expected a notice for the user")
	}
}

// TestLoadLessonsFailureKeepsSelection verifies a failed switch keeps the previous course.
func TestLoadLessonsFailureKeepsSelection(t *testing.T) {
	svc := newFakeService()
	c := newLoadedController(t, svc)
	svc.lessonsErr = errNetwork

	course, _ := c.catalog.Course(2)
	cmd := mustCmd(t)(c.SelectCourse(course))
	if err := drive(t, c, cmd); !errors.Is(err, remote.ErrTransport) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	st := c.State()
	if st.SelectedCourse.ID != 1 || len(st.Lessons) != 4 {
		t.Fatalf("expected course 1 and its lessons to remain, got %+v", st.SelectedCourse)
	}
}

// TestEmptyCourseList verifies an empty catalog selects nothing and issues no lesson load.
func TestEmptyCourseList(t *testing.T) {
	svc := newFakeService()
	svc.courses = nil
	c := NewController(context.Background(), svc, Options{})

	next, err := c.Update(c.Init()())
	if err != nil {
		t.Fatalf("load courses: %v", err)
	}
	if next != nil {
		t.Fatalf("expected no follow-up lesson load")
	}
	if st := c.State(); st.SelectedCourse != nil || len(st.Lessons) != 0 {
		t.Fatalf("expected empty selection, got %+v", st)
	}
}

// TestCourseDisplayCode verifies codes are shown upper-case and compared case-insensitively.
func TestCourseDisplayCode(t *testing.T) {
	course := models.Course{Code: "es"}
	if course.DisplayCode() != "ES" {
		t.Fatalf("expected ES, got %s", course.DisplayCode())
	}
	if !course.SameCode("ES") {
		t.Fatalf("expected codes to match case-insensitively")
	}
}

// TestReloadDropsVanishedSelection verifies a selected course that is no longer
// listed is cleared even when the follow-up lesson load fails.
func TestReloadDropsVanishedSelection(t *testing.T) {
	svc := newFakeService()
	c := newLoadedController(t, svc)
	selectCourse(t, c, 2)

	svc.courses = svc.courses[:1]
	svc.lessonsErr = errNetwork
	cmd := mustCmd(t)(c.LoadCourses())
	if err := drive(t, c, cmd); !errors.Is(err, remote.ErrTransport) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	st := c.State()
	if len(st.Courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(st.Courses))
	}
	if st.SelectedCourse != nil || len(st.Lessons) != 0 {
		t.Fatalf("expected no selection, got %+v with %d lessons", st.SelectedCourse, len(st.Lessons))
	}
	if _, err := c.StartLesson(models.Lesson{ID: 20, CourseID: 2}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected lesson of a vanished course rejected, got %v", err)
	}
}

// TestReloadKeepsListedSelection verifies a failed lesson load after a reload
// keeps a selection that is still listed.
func TestReloadKeepsListedSelection(t *testing.T) {
	svc := newFakeService()
	c := newLoadedController(t, svc)
	selectCourse(t, c, 2)

	svc.lessonsErr = errNetwork
	cmd := mustCmd(t)(c.LoadCourses())
	if err := drive(t, c, cmd); !errors.Is(err, remote.ErrTransport) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	st := c.State()
	if st.SelectedCourse == nil || st.SelectedCourse.ID != 2 {
		t.Fatalf("expected course 2 to stay selected, got %+v", st.SelectedCourse)
	}
	if got := lessonIDs(st.Lessons); !equalInts(got, []int{20}) {
		t.Fatalf("expected lesson 20 kept, got %v", got)
	}
}
