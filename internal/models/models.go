package models

import "strings"

// ExerciseType is the input mode of an exercise.
type ExerciseType string

const (
	MultipleChoice ExerciseType = "multiple_choice"
	FreeText       ExerciseType = "free_text"
)

// Valid reports whether t is one of the known exercise types.
func (t ExerciseType) Valid() bool {
	return t == MultipleChoice || t == FreeText
}

// Course is one language course (Spanish, French...).
type Course struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// DisplayCode returns the course code the way it is shown to the user.
func (c Course) DisplayCode() string {
	return strings.ToUpper(c.Code)
}

// SameCode compares course codes case-insensitively.
func (c Course) SameCode(code string) bool {
	return strings.EqualFold(c.Code, code)
}

// Lesson belongs to a course. Order may repeat across lessons of one course.
type Lesson struct {
	ID       int    `json:"id"`
	CourseID int    `json:"course_id"`
	Order    int    `json:"order"`
	Title    string `json:"title"`
}

// Exercise is a single prompt inside a lesson. Options is set only for multiple choice.
type Exercise struct {
	ID       int          `json:"id"`
	LessonID int          `json:"lesson_id"`
	Type     ExerciseType `json:"type"`
	Prompt   string       `json:"prompt"`
	Options  []string     `json:"options,omitempty"`
}

// AnswerCheckResult is the verdict for one submission.
type AnswerCheckResult struct {
	Correct  bool   `json:"correct"`
	Expected string `json:"expected"`
}
