package quiz

import (
	"errors"

	"lingo-quiz/internal/models"
)

// Result messages produced by the commands the catalog and the session return.
// Each carries the epoch of the request that produced it so late answers can be dropped.

type coursesLoadedMsg struct {
	epoch   uint64
	courses []models.Course
	err     error
}

type lessonsLoadedMsg struct {
	epoch   uint64
	course  models.Course
	lessons []models.Lesson
	err     error
}

type exercisesLoadedMsg struct {
	epoch     uint64
	lesson    models.Lesson
	exercises []models.Exercise
	err       error
}

type answerCheckedMsg struct {
	epoch      uint64
	exerciseID int
	result     models.AnswerCheckResult
	err        error
}

// errStale marks a response that no longer matches the state it was issued for.
var errStale = errors.New("stale response")
