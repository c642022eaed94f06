package learning

import "errors"

var (
	// ErrPathNotFound is returned when a path ID does not resolve.
	ErrPathNotFound = errors.New("learning path not found")

	// ErrChapterNotFound is returned when a chapter ID does not resolve
	// within its plan.
	ErrChapterNotFound = errors.New("chapter not found")

	// ErrEmptyPlan is returned when a plan has no chapters.
	ErrEmptyPlan = errors.New("learning plan has no chapters")
)
