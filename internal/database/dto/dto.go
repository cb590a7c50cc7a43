package dto

import "taskboard/internal/database/models"

type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RecoveryRequest struct {
	Email string `json:"email"`
}

// StatusCount is one row of the grouped card count.
type StatusCount struct {
	Status string `bun:"status" json:"status"`
	Count  int64  `bun:"count" json:"count"`
}

// CardCountReport maps each canonical status to its count. All three
// statuses are always present, defaulting to zero, and Total is the sum
// over every status returned by the grouped query.
type CardCountReport struct {
	ToDo  int64 `json:"toDo"`
	Doing int64 `json:"doing"`
	Done  int64 `json:"done"`
	Total int64 `json:"total"`
}

// CardBuckets is the search response: matching cards partitioned by status.
type CardBuckets struct {
	ToDoCards  []models.Card `json:"toDoCards"`
	DoingCards []models.Card `json:"doingCards"`
	DoneCards  []models.Card `json:"doneCards"`
}
