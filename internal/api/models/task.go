package models

import "time"

// Task is a single task owned by a user. Username is the owner; every
// query against tasks filters on it.
type Task struct {
	ID          string    `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	Description string    `db:"description" json:"description"`
	Completed   bool      `db:"completed" json:"completed"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"-"`
}

// AddTaskRequest is the body of /add-task.
type AddTaskRequest struct {
	Description string `json:"description"`
}

// EditTaskRequest is the body of /edit-task/:id.
type EditTaskRequest struct {
	Description string `json:"description"`
}

// DeleteTaskResponse is the body of a successful /delete-task/:id.
type DeleteTaskResponse struct {
	Message string `json:"message"`
	Task    Task   `json:"task"`
}
