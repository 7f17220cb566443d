package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"

	"taskdeck/internal/api/models"
)

var tracer = otel.Tracer("repository.task")

// TaskRepository defines the interface for task data operations. Every
// read and write is scoped to the owning username; the id alone is never
// enough to reach a task.
type TaskRepository interface {
	Create(ctx context.Context, owner, description string) (*models.Task, error)
	ListByOwner(ctx context.Context, owner string) ([]models.Task, error)
	SetCompleted(ctx context.Context, id, owner string) (*models.Task, error)
	SetDescription(ctx context.Context, id, owner, description string) (*models.Task, error)
	Delete(ctx context.Context, id, owner string) (*models.Task, error)
}

type sqliteTaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new sqlite-based TaskRepository.
func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &sqliteTaskRepository{db: db}
}

// Create inserts a new incomplete task for owner and returns it.
func (r *sqliteTaskRepository) Create(ctx context.Context, owner, description string) (*models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.Create")
	defer span.End()

	task := &models.Task{
		ID:          uuid.New().String(),
		Username:    owner,
		Description: description,
		Completed:   false,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	query := `INSERT INTO tasks (id, username, description, completed, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.Username, task.Description, task.Completed, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// ListByOwner returns a snapshot of all tasks belonging to owner.
func (r *sqliteTaskRepository) ListByOwner(ctx context.Context, owner string) ([]models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.ListByOwner")
	defer span.End()

	tasks := []models.Task{}
	query := `SELECT id, username, description, completed, created_at, updated_at
	          FROM tasks WHERE username = ?`
	if err := r.db.SelectContext(ctx, &tasks, query, owner); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// SetCompleted marks the task as done. The WHERE clause carries both id
// and owner so the ownership check and the mutation are one statement;
// zero affected rows means ErrNotFound.
func (r *sqliteTaskRepository) SetCompleted(ctx context.Context, id, owner string) (*models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.SetCompleted")
	defer span.End()

	query := `UPDATE tasks SET completed = TRUE, updated_at = ? WHERE id = ? AND username = ?`
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}

	return r.getByID(ctx, id, owner)
}

// SetDescription replaces the task's description under the same
// single-statement ownership filter as SetCompleted.
func (r *sqliteTaskRepository) SetDescription(ctx context.Context, id, owner, description string) (*models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.SetDescription")
	defer span.End()

	query := `UPDATE tasks SET description = ?, updated_at = ? WHERE id = ? AND username = ?`
	res, err := r.db.ExecContext(ctx, query, description, time.Now().UTC(), id, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to edit task: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}

	return r.getByID(ctx, id, owner)
}

// Delete removes the task and returns the deleted record. The record is
// read first for the response body; the DELETE itself carries the full
// (id, owner) filter, so a concurrent non-owner request cannot slip in
// between the read and the effect.
func (r *sqliteTaskRepository) Delete(ctx context.Context, id, owner string) (*models.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepository.Delete")
	defer span.End()

	task, err := r.getByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND username = ?`, id, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}

	return task, nil
}

func (r *sqliteTaskRepository) getByID(ctx context.Context, id, owner string) (*models.Task, error) {
	var task models.Task
	query := `SELECT id, username, description, completed, created_at, updated_at
	          FROM tasks WHERE id = ? AND username = ?`
	err := r.db.GetContext(ctx, &task, query, id, owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}
