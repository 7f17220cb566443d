package service

import (
	"context"

	"taskdeck/internal/api/models"
	"taskdeck/internal/api/repository"
	"taskdeck/internal/cache"
	"taskdeck/internal/events"
)

// Publisher pushes task change events toward connected clients.
// *hub.Hub is the production implementation.
type Publisher interface {
	Publish(event events.Event)
}

// TaskService defines the interface for ownership-scoped task operations.
type TaskService interface {
	Add(ctx context.Context, owner, description string) (*models.Task, error)
	List(ctx context.Context, owner string) ([]models.Task, error)
	Complete(ctx context.Context, id, owner string) (*models.Task, error)
	Edit(ctx context.Context, id, owner, description string) (*models.Task, error)
	Delete(ctx context.Context, id, owner string) (*models.Task, error)
}

type taskService struct {
	taskRepo  repository.TaskRepository
	taskCache *cache.TaskCache
	publisher Publisher
}

// NewTaskService creates a new TaskService. taskCache may be nil when
// redis is unavailable; publisher may be nil when no event stream is
// wanted (tests).
func NewTaskService(taskRepo repository.TaskRepository, taskCache *cache.TaskCache, publisher Publisher) TaskService {
	return &taskService{taskRepo: taskRepo, taskCache: taskCache, publisher: publisher}
}

// Add creates a new incomplete task for owner.
func (s *taskService) Add(ctx context.Context, owner, description string) (*models.Task, error) {
	task, err := s.taskRepo.Create(ctx, owner, description)
	if err != nil {
		return nil, err
	}
	s.taskCache.Invalidate(ctx, owner)
	s.notify(events.TypeTaskCreated, task)
	return task, nil
}

// List returns the owner's tasks, serving from the cache when warm.
func (s *taskService) List(ctx context.Context, owner string) ([]models.Task, error) {
	if tasks, ok := s.taskCache.Get(ctx, owner); ok {
		return tasks, nil
	}

	tasks, err := s.taskRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	s.taskCache.Set(ctx, owner, tasks)
	return tasks, nil
}

// Complete marks the task done if it belongs to owner.
func (s *taskService) Complete(ctx context.Context, id, owner string) (*models.Task, error) {
	task, err := s.taskRepo.SetCompleted(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	s.taskCache.Invalidate(ctx, owner)
	s.notify(events.TypeTaskCompleted, task)
	return task, nil
}

// Edit replaces the task's description if it belongs to owner.
func (s *taskService) Edit(ctx context.Context, id, owner, description string) (*models.Task, error) {
	task, err := s.taskRepo.SetDescription(ctx, id, owner, description)
	if err != nil {
		return nil, err
	}
	s.taskCache.Invalidate(ctx, owner)
	s.notify(events.TypeTaskEdited, task)
	return task, nil
}

// Delete removes the task if it belongs to owner and returns the removed
// record.
func (s *taskService) Delete(ctx context.Context, id, owner string) (*models.Task, error) {
	task, err := s.taskRepo.Delete(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	s.taskCache.Invalidate(ctx, owner)
	s.notify(events.TypeTaskDeleted, task)
	return task, nil
}

func (s *taskService) notify(eventType string, task *models.Task) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(events.Event{
		Type:  eventType,
		Owner: task.Username,
		Payload: events.TaskPayload{
			ID:          task.ID,
			Description: task.Description,
			Completed:   task.Completed,
		},
	})
}
