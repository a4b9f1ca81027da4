// Package tasks contains task provider implementations. The
// recommendation core never owns task storage; providers adapt whatever
// system does own it to the domain.TaskProvider interface.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

// FileProvider reads tasks from a JSON file. The file holds either a
// plain array of task records or an object with a "tasks" array, so both
// exported task lists and hand-written files work.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider backed by the given JSON file.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// PendingTasks returns all tasks in the file with a pending (or absent)
// status. A missing file is an empty task list, not an error.
func (p *FileProvider) PendingTasks(ctx context.Context) ([]domain.TaskRecord, error) {
	all, err := p.load()
	if err != nil {
		return nil, err
	}

	pending := make([]domain.TaskRecord, 0, len(all))
	for _, task := range all {
		if task.Status == "" || task.Status == domain.StatusPending {
			pending = append(pending, task)
		}
	}
	return pending, nil
}

// TaskByID resolves a single task regardless of status. Returns nil when
// the task is unknown.
func (p *FileProvider) TaskByID(ctx context.Context, id string) (*domain.TaskRecord, error) {
	all, err := p.load()
	if err != nil {
		return nil, err
	}

	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (p *FileProvider) load() ([]domain.TaskRecord, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read tasks file: %w", err)
	}

	var list []domain.TaskRecord
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Tasks []domain.TaskRecord `json:"tasks"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse tasks file %s: %w", p.path, err)
	}
	return wrapped.Tasks, nil
}
