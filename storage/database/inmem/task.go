package inmemdb

import (
	"github.com/google/uuid"

	"github.com/maktabhub/maktab/core/task"
)

type taskRepository struct {
	db *DB
}

func NewTaskRepository(db *DB) task.Repository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) CreateTask(t task.Task) (task.Task, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t.ID = uuid.NewString()
	repo.db.tasks = append(repo.db.tasks, &t)
	return t, nil
}

func (repo *taskRepository) QueryAllTasks() ([]task.Task, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	// newest first
	tasks := make([]task.Task, 0, len(repo.db.tasks))
	for i := len(repo.db.tasks) - 1; i >= 0; i-- {
		tasks = append(tasks, *repo.db.tasks[i])
	}
	return tasks, nil
}

func (repo *taskRepository) FilterTasksByClass(className string) ([]task.Task, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	tasks := make([]task.Task, 0)
	for i := len(repo.db.tasks) - 1; i >= 0; i-- {
		if t := repo.db.tasks[i]; t.ClassName == className {
			tasks = append(tasks, *t)
		}
	}
	return tasks, nil
}

func (repo *taskRepository) GetTaskByID(id string) (task.Task, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, t := range repo.db.tasks {
		if t.ID == id {
			return *t, nil
		}
	}
	return task.Task{}, task.ErrNotFound
}
