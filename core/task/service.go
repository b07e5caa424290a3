package task

import (
	"time"

	"github.com/pkg/errors"

	"github.com/maktabhub/maktab/core/user"
)

var ErrNotFound = errors.New("task not found")

type (
	// Repository persists tasks. Queries return newest-first.
	Repository interface {
		CreateTask(t Task) (Task, error)
		QueryAllTasks() ([]Task, error)
		FilterTasksByClass(className string) ([]Task, error)
		GetTaskByID(id string) (Task, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create hands out a new assignment owned by the given teacher.
func (svc *Service) Create(owner user.User, nt NewTask) (Task, error) {
	t := Task{
		TeacherID:   owner.ID,
		TeacherName: owner.FullName,
		Subject:     owner.Subject,
		ClassName:   nt.ClassName,
		Type:        nt.Type,
		Title:       nt.Title,
		Description: nt.Description,
		Deadline:    nt.Deadline,
		PDFURL:      nt.PDFURL,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateTask(t)
}

func (svc *Service) QueryAll() ([]Task, error) {
	return svc.repo.QueryAllTasks()
}

func (svc *Service) FilterByClass(className string) ([]Task, error) {
	return svc.repo.FilterTasksByClass(className)
}

func (svc *Service) GetByID(id string) (Task, error) {
	return svc.repo.GetTaskByID(id)
}
