package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/maktabhub/maktab/core/task"
)

type taskRow struct {
	ID          string    `db:"id"`
	TeacherID   string    `db:"teacher_id"`
	TeacherName string    `db:"teacher_name"`
	Subject     string    `db:"subject"`
	ClassName   string    `db:"class_name"`
	Type        string    `db:"type"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Deadline    time.Time `db:"deadline"`
	PDFURL      string    `db:"pdf_url"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r taskRow) toTask() task.Task {
	return task.Task{
		ID:          r.ID,
		TeacherID:   r.TeacherID,
		TeacherName: r.TeacherName,
		Subject:     r.Subject,
		ClassName:   r.ClassName,
		Type:        r.Type,
		Title:       r.Title,
		Description: r.Description,
		Deadline:    r.Deadline,
		PDFURL:      r.PDFURL,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) task.Repository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) CreateTask(t task.Task) (task.Task, error) {
	t.ID = uuid.NewString()
	_, err := repo.db.Exec(
		`INSERT INTO tasks (id, teacher_id, teacher_name, subject, class_name, type, title, description, deadline, pdf_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.TeacherID, t.TeacherName, t.Subject, t.ClassName, t.Type, t.Title, t.Description,
		t.Deadline, t.PDFURL, t.CreatedAt,
	)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "inserting task")
	}
	return t, nil
}

func (repo *taskRepository) QueryAllTasks() ([]task.Task, error) {
	var rows []taskRow
	if err := repo.db.Select(&rows, `SELECT * FROM tasks ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	return toTasks(rows), nil
}

func (repo *taskRepository) FilterTasksByClass(className string) ([]task.Task, error) {
	var rows []taskRow
	err := repo.db.Select(&rows, `SELECT * FROM tasks WHERE class_name = $1 ORDER BY created_at DESC`, className)
	if err != nil {
		return nil, errors.Wrap(err, "querying tasks by class")
	}
	return toTasks(rows), nil
}

func (repo *taskRepository) GetTaskByID(id string) (task.Task, error) {
	var r taskRow
	err := repo.db.Get(&r, `SELECT * FROM tasks WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, errors.Wrap(err, "getting task")
	}
	return r.toTask(), nil
}

func toTasks(rows []taskRow) []task.Task {
	tasks := make([]task.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.toTask())
	}
	return tasks
}
