package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/maktabhub/maktab/core/submission"
)

type submissionRow struct {
	ID             string         `db:"id"`
	TaskID         string         `db:"task_id"`
	StudentID      string         `db:"student_id"`
	StudentName    string         `db:"student_name"`
	StudentClass   string         `db:"student_class"`
	FileURL        string         `db:"file_url"`
	FileType       string         `db:"file_type"`
	Accuracy       int            `db:"accuracy"`
	AIComment      string         `db:"ai_comment"`
	Alternatives   pq.StringArray `db:"alternatives"`
	Advice         string         `db:"advice"`
	TeacherComment string         `db:"teacher_comment"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
	ReviewedAt     sql.NullTime   `db:"reviewed_at"`
}

func (r submissionRow) toSubmission() submission.Submission {
	sub := submission.Submission{
		ID:             r.ID,
		TaskID:         r.TaskID,
		StudentID:      r.StudentID,
		StudentName:    r.StudentName,
		StudentClass:   r.StudentClass,
		FileURL:        r.FileURL,
		FileType:       r.FileType,
		Accuracy:       r.Accuracy,
		AIComment:      r.AIComment,
		Alternatives:   []string(r.Alternatives),
		Advice:         r.Advice,
		TeacherComment: r.TeacherComment,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt.UTC(),
	}
	if sub.Alternatives == nil {
		sub.Alternatives = []string{}
	}
	if r.ReviewedAt.Valid {
		t := r.ReviewedAt.Time.UTC()
		sub.ReviewedAt = &t
	}
	return sub
}

type submissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) submission.Repository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) CreateSubmission(sub submission.Submission) (submission.Submission, error) {
	sub.ID = uuid.NewString()
	_, err := repo.db.Exec(
		`INSERT INTO submissions (id, task_id, student_id, student_name, student_class, file_url, file_type,
		                          accuracy, ai_comment, alternatives, advice, teacher_comment, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		sub.ID, sub.TaskID, sub.StudentID, sub.StudentName, sub.StudentClass, sub.FileURL, sub.FileType,
		sub.Accuracy, sub.AIComment, pq.StringArray(sub.Alternatives), sub.Advice, sub.TeacherComment,
		sub.Status, sub.CreatedAt,
	)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return sub, nil
}

func (repo *submissionRepository) QueryAllSubmissions() ([]submission.Submission, error) {
	var rows []submissionRow
	if err := repo.db.Select(&rows, `SELECT * FROM submissions ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	return toSubmissions(rows), nil
}

func (repo *submissionRepository) GetSubmissionByID(id string) (submission.Submission, error) {
	var r submissionRow
	err := repo.db.Get(&r, `SELECT * FROM submissions WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, errors.Wrap(err, "getting submission")
	}
	return r.toSubmission(), nil
}

func (repo *submissionRepository) FilterSubmissionsByStudent(studentID string) ([]submission.Submission, error) {
	var rows []submissionRow
	err := repo.db.Select(&rows,
		`SELECT * FROM submissions WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions by student")
	}
	return toSubmissions(rows), nil
}

func (repo *submissionRepository) FilterSubmissionsByTeacher(teacherID string) ([]submission.Submission, error) {
	var rows []submissionRow
	err := repo.db.Select(&rows,
		`SELECT s.* FROM submissions s
		 JOIN tasks t ON t.id = s.task_id
		 WHERE t.teacher_id = $1
		 ORDER BY s.created_at DESC`, teacherID)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions by teacher")
	}
	return toSubmissions(rows), nil
}

func (repo *submissionRepository) UpdateSubmission(sub submission.Submission) (submission.Submission, error) {
	var reviewedAt sql.NullTime
	if sub.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *sub.ReviewedAt, Valid: true}
	}
	res, err := repo.db.Exec(
		`UPDATE submissions SET status = $2, teacher_comment = $3, reviewed_at = $4 WHERE id = $1`,
		sub.ID, sub.Status, sub.TeacherComment, reviewedAt,
	)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "updating submission")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return submission.Submission{}, submission.ErrNotFound
	}
	return sub, nil
}

func toSubmissions(rows []submissionRow) []submission.Submission {
	subs := make([]submission.Submission, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, r.toSubmission())
	}
	return subs
}
