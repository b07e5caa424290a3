package inmemdb

import (
	"github.com/google/uuid"

	"github.com/maktabhub/maktab/core/submission"
)

type submissionRepository struct {
	db *DB
}

func NewSubmissionRepository(db *DB) submission.Repository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) CreateSubmission(sub submission.Submission) (submission.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sub.ID = uuid.NewString()
	repo.db.submissions = append(repo.db.submissions, &sub)
	return sub, nil
}

func (repo *submissionRepository) QueryAllSubmissions() ([]submission.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	// newest first
	subs := make([]submission.Submission, 0, len(repo.db.submissions))
	for i := len(repo.db.submissions) - 1; i >= 0; i-- {
		subs = append(subs, *repo.db.submissions[i])
	}
	return subs, nil
}

func (repo *submissionRepository) GetSubmissionByID(id string) (submission.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, sub := range repo.db.submissions {
		if sub.ID == id {
			return *sub, nil
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) FilterSubmissionsByStudent(studentID string) ([]submission.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subs := make([]submission.Submission, 0)
	for i := len(repo.db.submissions) - 1; i >= 0; i-- {
		if sub := repo.db.submissions[i]; sub.StudentID == studentID {
			subs = append(subs, *sub)
		}
	}
	return subs, nil
}

func (repo *submissionRepository) FilterSubmissionsByTeacher(teacherID string) ([]submission.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	owned := make(map[string]bool)
	for _, t := range repo.db.tasks {
		if t.TeacherID == teacherID {
			owned[t.ID] = true
		}
	}

	subs := make([]submission.Submission, 0)
	for i := len(repo.db.submissions) - 1; i >= 0; i-- {
		if sub := repo.db.submissions[i]; owned[sub.TaskID] {
			subs = append(subs, *sub)
		}
	}
	return subs, nil
}

func (repo *submissionRepository) UpdateSubmission(sub submission.Submission) (submission.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i, s := range repo.db.submissions {
		if s.ID == sub.ID {
			repo.db.submissions[i] = &sub
			return sub, nil
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}
