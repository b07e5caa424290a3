package submission

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/maktabhub/maktab/core"
	"github.com/maktabhub/maktab/core/task"
	"github.com/maktabhub/maktab/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("submission not found")
	ErrNotTaskOwner    = errors.New("submission belongs to another teacher's task")
	ErrAlreadyReviewed = errors.New("submission has already been reviewed")
)

// ScoringError wraps a failed oracle call. No submission is created when
// scoring fails; the student retries the upload.
type ScoringError struct {
	Err error
}

func (e *ScoringError) Error() string { return "homework scoring failed: " + e.Err.Error() }

func IsScoringError(err error) bool {
	_, ok := errors.Cause(err).(*ScoringError)
	return ok
}

type (
	Repository interface {
		CreateSubmission(sub Submission) (Submission, error)
		QueryAllSubmissions() ([]Submission, error)
		GetSubmissionByID(id string) (Submission, error)
		FilterSubmissionsByStudent(studentID string) ([]Submission, error)
		// FilterSubmissionsByTeacher returns submissions against tasks owned by teacherID.
		FilterSubmissionsByTeacher(teacherID string) ([]Submission, error)
		UpdateSubmission(sub Submission) (Submission, error)
	}

	Service struct {
		repo    Repository
		taskSvc *task.Service
		usrSvc  *user.Service
		grader  core.Grader
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, taskSvc *task.Service, usrSvc *user.Service, grader core.Grader, mailSvc core.EmailService) *Service {
	return &Service{
		repo:    repo,
		taskSvc: taskSvc,
		usrSvc:  usrSvc,
		grader:  grader,
		mailSvc: mailSvc,
	}
}

// Create scores the uploaded file once and records the result as a PENDING
// submission. A failed oracle call creates nothing.
func (svc *Service) Create(ctx context.Context, student user.User, ns NewSubmission) (Submission, error) {
	if _, err := svc.taskSvc.GetByID(ns.TaskID); err != nil {
		return Submission{}, err
	}

	analysis, err := svc.grader.Analyze(ctx, ns.FileData, ns.FileType)
	if err != nil {
		return Submission{}, &ScoringError{Err: err}
	}

	sub := Submission{
		TaskID:       ns.TaskID,
		StudentID:    student.ID,
		StudentName:  student.FullName,
		StudentClass: student.ClassName,
		FileURL:      dataURL(ns.FileData, ns.FileType),
		FileType:     ns.FileType,
		Accuracy:     analysis.Accuracy,
		AIComment:    analysis.Explanation,
		Alternatives: analysis.Alternatives,
		Advice:       analysis.Advice,
		Status:       StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	if sub.Alternatives == nil {
		sub.Alternatives = []string{}
	}
	return svc.repo.CreateSubmission(sub)
}

// Review applies a teacher's decision to a pending submission.
// Only the owning teacher of the submission's task may review it (admins excepted),
// a terminal submission stays as is, and an empty comment never clears a prior one.
func (svc *Service) Review(reviewer user.User, id string, rev Review) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(id)
	if err != nil {
		return Submission{}, err
	}

	t, err := svc.taskSvc.GetByID(sub.TaskID)
	if err != nil {
		return Submission{}, errors.Wrap(err, "finding submission task")
	}
	if !reviewer.IsAdmin() && t.TeacherID != reviewer.ID {
		return Submission{}, ErrNotTaskOwner
	}
	if sub.Status != StatusPending {
		return Submission{}, ErrAlreadyReviewed
	}

	now := time.Now().UTC()
	sub.Status = rev.Decision
	sub.ReviewedAt = &now
	if rev.Comment != "" {
		sub.TeacherComment = rev.Comment
	}

	sub, err = svc.repo.UpdateSubmission(sub)
	if err != nil {
		return Submission{}, err
	}
	svc.notifyStudent(sub, t)
	return sub, nil
}

func (svc *Service) QueryAll() ([]Submission, error) {
	return svc.repo.QueryAllSubmissions()
}

func (svc *Service) GetByID(id string) (Submission, error) {
	return svc.repo.GetSubmissionByID(id)
}

func (svc *Service) FilterByStudent(studentID string) ([]Submission, error) {
	return svc.repo.FilterSubmissionsByStudent(studentID)
}

func (svc *Service) FilterByTeacher(teacherID string) ([]Submission, error) {
	return svc.repo.FilterSubmissionsByTeacher(teacherID)
}

// notifyStudent emails the student about the decision when they have an email on file.
func (svc *Service) notifyStudent(sub Submission, t task.Task) {
	if svc.mailSvc == nil {
		return
	}
	student, err := svc.usrSvc.GetByID(sub.StudentID)
	if err != nil || student.Email == "" {
		return
	}
	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: student.FullName, Address: student.Email}},
		Subject: fmt.Sprintf("%q reviewed", t.Title),
		BodyStr: fmt.Sprintf("Your work on %q has been %s.", t.Title, sub.Status),
	}
	if sub.TeacherComment != "" {
		msg.BodyStr += fmt.Sprintf("\nTeacher's comment: %s", sub.TeacherComment)
	}
	svc.mailSvc.SendMessages(msg)
}

func dataURL(data []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
