package submission

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/maktabhub/maktab/core"
)

// Lifecycle: PENDING is the sole initial state; APPROVED and REJECTED are
// terminal. A submission is reviewed at most once.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type (
	// Submission is one student's attempt at one task. The AI-derived fields
	// (Accuracy, AIComment, Alternatives, Advice) are fixed at creation.
	Submission struct {
		ID             string     `json:"id"`
		TaskID         string     `json:"task_id"`
		StudentID      string     `json:"student_id"`
		StudentName    string     `json:"student_name"`
		StudentClass   string     `json:"student_class"`
		FileURL        string     `json:"file_url"` // inline data URL
		FileType       string     `json:"file_type"`
		Accuracy       int        `json:"accuracy"`
		AIComment      string     `json:"ai_comment"`
		Alternatives   []string   `json:"alternatives"`
		Advice         string     `json:"advice,omitempty"`
		TeacherComment string     `json:"teacher_comment,omitempty"`
		Status         string     `json:"status"`
		CreatedAt      time.Time  `json:"created_at"` // UTC
		ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	}

	// NewSubmission contains a student's homework upload for one task.
	NewSubmission struct {
		TaskID   string `json:"task_id" validate:"required"`
		FileType string `json:"file_type" validate:"required"`
		FileData []byte `json:"-" validate:"required"`
	}

	// Review is a teacher's decision on a pending submission. An empty comment
	// leaves any prior teacher comment untouched.
	Review struct {
		Decision string `json:"decision" validate:"required,oneof=APPROVED REJECTED"`
		Comment  string `json:"comment"`
	}
)

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.TaskID = core.CleanString(ns.TaskID)
	ns.FileType = core.CleanString(ns.FileType, true /* lower */)
	return validate.Struct(ns)
}

func (rv *Review) Validate(validate *validator.Validate) error {
	rv.Decision = core.CleanString(rv.Decision)
	rv.Comment = core.CleanString(rv.Comment)
	return validate.Struct(rv)
}
