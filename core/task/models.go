package task

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/maktabhub/maktab/core"
)

// Task types: BSB and CHSB are formal assessment papers (usually a PDF
// attachment), ODDIY is a plain homework.
const (
	TypeBSB   = "BSB"
	TypeCHSB  = "CHSB"
	TypeOddiy = "ODDIY"
)

// Task is one assignment a teacher hands out to a class.
// Tasks are immutable after creation and never deleted.
type Task struct {
	ID          string    `json:"id"`
	TeacherID   string    `json:"teacher_id"`
	TeacherName string    `json:"teacher_name"`
	Subject     string    `json:"subject"`
	ClassName   string    `json:"class_name"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	PDFURL      string    `json:"pdf_url,omitempty"` // inline data URL
	CreatedAt   time.Time `json:"created_at"`        // UTC
}

// NewTask contains information needed to create a Task. The owning teacher
// comes from the request context, never from the payload.
type NewTask struct {
	ClassName   string    `json:"class_name" validate:"required"`
	Type        string    `json:"type" validate:"required,oneof=BSB CHSB ODDIY"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline" validate:"required"`
	PDFURL      string    `json:"pdf_url"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.ClassName = core.CleanString(nt.ClassName)
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
	return validate.Struct(nt)
}
