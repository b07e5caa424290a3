package testutil

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/maktabhub/maktab/core"
	"github.com/maktabhub/maktab/core/submission"
	"github.com/maktabhub/maktab/core/task"
	"github.com/maktabhub/maktab/core/user"
)

// NewValidators returns an initialized validator and translator pair.
func NewValidators() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate, translator
}

// NewTestLogger returns a silent core.Logger for tests.
func NewTestLogger() core.Logger { return testLogger{std: log.New(io.Discard, "", 0)} }

type testLogger struct {
	std *log.Logger
}

func (l testLogger) Enable(bool) {}
func (l testLogger) Debug(msg string, args ...interface{}) { l.std.Println(msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.std.Println(msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.std.Println(msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.std.Println(msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.std.Println(msg, args) }

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, login, email, pwd, role, subject, className string,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	usr := user.User{
		FullName:  name,
		Login:     login,
		Email:     email,
		Role:      role,
		Subject:   subject,
		ClassName: className,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateTask(
	t *testing.T,
	repo task.Repository,
	owner user.User,
	className, taskType, title string,
) task.Task {
	t.Helper()
	tsk := task.Task{
		TeacherID:   owner.ID,
		TeacherName: owner.FullName,
		Subject:     owner.Subject,
		ClassName:   className,
		Type:        taskType,
		Title:       title,
		Deadline:    time.Now().UTC().AddDate(0, 0, 7),
		CreatedAt:   time.Now().UTC(),
	}
	tsk, err := repo.CreateTask(tsk)
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	return tsk
}

func CreateSubmission(
	t *testing.T,
	repo submission.Repository,
	tsk task.Task,
	student user.User,
	accuracy int,
) submission.Submission {
	t.Helper()
	sub := submission.Submission{
		TaskID:       tsk.ID,
		StudentID:    student.ID,
		StudentName:  student.FullName,
		StudentClass: student.ClassName,
		FileURL:      "data:application/pdf;base64,dGVzdA==",
		FileType:     "application/pdf",
		Accuracy:     accuracy,
		AIComment:    "ok",
		Alternatives: []string{},
		Status:       submission.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	sub, err := repo.CreateSubmission(sub)
	if err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
	return sub
}
