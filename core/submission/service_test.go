package submission_test

import (
	"context"
	"strings"
	"testing"

	"github.com/maktabhub/maktab/core"
	"github.com/maktabhub/maktab/core/submission"
	"github.com/maktabhub/maktab/core/task"
	"github.com/maktabhub/maktab/core/user"
	emailsvc "github.com/maktabhub/maktab/services/email"
	gradersvc "github.com/maktabhub/maktab/services/grader"
	inmemdb "github.com/maktabhub/maktab/storage/database/inmem"
	testutil "github.com/maktabhub/maktab/tests"
)

type fixture struct {
	svc     *submission.Service
	usrRepo user.Repository
	tskRepo task.Repository
	student user.User
	teacher user.User
	task    task.Task
}

func setup(t *testing.T, grader core.Grader) fixture {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	usrRepo := inmemdb.NewUserRepository(db)
	tskRepo := inmemdb.NewTaskRepository(db)

	usrSvc := user.NewService(usrRepo)
	tskSvc := task.NewService(tskRepo)
	svc := submission.NewService(inmemdb.NewSubmissionRepository(db), tskSvc, usrSvc, grader, nil)

	teacher := testutil.CreateUser(t, usrRepo, "Olim Karimov", "olim", "", "test", user.RoleTeacher, "Matematika", "")
	student := testutil.CreateUser(t, usrRepo, "Bobur Aliyev", "bobur", "", "test", user.RoleStudent, "", "9-A")
	tsk := testutil.CreateTask(t, tskRepo, teacher, "9-A", task.TypeBSB, "Kvadrat tenglamalar")

	return fixture{
		svc:     svc,
		usrRepo: usrRepo,
		tskRepo: tskRepo,
		student: student,
		teacher: teacher,
		task:    tsk,
	}
}

func TestService_Create(t *testing.T) {
	analysis := core.Analysis{
		Accuracy:     78,
		Errors:       []string{"2-misolda xato"},
		Explanation:  "Yechim qisman to'g'ri.",
		Alternatives: []string{"Diskriminant usuli"},
		Advice:       "2-misolni qayta ishlang.",
	}
	fix := setup(t, gradersvc.NewDummyServiceWithResult(analysis))

	sub, err := fix.svc.Create(context.Background(), fix.student, submission.NewSubmission{
		TaskID:   fix.task.ID,
		FileType: "application/pdf",
		FileData: []byte("%PDF-1.4 test"),
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if sub.Status != submission.StatusPending {
		t.Errorf("Status = %s, want %s", sub.Status, submission.StatusPending)
	}
	if sub.Accuracy != 78 {
		t.Errorf("Accuracy = %d, want 78", sub.Accuracy)
	}
	if sub.AIComment != analysis.Explanation {
		t.Errorf("AIComment = %q, want %q", sub.AIComment, analysis.Explanation)
	}
	if len(sub.Alternatives) != 1 || sub.Alternatives[0] != "Diskriminant usuli" {
		t.Errorf("Alternatives = %v, want the analysis alternatives verbatim", sub.Alternatives)
	}
	if sub.StudentName != fix.student.FullName || sub.StudentClass != "9-A" {
		t.Errorf("student snapshot = %s/%s, want %s/9-A", sub.StudentName, sub.StudentClass, fix.student.FullName)
	}
	if !strings.HasPrefix(sub.FileURL, "data:application/pdf;base64,") {
		t.Errorf("FileURL = %q, want a data URL", sub.FileURL)
	}
	if sub.ReviewedAt != nil {
		t.Error("ReviewedAt set on a fresh submission")
	}
}

func TestService_Create_unknownTask(t *testing.T) {
	fix := setup(t, gradersvc.NewDummyService())

	_, err := fix.svc.Create(context.Background(), fix.student, submission.NewSubmission{
		TaskID:   "nope",
		FileType: "application/pdf",
		FileData: []byte("x"),
	})
	if err != task.ErrNotFound {
		t.Errorf("Create() error = %v, want %v", err, task.ErrNotFound)
	}
}

func TestService_Create_scoringFailure(t *testing.T) {
	fix := setup(t, gradersvc.NewFailingDummyService())

	_, err := fix.svc.Create(context.Background(), fix.student, submission.NewSubmission{
		TaskID:   fix.task.ID,
		FileType: "application/pdf",
		FileData: []byte("x"),
	})
	if !submission.IsScoringError(err) {
		t.Fatalf("Create() error = %v, want a ScoringError", err)
	}

	// nothing was persisted
	subs, err := fix.svc.QueryAll()
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("len(subs) = %d, want 0", len(subs))
	}
}

func TestService_Review(t *testing.T) {
	fix := setup(t, gradersvc.NewDummyService())
	sub, err := fix.svc.Create(context.Background(), fix.student, submission.NewSubmission{
		TaskID:   fix.task.ID,
		FileType: "application/pdf",
		FileData: []byte("x"),
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	got, err := fix.svc.Review(fix.teacher, sub.ID, submission.Review{
		Decision: submission.StatusRejected,
		Comment:  "redo part 2",
	})
	if err != nil {
		t.Fatalf("Review() failed: %v", err)
	}
	if got.Status != submission.StatusRejected {
		t.Errorf("Status = %s, want %s", got.Status, submission.StatusRejected)
	}
	if got.TeacherComment != "redo part 2" {
		t.Errorf("TeacherComment = %q, want %q", got.TeacherComment, "redo part 2")
	}
	if got.ReviewedAt == nil {
		t.Error("ReviewedAt not set")
	}

	// a terminal submission stays as is
	if _, err := fix.svc.Review(fix.teacher, sub.ID, submission.Review{Decision: submission.StatusApproved}); err != submission.ErrAlreadyReviewed {
		t.Errorf("Review() error = %v, want %v", err, submission.ErrAlreadyReviewed)
	}
}

func TestService_Review_emptyCommentKeepsPrior(t *testing.T) {
	fix := setup(t, gradersvc.NewDummyService())
	sub, err := fix.svc.Create(context.Background(), fix.student, submission.NewSubmission{
		TaskID:   fix.task.ID,
		FileType: "application/pdf",
		FileData: []byte("x"),
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// an empty comment means "no change", not "clear"
	got, err := fix.svc.Review(fix.teacher, sub.ID, submission.Review{Decision: submission.StatusApproved})
	if err != nil {
		t.Fatalf("Review() failed: %v", err)
	}
	if got.TeacherComment != "" {
		t.Errorf("TeacherComment = %q, want empty", got.TeacherComment)
	}
	if got.Status != submission.StatusApproved {
		t.Errorf("Status = %s, want %s", got.Status, submission.StatusApproved)
	}
}

func TestService_Review_ownership(t *testing.T) {
	fix := setup(t, gradersvc.NewDummyService())
	other := testutil.CreateUser(t, fix.usrRepo, "Guli Tosheva", "guli", "", "test", user.RoleTeacher, "Fizika", "")
	admin := testutil.CreateUser(t, fix.usrRepo, "Admin", "admin", "", "test", user.RoleAdmin, "", "")

	sub, err := fix.svc.Create(context.Background(), fix.student, submission.NewSubmission{
		TaskID:   fix.task.ID,
		FileType: "application/pdf",
		FileData: []byte("x"),
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// another teacher may not review it
	if _, err := fix.svc.Review(other, sub.ID, submission.Review{Decision: submission.StatusApproved}); err != submission.ErrNotTaskOwner {
		t.Errorf("Review() error = %v, want %v", err, submission.ErrNotTaskOwner)
	}

	// admins are exempt from the ownership check
	if _, err := fix.svc.Review(admin, sub.ID, submission.Review{Decision: submission.StatusApproved}); err != nil {
		t.Errorf("Review() by admin failed: %v", err)
	}
}

func TestService_Review_notifiesStudent(t *testing.T) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	usrRepo := inmemdb.NewUserRepository(db)
	tskRepo := inmemdb.NewTaskRepository(db)

	usrSvc := user.NewService(usrRepo)
	tskSvc := task.NewService(tskRepo)
	svc := submission.NewService(
		inmemdb.NewSubmissionRepository(db), tskSvc, usrSvc,
		gradersvc.NewDummyService(), emailsvc.NewConsoleServiceMock(),
	)

	teacher := testutil.CreateUser(t, usrRepo, "Olim Karimov", "olim", "", "test", user.RoleTeacher, "Matematika", "")
	student := testutil.CreateUser(t, usrRepo, "Bobur Aliyev", "bobur", "bobur@maktab.uz", "test", user.RoleStudent, "", "9-A")
	tsk := testutil.CreateTask(t, tskRepo, teacher, "9-A", task.TypeBSB, "Kvadrat tenglamalar")

	sub, err := svc.Create(context.Background(), student, submission.NewSubmission{
		TaskID:   tsk.ID,
		FileType: "application/pdf",
		FileData: []byte("x"),
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	emailsvc.SentMessages = nil
	if _, err := svc.Review(teacher, sub.ID, submission.Review{Decision: submission.StatusRejected, Comment: "redo part 2"}); err != nil {
		t.Fatalf("Review() failed: %v", err)
	}

	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("len(SentMessages) = %d, want 1", len(emailsvc.SentMessages))
	}
	msg := emailsvc.SentMessages[0]
	if len(msg.To) != 1 || msg.To[0].Address != student.Email {
		t.Errorf("To = %v, want %s", msg.To, student.Email)
	}
	if !strings.Contains(msg.TextContent, submission.StatusRejected) {
		t.Errorf("TextContent = %q, want the decision in it", msg.TextContent)
	}
	if !strings.Contains(msg.TextContent, "redo part 2") {
		t.Errorf("TextContent = %q, want the teacher comment in it", msg.TextContent)
	}
}

func TestService_Review_notFound(t *testing.T) {
	fix := setup(t, gradersvc.NewDummyService())
	if _, err := fix.svc.Review(fix.teacher, "nope", submission.Review{Decision: submission.StatusApproved}); err != submission.ErrNotFound {
		t.Errorf("Review() error = %v, want %v", err, submission.ErrNotFound)
	}
}
