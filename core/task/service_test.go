package task_test

import (
	"testing"
	"time"

	"github.com/maktabhub/maktab/core/task"
	"github.com/maktabhub/maktab/core/user"
	inmemdb "github.com/maktabhub/maktab/storage/database/inmem"
	testutil "github.com/maktabhub/maktab/tests"
)

func setup(t *testing.T) (*task.Service, user.User) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	teacher := testutil.CreateUser(t, inmemdb.NewUserRepository(db), "Olim Karimov", "olim", "", "test", user.RoleTeacher, "Matematika", "")
	return task.NewService(inmemdb.NewTaskRepository(db)), teacher
}

func TestService_Create(t *testing.T) {
	svc, teacher := setup(t)

	tsk, err := svc.Create(teacher, task.NewTask{
		ClassName: "9-A",
		Type:      task.TypeBSB,
		Title:     "Kvadrat tenglamalar",
		Deadline:  time.Now().UTC().AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if tsk.ID == "" {
		t.Error("Create() did not assign an ID")
	}

	// owner identity comes from the caller, never the payload
	if tsk.TeacherID != teacher.ID || tsk.TeacherName != teacher.FullName || tsk.Subject != teacher.Subject {
		t.Errorf("owner snapshot = %s/%s/%s, want the teacher's", tsk.TeacherID, tsk.TeacherName, tsk.Subject)
	}
}

func TestService_Query(t *testing.T) {
	svc, teacher := setup(t)

	for _, tt := range []struct{ class, title string }{
		{"9-A", "first"},
		{"9-B", "second"},
		{"9-A", "third"},
	} {
		if _, err := svc.Create(teacher, task.NewTask{
			ClassName: tt.class,
			Type:      task.TypeOddiy,
			Title:     tt.title,
			Deadline:  time.Now().UTC().AddDate(0, 0, 7),
		}); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	// newest first
	all, err := svc.QueryAll()
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	if all[0].Title != "third" || all[2].Title != "first" {
		t.Errorf("order = %s..%s, want third..first", all[0].Title, all[2].Title)
	}

	nineA, err := svc.FilterByClass("9-A")
	if err != nil {
		t.Fatalf("FilterByClass() failed: %v", err)
	}
	if len(nineA) != 2 {
		t.Fatalf("len(nineA) = %d, want 2", len(nineA))
	}
	if nineA[0].Title != "third" || nineA[1].Title != "first" {
		t.Errorf("order = %s, %s; want third, first", nineA[0].Title, nineA[1].Title)
	}

	if _, err := svc.GetByID("nope"); err != task.ErrNotFound {
		t.Errorf("GetByID() error = %v, want %v", err, task.ErrNotFound)
	}
}
