package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/maktabhub/maktab/core/task"
	gradersvc "github.com/maktabhub/maktab/services/grader"
)

func Test_taskApi_create(t *testing.T) {
	a := setup(t, gradersvc.NewDummyService())
	student := registerStudent(t, a, "bobur", "9-A")
	teacher := registerTeacher(t, a, "olim", "Matematika")

	deadline := time.Now().UTC().AddDate(0, 0, 7).Format(time.RFC3339)
	body := []byte(`{
		"class_name": "9-A",
		"type": "BSB",
		"title": "Kvadrat tenglamalar",
		"description": "1-10 misollar",
		"deadline": "` + deadline + `"
	}`)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Teacher required", token: getToken(t, student), body: body,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Bad type", token: getToken(t, teacher), body: []byte(`{"class_name": "9-A", "type": "QUIZ", "title": "x", "deadline": "` + deadline + `"}`), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/tasks", tt.token, tt.body)
			a.app.ServeHTTP(rec, req)
			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Errorf("code = %d, want %d; body: %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	req, rec := newAuthRequest(http.MethodPost, "/v1/tasks", getToken(t, teacher), body)
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var tsk task.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &tsk); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if tsk.TeacherID != teacher.ID || tsk.TeacherName != teacher.FullName || tsk.Subject != "Matematika" {
		t.Errorf("owner snapshot = %s/%s/%s, want the teacher's", tsk.TeacherID, tsk.TeacherName, tsk.Subject)
	}
}

func Test_taskApi_query(t *testing.T) {
	a := setup(t, gradersvc.NewDummyService())
	student := registerStudent(t, a, "bobur", "9-A")
	teacher := registerTeacher(t, a, "olim", "Matematika")
	tskSvc := task.NewService(a.tskRepo)

	for _, tt := range []struct{ class, title string }{
		{"9-A", "first"},
		{"9-B", "second"},
		{"9-A", "third"},
	} {
		if _, err := tskSvc.Create(teacher, task.NewTask{
			ClassName: tt.class,
			Type:      task.TypeOddiy,
			Title:     tt.title,
			Deadline:  time.Now().UTC().AddDate(0, 0, 7),
		}); err != nil {
			t.Fatalf("Create(): %v", err)
		}
	}

	// teachers see every task, newest first
	req, rec := newAuthRequest(http.MethodGet, "/v1/tasks", getToken(t, teacher))
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var tasks []task.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(tasks) != 3 || tasks[0].Title != "third" {
		t.Errorf("teacher view = %d tasks, first %q; want 3, third", len(tasks), tasks[0].Title)
	}

	// students only see their class
	req, rec = newAuthRequest(http.MethodGet, "/v1/tasks", getToken(t, student))
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("student view = %d tasks, want 2", len(tasks))
	}
	for _, tsk := range tasks {
		if tsk.ClassName != "9-A" {
			t.Errorf("student sees task for class %s", tsk.ClassName)
		}
	}

	// staff can narrow the listing to one class
	req, rec = newAuthRequest(http.MethodGet, "/v1/tasks?class_name=9-B", getToken(t, teacher))
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "second" {
		t.Errorf("filtered view = %d tasks, want just the 9-B one", len(tasks))
	}
}
