package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/maktabhub/maktab/core"
	"github.com/maktabhub/maktab/core/submission"
	"github.com/maktabhub/maktab/core/task"
	gradersvc "github.com/maktabhub/maktab/services/grader"
	testutil "github.com/maktabhub/maktab/tests"
)

func Test_submissionApi_create(t *testing.T) {
	a := setup(t, gradersvc.NewDummyServiceWithResult(core.Analysis{
		Accuracy:     78,
		Errors:       []string{"2-misolda xato"},
		Explanation:  "Yechim qisman to'g'ri.",
		Alternatives: []string{"Diskriminant usuli"},
		Advice:       "2-misolni qayta ishlang.",
	}))
	student := registerStudent(t, a, "bobur", "9-A")
	teacher := registerTeacher(t, a, "olim", "Matematika")
	tsk := testutil.CreateTask(t, a.tskRepo, teacher, "9-A", task.TypeBSB, "Kvadrat tenglamalar")

	req, rec := newUploadRequest(t, "/v1/submissions", getToken(t, student), tsk.ID, "homework.pdf", "application/pdf", []byte("%PDF-1.4 test"))
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var sub submission.Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if sub.Status != submission.StatusPending {
		t.Errorf("Status = %s, want %s", sub.Status, submission.StatusPending)
	}
	if sub.Accuracy != 78 || sub.AIComment != "Yechim qisman to'g'ri." || sub.Advice != "2-misolni qayta ishlang." {
		t.Errorf("analysis not carried verbatim: %+v", sub)
	}
	if sub.StudentID != student.ID || sub.StudentClass != "9-A" {
		t.Errorf("student snapshot = %s/%s", sub.StudentID, sub.StudentClass)
	}

	// teachers may not upload
	req, rec = newUploadRequest(t, "/v1/submissions", getToken(t, teacher), tsk.ID, "homework.pdf", "application/pdf", []byte("x"))
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("code = %d, want %d", rec.Code, http.StatusForbidden)
	}

	// unknown task
	req, rec = newUploadRequest(t, "/v1/submissions", getToken(t, student), "nope", "homework.pdf", "application/pdf", []byte("x"))
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want %d; body: %s", rec.Code, http.StatusNotFound, rec.Body.String())
	}

	// no file part
	req2, rec2 := newAuthRequest(http.MethodPost, "/v1/submissions", getToken(t, student))
	a.app.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want %d; body: %s", rec2.Code, http.StatusBadRequest, rec2.Body.String())
	}
}

func Test_submissionApi_create_scoringFailure(t *testing.T) {
	a := setup(t, gradersvc.NewFailingDummyService())
	student := registerStudent(t, a, "bobur", "9-A")
	teacher := registerTeacher(t, a, "olim", "Matematika")
	tsk := testutil.CreateTask(t, a.tskRepo, teacher, "9-A", task.TypeBSB, "Kvadrat tenglamalar")

	req, rec := newUploadRequest(t, "/v1/submissions", getToken(t, student), tsk.ID, "homework.pdf", "application/pdf", []byte("x"))
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("code = %d, want %d; body: %s", rec.Code, http.StatusBadGateway, rec.Body.String())
	}

	// nothing was persisted
	subs, err := a.subRepo.QueryAllSubmissions()
	if err != nil {
		t.Fatalf("QueryAllSubmissions(): %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("len(subs) = %d, want 0", len(subs))
	}
}

func Test_submissionApi_query(t *testing.T) {
	a := setup(t, gradersvc.NewDummyService())
	student := registerStudent(t, a, "bobur", "9-A")
	other := registerStudent(t, a, "sitora", "9-B")
	teacher := registerTeacher(t, a, "olim", "Matematika")
	outsider := registerTeacher(t, a, "guli", "Fizika")
	admin := registerAdmin(t, a, "admin")

	tsk := testutil.CreateTask(t, a.tskRepo, teacher, "9-A", task.TypeBSB, "Kvadrat tenglamalar")
	testutil.CreateSubmission(t, a.subRepo, tsk, student, 78)
	testutil.CreateSubmission(t, a.subRepo, tsk, other, 90)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{name: "student sees own", token: getToken(t, student), want: 1},
		{name: "teacher sees own tasks'", token: getToken(t, teacher), want: 2},
		{name: "other teacher sees none", token: getToken(t, outsider), want: 0},
		{name: "admin sees all", token: getToken(t, admin), want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/submissions", tt.token)
			a.app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
			}
			var subs []submission.Submission
			if err := json.Unmarshal(rec.Body.Bytes(), &subs); err != nil {
				t.Fatalf("unmarshalling response: %v", err)
			}
			if len(subs) != tt.want {
				t.Errorf("len(subs) = %d, want %d", len(subs), tt.want)
			}
		})
	}
}

func Test_submissionApi_review(t *testing.T) {
	a := setup(t, gradersvc.NewDummyService())
	student := registerStudent(t, a, "bobur", "9-A")
	teacher := registerTeacher(t, a, "olim", "Matematika")
	outsider := registerTeacher(t, a, "guli", "Fizika")

	tsk := testutil.CreateTask(t, a.tskRepo, teacher, "9-A", task.TypeBSB, "Kvadrat tenglamalar")
	sub := testutil.CreateSubmission(t, a.subRepo, tsk, student, 78)

	body := []byte(`{"decision": "REJECTED", "comment": "redo part 2"}`)

	tests := []httpTest{
		{name: "Auth required", token: "", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Student may not review", token: getToken(t, student), body: body,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Owner only", token: getToken(t, outsider), body: body,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Bad decision", token: getToken(t, teacher), body: []byte(`{"decision": "MAYBE"}`), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, "/v1/submissions/"+sub.ID+"/review", tt.token, tt.body)
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

	req, rec := newAuthRequest(http.MethodPut, "/v1/submissions/"+sub.ID+"/review", getToken(t, teacher), body)
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var got submission.Submission
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if got.Status != submission.StatusRejected || got.TeacherComment != "redo part 2" || got.ReviewedAt == nil {
		t.Errorf("unexpected review result: %+v", got)
	}

	// terminal states stay put
	req, rec = newAuthRequest(http.MethodPut, "/v1/submissions/"+sub.ID+"/review", getToken(t, teacher), []byte(`{"decision": "APPROVED"}`))
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("code = %d, want %d; body: %s", rec.Code, http.StatusConflict, rec.Body.String())
	}

	// unknown submission
	req, rec = newAuthRequest(http.MethodPut, "/v1/submissions/nope/review", getToken(t, teacher), body)
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want %d; body: %s", rec.Code, http.StatusNotFound, rec.Body.String())
	}
}
