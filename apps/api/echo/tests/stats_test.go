package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/maktabhub/maktab/core/rating"
	"github.com/maktabhub/maktab/core/stats"
	"github.com/maktabhub/maktab/core/task"
	gradersvc "github.com/maktabhub/maktab/services/grader"
	testutil "github.com/maktabhub/maktab/tests"
)

func Test_statsApi_overview(t *testing.T) {
	a := setup(t, gradersvc.NewDummyService())
	student := registerStudent(t, a, "bobur", "9-A")
	teacher := registerTeacher(t, a, "olim", "Matematika")
	admin := registerAdmin(t, a, "admin")

	tsk := testutil.CreateTask(t, a.tskRepo, teacher, "9-A", task.TypeBSB, "Kvadrat tenglamalar")
	testutil.CreateSubmission(t, a.subRepo, tsk, student, 78)
	if err := a.ratSvc.SubmitVote(teacher.ID, "9-A", rating.CategoryExcellent); err != nil {
		t.Fatalf("SubmitVote(): %v", err)
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, teacher), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/stats", tt.token)
			a.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/stats", getToken(t, admin))
	a.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var ov stats.Overview
	if err := json.Unmarshal(rec.Body.Bytes(), &ov); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if ov.TotalUsers != 3 || ov.TotalSubmissions != 1 || ov.TotalTeachers != 1 {
		t.Errorf("totals = %d/%d/%d, want 3/1/1", ov.TotalUsers, ov.TotalSubmissions, ov.TotalTeachers)
	}
	if len(ov.TeacherVotes) != 1 || ov.TeacherVotes[0].Excellent != 1 {
		t.Errorf("TeacherVotes = %+v, want one row with 1 excellent", ov.TeacherVotes)
	}
}
