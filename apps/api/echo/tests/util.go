package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"reflect"
	"testing"

	. "github.com/maktabhub/maktab/apps/api/echo"
	"github.com/maktabhub/maktab/core"
	"github.com/maktabhub/maktab/core/rating"
	"github.com/maktabhub/maktab/core/stats"
	"github.com/maktabhub/maktab/core/submission"
	"github.com/maktabhub/maktab/core/task"
	"github.com/maktabhub/maktab/core/user"
	inmemdb "github.com/maktabhub/maktab/storage/database/inmem"
	testutil "github.com/maktabhub/maktab/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	app     Server
	usrRepo user.Repository
	tskRepo task.Repository
	subRepo submission.Repository
	usrSvc  *user.Service
	ratSvc  *rating.Service
}

func setup(t *testing.T, grader core.Grader) testApp {
	core.Conf.Debug = false
	core.Conf.TestMode = true

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup(): %v", err)
	}
	usrRepo := inmemdb.NewUserRepository(db)
	tskRepo := inmemdb.NewTaskRepository(db)
	subRepo := inmemdb.NewSubmissionRepository(db)

	usrSvc := user.NewService(usrRepo)
	ratSvc := rating.NewService(inmemdb.NewRatingRepository(db))
	tskSvc := task.NewService(tskRepo)
	subSvc := submission.NewService(subRepo, tskSvc, usrSvc, grader, nil)
	statsSvc := stats.NewService(usrSvc, ratSvc, subSvc)

	validate, translator := testutil.NewValidators()

	app := NewServer(
		ServerDeps{
			DisableReqLogs: true,
			Logger:         testutil.NewTestLogger(),
			Validate:       validate,
			Translator:     translator,
			UserSvc:        usrSvc,
			RatingSvc:      ratSvc,
			TaskSvc:        tskSvc,
			SubmissionSvc:  subSvc,
			StatsSvc:       statsSvc,
		},
	)

	return testApp{
		app:     app,
		usrRepo: usrRepo,
		tskRepo: tskRepo,
		subRepo: subRepo,
		usrSvc:  usrSvc,
		ratSvc:  ratSvc,
	}
}

func registerStudent(t *testing.T, a testApp, login, className string) user.User {
	t.Helper()
	usr, err := a.usrSvc.Register(user.NewUser{
		FullName:  login + " student",
		Login:     login,
		Password:  "s3cret",
		Role:      user.RoleStudent,
		ClassName: className,
	})
	if err != nil {
		t.Fatalf("registerStudent(): %v", err)
	}
	return usr
}

func registerTeacher(t *testing.T, a testApp, login, subject string) user.User {
	t.Helper()
	usr, err := a.usrSvc.Register(user.NewUser{
		FullName: login + " teacher",
		Login:    login,
		Password: "s3cret",
		Role:     user.RoleTeacher,
		Subject:  subject,
	})
	if err != nil {
		t.Fatalf("registerTeacher(): %v", err)
	}
	return usr
}

func registerAdmin(t *testing.T, a testApp, login string) user.User {
	t.Helper()
	usr, err := a.usrSvc.Register(user.NewUser{
		FullName: login,
		Login:    login,
		Password: "s3cret",
		Role:     user.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("registerAdmin(): %v", err)
	}
	return usr
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// newUploadRequest builds a multipart homework upload.
func newUploadRequest(t *testing.T, path, token, taskID, filename, contentType string, fileData []byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := w.WriteField("task_id", taskID); err != nil {
		t.Fatalf("newUploadRequest(): %v", err)
	}

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatalf("newUploadRequest(): %v", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(fileData)); err != nil {
		t.Fatalf("newUploadRequest(): %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("newUploadRequest(): %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
