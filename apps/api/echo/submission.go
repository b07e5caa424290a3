package echoapi

import (
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/maktabhub/maktab/core/submission"
	"github.com/maktabhub/maktab/core/user"
)

type submissionApi struct {
	svc      *submission.Service
	usrSvc   *user.Service
	validate *validator.Validate
}

func registerSubmissionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := submissionApi{
		svc:      deps.SubmissionSvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
	}

	sg := g.Group("/submissions", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create, studentMiddleware())
	sg.PUT("/:id/review", api.review, teacherMiddleware())
}

// Handlers

// create accepts a multipart form with a "task_id" field and a "file" part.
func (api *submissionApi) create(ctx echo.Context) error {
	student, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	data := submission.NewSubmission{
		TaskID: ctx.FormValue("task_id"),
	}

	fh, err := ctx.FormFile("file")
	if err == nil {
		f, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening uploaded file")
		}
		defer f.Close()

		data.FileData, err = io.ReadAll(f)
		if err != nil {
			return errors.Wrap(err, "reading uploaded file")
		}
		data.FileType = fh.Header.Get("Content-Type")
		if data.FileType == "" {
			data.FileType = http.DetectContentType(data.FileData)
		}
	}

	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Create(ctx.Request().Context(), student, data)
	if err != nil {
		return errors.Wrap(err, "creating submission")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

// query lists submissions newest first, scoped to the caller's role:
// students see their own, teachers those against their tasks, admins all.
func (api *submissionApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var subs []submission.Submission
	switch {
	case usr.IsStudent():
		subs, err = api.svc.FilterByStudent(usr.ID)
	case usr.IsTeacher():
		subs, err = api.svc.FilterByTeacher(usr.ID)
	default:
		subs, err = api.svc.QueryAll()
	}
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []submission.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *submissionApi) review(ctx echo.Context) error {
	var data submission.Review
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Review")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	reviewer, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	sub, err := api.svc.Review(reviewer, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "reviewing submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}
