package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/maktabhub/maktab/core/rating"
	"github.com/maktabhub/maktab/core/user"
)

type teacherApi struct {
	usrSvc   *user.Service
	ratSvc   *rating.Service
	validate *validator.Validate
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := teacherApi{
		usrSvc:   deps.UserSvc,
		ratSvc:   deps.RatingSvc,
		validate: deps.Validate,
	}

	tg := g.Group("/teachers", jwt)
	tg.GET("", api.query)
	tg.POST("/:id/votes", api.vote, studentMiddleware())
}

// TeacherResponse joins a teacher's profile with their vote tally.
type TeacherResponse struct {
	ID        string               `json:"id"`
	FullName  string               `json:"full_name"`
	Subject   string               `json:"subject"`
	Avatar    string               `json:"avatar,omitempty"`
	Rating    rating.TeacherRating `json:"rating"`
	Breakdown rating.Breakdown     `json:"breakdown"`
}

// Handlers

func (api *teacherApi) query(ctx echo.Context) error {
	users, err := api.usrSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	ratings, err := api.ratSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying ratings")
	}

	ratingsByID := make(map[string]rating.TeacherRating, len(ratings))
	for _, r := range ratings {
		ratingsByID[r.TeacherID] = r
	}

	teachers := make([]TeacherResponse, 0)
	for _, usr := range users {
		if !usr.IsTeacher() {
			continue
		}
		r, ok := ratingsByID[usr.ID]
		if !ok {
			r = rating.NewTeacherRating(usr.ID)
		}
		teachers = append(teachers, TeacherResponse{
			ID:        usr.ID,
			FullName:  usr.FullName,
			Subject:   usr.Subject,
			Avatar:    usr.Avatar,
			Rating:    r,
			Breakdown: r.GetBreakdown(),
		})
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) vote(ctx echo.Context) error {
	var data rating.NewVote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVote")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	// the vote counts against the voter's own class
	voter, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err := api.ratSvc.SubmitVote(ctx.Param("id"), voter.ClassName, data.Category); err != nil {
		return errors.Wrap(err, "submitting vote")
	}

	r, err := api.ratSvc.GetByTeacherID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting rating")
	}
	return ctx.JSON(http.StatusOK, r)
}
