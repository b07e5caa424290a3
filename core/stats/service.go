// Package stats derives the admin dashboard aggregates. Nothing here is
// persisted; every figure is recomputed from the collections at read time.
package stats

import (
	"github.com/pkg/errors"

	"github.com/maktabhub/maktab/core/rating"
	"github.com/maktabhub/maktab/core/submission"
	"github.com/maktabhub/maktab/core/user"
)

type (
	// TeacherVotes is one chart row of the overall stats board.
	TeacherVotes struct {
		TeacherID   string `json:"teacher_id"`
		TeacherName string `json:"teacher_name"`
		Excellent   int    `json:"excellent"`
		Satisfied   int    `json:"satisfied"`
		Unsatisfied int    `json:"unsatisfied"`
	}

	Overview struct {
		TotalUsers       int            `json:"total_users"`
		TotalSubmissions int            `json:"total_submissions"`
		TotalTeachers    int            `json:"total_teachers"`
		TeacherVotes     []TeacherVotes `json:"teacher_votes"`
	}

	Service struct {
		usrSvc *user.Service
		ratSvc *rating.Service
		subSvc *submission.Service
	}
)

func NewService(usrSvc *user.Service, ratSvc *rating.Service, subSvc *submission.Service) *Service {
	return &Service{usrSvc: usrSvc, ratSvc: ratSvc, subSvc: subSvc}
}

func (svc *Service) Overview() (Overview, error) {
	users, err := svc.usrSvc.QueryAll()
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying users")
	}
	subs, err := svc.subSvc.QueryAll()
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying submissions")
	}
	ratings, err := svc.ratSvc.QueryAll()
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying ratings")
	}

	names := make(map[string]string, len(users))
	for _, usr := range users {
		names[usr.ID] = usr.FullName
	}

	votes := make([]TeacherVotes, 0, len(ratings))
	for _, rat := range ratings {
		votes = append(votes, TeacherVotes{
			TeacherID:   rat.TeacherID,
			TeacherName: names[rat.TeacherID],
			Excellent:   rat.Excellent,
			Satisfied:   rat.Satisfied,
			Unsatisfied: rat.Unsatisfied,
		})
	}

	return Overview{
		TotalUsers:       len(users),
		TotalSubmissions: len(subs),
		TotalTeachers:    len(ratings),
		TeacherVotes:     votes,
	}, nil
}
