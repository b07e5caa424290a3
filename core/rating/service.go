package rating

import "github.com/pkg/errors"

var ErrNotFound = errors.New("teacher rating not found")

type (
	// Repository persists ratings. UpdateRating writes the full record back,
	// class votes included, under a single storage transaction.
	Repository interface {
		CreateRating(rat TeacherRating) (TeacherRating, error)
		QueryAllRatings() ([]TeacherRating, error)
		GetRatingByTeacherID(teacherID string) (TeacherRating, error)
		UpdateRating(rat TeacherRating) (TeacherRating, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SubmitVote records one vote from className against teacherID. Votes carry no
// voter identity: every call is a distinct vote. An unknown teacher yields
// ErrNotFound and leaves the stored ratings untouched.
func (svc *Service) SubmitVote(teacherID, className, category string) error {
	rat, err := svc.repo.GetRatingByTeacherID(teacherID)
	if err != nil {
		return err
	}
	rat.record(className, category)
	if _, err := svc.repo.UpdateRating(rat); err != nil {
		return errors.Wrap(err, "saving rating")
	}
	return nil
}

func (svc *Service) QueryAll() ([]TeacherRating, error) {
	return svc.repo.QueryAllRatings()
}

func (svc *Service) GetByTeacherID(teacherID string) (TeacherRating, error) {
	return svc.repo.GetRatingByTeacherID(teacherID)
}
