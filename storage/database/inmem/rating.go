package inmemdb

import "github.com/maktabhub/maktab/core/rating"

type ratingRepository struct {
	db *DB
}

func NewRatingRepository(db *DB) rating.Repository {
	return &ratingRepository{db: db}
}

func (repo *ratingRepository) CreateRating(rat rating.TeacherRating) (rating.TeacherRating, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.ratings = append(repo.db.ratings, &rat)
	return rat, nil
}

func (repo *ratingRepository) QueryAllRatings() ([]rating.TeacherRating, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ratings := make([]rating.TeacherRating, 0, len(repo.db.ratings))
	for _, rat := range repo.db.ratings {
		ratings = append(ratings, copyRating(*rat))
	}
	return ratings, nil
}

func (repo *ratingRepository) GetRatingByTeacherID(teacherID string) (rating.TeacherRating, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, rat := range repo.db.ratings {
		if rat.TeacherID == teacherID {
			return copyRating(*rat), nil
		}
	}
	return rating.TeacherRating{}, rating.ErrNotFound
}

func (repo *ratingRepository) UpdateRating(rat rating.TeacherRating) (rating.TeacherRating, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i, r := range repo.db.ratings {
		if r.TeacherID == rat.TeacherID {
			stored := copyRating(rat)
			repo.db.ratings[i] = &stored
			return rat, nil
		}
	}
	return rating.TeacherRating{}, rating.ErrNotFound
}

// copyRating snapshots the class vote slice so callers never share backing arrays.
func copyRating(rat rating.TeacherRating) rating.TeacherRating {
	votes := make([]rating.ClassVote, len(rat.VotesByClass))
	copy(votes, rat.VotesByClass)
	rat.VotesByClass = votes
	return rat
}
