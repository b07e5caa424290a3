package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/maktabhub/maktab/core/rating"
)

type ratingRow struct {
	TeacherID   string `db:"teacher_id"`
	Excellent   int    `db:"excellent"`
	Satisfied   int    `db:"satisfied"`
	Unsatisfied int    `db:"unsatisfied"`
}

type classVoteRow struct {
	ID          int64  `db:"id"`
	TeacherID   string `db:"teacher_id"`
	ClassName   string `db:"class_name"`
	Excellent   int    `db:"excellent"`
	Satisfied   int    `db:"satisfied"`
	Unsatisfied int    `db:"unsatisfied"`
}

type ratingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) rating.Repository {
	return &ratingRepository{db: db}
}

func (repo *ratingRepository) CreateRating(rat rating.TeacherRating) (rating.TeacherRating, error) {
	_, err := repo.db.Exec(
		`INSERT INTO teacher_ratings (teacher_id, excellent, satisfied, unsatisfied) VALUES ($1, $2, $3, $4)`,
		rat.TeacherID, rat.Excellent, rat.Satisfied, rat.Unsatisfied,
	)
	if err != nil {
		return rating.TeacherRating{}, errors.Wrap(err, "inserting rating")
	}
	return rat, nil
}

func (repo *ratingRepository) QueryAllRatings() ([]rating.TeacherRating, error) {
	var rows []ratingRow
	if err := repo.db.Select(&rows, `SELECT * FROM teacher_ratings`); err != nil {
		return nil, errors.Wrap(err, "querying ratings")
	}

	var voteRows []classVoteRow
	if err := repo.db.Select(&voteRows, `SELECT * FROM class_votes ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying class votes")
	}
	votesByTeacher := make(map[string][]rating.ClassVote)
	for _, v := range voteRows {
		votesByTeacher[v.TeacherID] = append(votesByTeacher[v.TeacherID], rating.ClassVote{
			ClassName:   v.ClassName,
			Excellent:   v.Excellent,
			Satisfied:   v.Satisfied,
			Unsatisfied: v.Unsatisfied,
		})
	}

	ratings := make([]rating.TeacherRating, 0, len(rows))
	for _, r := range rows {
		rat := rating.TeacherRating{
			TeacherID:    r.TeacherID,
			Excellent:    r.Excellent,
			Satisfied:    r.Satisfied,
			Unsatisfied:  r.Unsatisfied,
			VotesByClass: votesByTeacher[r.TeacherID],
		}
		if rat.VotesByClass == nil {
			rat.VotesByClass = []rating.ClassVote{}
		}
		ratings = append(ratings, rat)
	}
	return ratings, nil
}

func (repo *ratingRepository) GetRatingByTeacherID(teacherID string) (rating.TeacherRating, error) {
	var r ratingRow
	err := repo.db.Get(&r, `SELECT * FROM teacher_ratings WHERE teacher_id = $1`, teacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return rating.TeacherRating{}, rating.ErrNotFound
		}
		return rating.TeacherRating{}, errors.Wrap(err, "getting rating")
	}

	var voteRows []classVoteRow
	err = repo.db.Select(&voteRows, `SELECT * FROM class_votes WHERE teacher_id = $1 ORDER BY id`, teacherID)
	if err != nil {
		return rating.TeacherRating{}, errors.Wrap(err, "querying class votes")
	}

	rat := rating.TeacherRating{
		TeacherID:    r.TeacherID,
		Excellent:    r.Excellent,
		Satisfied:    r.Satisfied,
		Unsatisfied:  r.Unsatisfied,
		VotesByClass: make([]rating.ClassVote, 0, len(voteRows)),
	}
	for _, v := range voteRows {
		rat.VotesByClass = append(rat.VotesByClass, rating.ClassVote{
			ClassName:   v.ClassName,
			Excellent:   v.Excellent,
			Satisfied:   v.Satisfied,
			Unsatisfied: v.Unsatisfied,
		})
	}
	return rat, nil
}

// UpdateRating writes the full record back: global counters plus an upsert of
// every class vote line, all in one transaction.
func (repo *ratingRepository) UpdateRating(rat rating.TeacherRating) (rating.TeacherRating, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return rating.TeacherRating{}, errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(
		`UPDATE teacher_ratings SET excellent = $2, satisfied = $3, unsatisfied = $4 WHERE teacher_id = $1`,
		rat.TeacherID, rat.Excellent, rat.Satisfied, rat.Unsatisfied,
	)
	if err != nil {
		return rating.TeacherRating{}, errors.Wrap(err, "updating rating")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return rating.TeacherRating{}, rating.ErrNotFound
	}

	for _, v := range rat.VotesByClass {
		_, err = tx.Exec(
			`INSERT INTO class_votes (teacher_id, class_name, excellent, satisfied, unsatisfied)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (teacher_id, class_name)
			 DO UPDATE SET excellent = $3, satisfied = $4, unsatisfied = $5`,
			rat.TeacherID, v.ClassName, v.Excellent, v.Satisfied, v.Unsatisfied,
		)
		if err != nil {
			return rating.TeacherRating{}, errors.Wrap(err, "upserting class vote")
		}
	}

	if err = tx.Commit(); err != nil {
		return rating.TeacherRating{}, errors.Wrap(err, "committing tx")
	}
	return rat, nil
}
