package rating_test

import (
	"testing"

	"github.com/maktabhub/maktab/core/rating"
	"github.com/maktabhub/maktab/core/user"
	inmemdb "github.com/maktabhub/maktab/storage/database/inmem"
	testutil "github.com/maktabhub/maktab/tests"
)

func setup(t *testing.T) (*rating.Service, user.Repository) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return rating.NewService(inmemdb.NewRatingRepository(db)), inmemdb.NewUserRepository(db)
}

func TestService_SubmitVote(t *testing.T) {
	svc, usrRepo := setup(t)
	tchr := testutil.CreateUser(t, usrRepo, "Olim Karimov", "olim", "", "test", user.RoleTeacher, "Matematika", "")

	// registration provisions a zero-valued rating
	rat, err := svc.GetByTeacherID(tchr.ID)
	if err != nil {
		t.Fatalf("GetByTeacherID() failed: %v", err)
	}
	if rat.Total() != 0 || len(rat.VotesByClass) != 0 {
		t.Errorf("fresh rating not zero-valued: %+v", rat)
	}

	votes := []struct {
		className string
		category  string
	}{
		{"9-A", rating.CategoryExcellent},
		{"9-A", rating.CategorySatisfied},
		{"9-B", rating.CategoryExcellent},
		{"9-A", rating.CategoryExcellent},
	}
	for _, v := range votes {
		if err := svc.SubmitVote(tchr.ID, v.className, v.category); err != nil {
			t.Fatalf("SubmitVote() failed: %v", err)
		}
	}

	rat, err = svc.GetByTeacherID(tchr.ID)
	if err != nil {
		t.Fatalf("GetByTeacherID() failed: %v", err)
	}
	if rat.Excellent != 3 || rat.Satisfied != 1 || rat.Unsatisfied != 0 {
		t.Errorf("counters = %d/%d/%d, want 3/1/0", rat.Excellent, rat.Satisfied, rat.Unsatisfied)
	}
	if len(rat.VotesByClass) != 2 {
		t.Fatalf("len(VotesByClass) = %d, want 2", len(rat.VotesByClass))
	}
	if cv := rat.VotesByClass[0]; cv.ClassName != "9-A" || cv.Excellent != 2 || cv.Satisfied != 1 {
		t.Errorf("9-A tally = %+v, want 2 excellent, 1 satisfied", cv)
	}
	if cv := rat.VotesByClass[1]; cv.ClassName != "9-B" || cv.Excellent != 1 {
		t.Errorf("9-B tally = %+v, want 1 excellent", cv)
	}

	// no voter dedup: same voter class voting again still counts
	if err := svc.SubmitVote(tchr.ID, "9-A", rating.CategoryExcellent); err != nil {
		t.Fatalf("SubmitVote() failed: %v", err)
	}
	rat, _ = svc.GetByTeacherID(tchr.ID)
	if rat.Total() != 5 {
		t.Errorf("Total() = %d, want 5", rat.Total())
	}
}

func TestService_SubmitVote_unknownTeacher(t *testing.T) {
	svc, usrRepo := setup(t)
	tchr := testutil.CreateUser(t, usrRepo, "Olim Karimov", "olim", "", "test", user.RoleTeacher, "Matematika", "")
	if err := svc.SubmitVote(tchr.ID, "9-A", rating.CategoryExcellent); err != nil {
		t.Fatalf("SubmitVote() failed: %v", err)
	}

	if err := svc.SubmitVote("nope", "9-A", rating.CategoryExcellent); err != rating.ErrNotFound {
		t.Errorf("SubmitVote() error = %v, want %v", err, rating.ErrNotFound)
	}

	// the store is untouched
	ratings, err := svc.QueryAll()
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(ratings) != 1 {
		t.Fatalf("len(ratings) = %d, want 1", len(ratings))
	}
	if ratings[0].Total() != 1 {
		t.Errorf("Total() = %d, want 1", ratings[0].Total())
	}
}
