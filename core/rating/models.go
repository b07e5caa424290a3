package rating

import (
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/maktabhub/maktab/core"
)

// Vote categories
const (
	CategoryExcellent   = "EXCELLENT"
	CategorySatisfied   = "SATISFIED"
	CategoryUnsatisfied = "UNSATISFIED"
)

type (
	// ClassVote tallies one class's votes for one teacher.
	// At most one ClassVote exists per distinct class name within a rating.
	ClassVote struct {
		ClassName   string `json:"class_name"`
		Excellent   int    `json:"excellent"`
		Satisfied   int    `json:"satisfied"`
		Unsatisfied int    `json:"unsatisfied"`
	}

	// TeacherRating holds a teacher's global vote counters and the per-class
	// breakdown. Counters only ever increase; the sum of the global counters
	// always equals the sum over VotesByClass of the same category.
	TeacherRating struct {
		TeacherID    string      `json:"teacher_id"`
		Excellent    int         `json:"excellent"`
		Satisfied    int         `json:"satisfied"`
		Unsatisfied  int         `json:"unsatisfied"`
		VotesByClass []ClassVote `json:"votes_by_class"`
	}

	// Breakdown is the derived percentage share per category. It is never
	// persisted; rounding may make the shares not sum to exactly 100.
	Breakdown struct {
		Excellent   int `json:"excellent"`
		Satisfied   int `json:"satisfied"`
		Unsatisfied int `json:"unsatisfied"`
	}
)

func NewTeacherRating(teacherID string) TeacherRating {
	return TeacherRating{TeacherID: teacherID, VotesByClass: []ClassVote{}}
}

func (r TeacherRating) Total() int {
	return r.Excellent + r.Satisfied + r.Unsatisfied
}

// record applies one vote: the matching global counter and the matching counter
// of the voter class's ClassVote (created lazily, in arrival order) each go up by 1.
func (r *TeacherRating) record(className, category string) {
	idx := -1
	for i := range r.VotesByClass {
		if r.VotesByClass[i].ClassName == className {
			idx = i
			break
		}
	}
	if idx == -1 {
		r.VotesByClass = append(r.VotesByClass, ClassVote{ClassName: className})
		idx = len(r.VotesByClass) - 1
	}

	switch category {
	case CategoryExcellent:
		r.Excellent++
		r.VotesByClass[idx].Excellent++
	case CategorySatisfied:
		r.Satisfied++
		r.VotesByClass[idx].Satisfied++
	case CategoryUnsatisfied:
		r.Unsatisfied++
		r.VotesByClass[idx].Unsatisfied++
	}
}

// GetBreakdown derives each category's rounded percentage share.
// A teacher with no votes gets all-zero shares.
func (r TeacherRating) GetBreakdown() Breakdown {
	total := r.Total()
	if total == 0 {
		return Breakdown{}
	}
	pct := func(count int) int {
		return int(math.Round(100 * float64(count) / float64(total)))
	}
	return Breakdown{
		Excellent:   pct(r.Excellent),
		Satisfied:   pct(r.Satisfied),
		Unsatisfied: pct(r.Unsatisfied),
	}
}

// NewVote is one vote against a teacher. The voting class is always the
// voter's own, never part of the payload.
type NewVote struct {
	Category string `json:"category" validate:"required,oneof=EXCELLENT SATISFIED UNSATISFIED"`
}

func (nv *NewVote) Validate(validate *validator.Validate) error {
	nv.Category = core.CleanString(nv.Category)
	return validate.Struct(nv)
}
