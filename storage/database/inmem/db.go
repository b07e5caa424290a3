// Package inmemdb provides in-memory repositories backing tests and local dev.
// All collections live behind one lock so multi-record writes (teacher
// registration) stay atomic, like their SQL counterparts.
package inmemdb

import (
	"sync"

	"github.com/maktabhub/maktab/core/rating"
	"github.com/maktabhub/maktab/core/submission"
	"github.com/maktabhub/maktab/core/task"
	"github.com/maktabhub/maktab/core/user"
)

type DB struct {
	mutex       sync.RWMutex
	users       []*user.User
	ratings     []*rating.TeacherRating
	tasks       []*task.Task
	submissions []*submission.Submission
}

func Open() (*DB, error) {
	return &DB{}, nil
}
