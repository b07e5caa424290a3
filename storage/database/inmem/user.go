package inmemdb

import (
	"github.com/google/uuid"

	"github.com/maktabhub/maktab/core/rating"
	"github.com/maktabhub/maktab/core/user"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckLoginUniqueness(login string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.users {
		if usr.Login == login {
			return user.ErrLoginExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, u := range repo.db.users {
		if u.Login == usr.Login {
			return user.User{}, user.ErrLoginExists
		}
	}

	usr.ID = uuid.NewString()
	repo.db.users = append(repo.db.users, &usr)

	// a teacher's rating record is born with them
	if usr.Role == user.RoleTeacher {
		rat := rating.NewTeacherRating(usr.ID)
		repo.db.ratings = append(repo.db.ratings, &rat)
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	users := make([]user.User, 0, len(repo.db.users))
	for _, usr := range repo.db.users {
		users = append(users, *usr)
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.users {
		if usr.ID == id {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByLogin(login string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.users {
		if usr.Login == login {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i, u := range repo.db.users {
		if u.ID == usr.ID {
			repo.db.users[i] = &usr
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}
