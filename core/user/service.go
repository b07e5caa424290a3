package user

import (
	"time"

	"github.com/pkg/errors"

	"github.com/maktabhub/maktab/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrLoginExists = errors.New("a user with this login already exists")
)

type (
	// Repository persists users. CreateUser must also provision the zero-valued
	// rating record when the new user is a teacher, in the same storage transaction.
	Repository interface {
		CheckLoginUniqueness(login string) error
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByLogin(login string) (User, error)
		UpdateUser(usr User) (User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkLoginUniqueness(login string) error {
	if err := svc.repo.CheckLoginUniqueness(login); err != nil {
		if err == ErrLoginExists {
			return core.NewValidationError(err, core.FieldError{Field: "login", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Register creates a User from nu. Registering a teacher also creates their
// zero-valued rating record; both writes land atomically or not at all.
func (svc *Service) Register(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Login:     nu.Login,
		FullName:  nu.FullName,
		Email:     nu.Email,
		Role:      nu.Role,
		Subject:   nu.Subject,
		ClassName: nu.ClassName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(usr)
}

// Authenticate checks a login/password pair and returns the matching User.
// A bad login and a bad password are indistinguishable: both yield ErrNotFound.
func (svc *Service) Authenticate(creds Credentials) (User, error) {
	usr, err := svc.repo.GetUserByLogin(creds.Login)
	if err != nil {
		return User{}, err
	}
	if err := usr.CheckPassword(creds.Password); err != nil {
		return User{}, ErrNotFound
	}
	return usr, nil
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByLogin(login string) (User, error) {
	return svc.repo.GetUserByLogin(core.CleanString(login))
}

func (svc *Service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(usr)
}

// SetPassword re-hashes and stores a user's password. There is no in-app
// password change; this backs the admin CLI only.
func (svc *Service) SetPassword(usr User, pwd string) (User, error) {
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(usr)
}
