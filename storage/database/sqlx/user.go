package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/maktabhub/maktab/core/user"
)

const uniqueViolation = "23505"

type userRow struct {
	ID           string       `db:"id"`
	Login        string       `db:"login"`
	FullName     string       `db:"full_name"`
	Email        string       `db:"email"`
	Role         string       `db:"role"`
	Subject      string       `db:"subject"`
	ClassName    string       `db:"class_name"`
	Avatar       string       `db:"avatar"`
	PasswordHash []byte       `db:"password_hash"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	LastLogin    sql.NullTime `db:"last_login"`
}

func (r userRow) toUser() user.User {
	usr := user.User{
		ID:           r.ID,
		Login:        r.Login,
		FullName:     r.FullName,
		Email:        r.Email,
		Role:         r.Role,
		Subject:      r.Subject,
		ClassName:    r.ClassName,
		Avatar:       r.Avatar,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
	if r.LastLogin.Valid {
		usr.LastLogin = r.LastLogin.Time.UTC()
	}
	return usr
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckLoginUniqueness(login string) error {
	var exists bool
	err := repo.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM users WHERE login = $1)`, login)
	if err != nil {
		return errors.Wrap(err, "checking login")
	}
	if exists {
		return user.ErrLoginExists
	}
	return nil
}

// CreateUser inserts the user and, for teachers, their zero-valued rating
// record in one transaction; neither row lands without the other.
func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	usr.ID = uuid.NewString()

	tx, err := repo.db.Beginx()
	if err != nil {
		return user.User{}, errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO users (id, login, full_name, email, role, subject, class_name, avatar, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		usr.ID, usr.Login, usr.FullName, usr.Email, usr.Role, usr.Subject, usr.ClassName, usr.Avatar,
		usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return user.User{}, user.ErrLoginExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}

	if usr.Role == user.RoleTeacher {
		if _, err = tx.Exec(`INSERT INTO teacher_ratings (teacher_id) VALUES ($1)`, usr.ID); err != nil {
			return user.User{}, errors.Wrap(err, "inserting teacher rating")
		}
	}

	if err = tx.Commit(); err != nil {
		return user.User{}, errors.Wrap(err, "committing tx")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	var rows []userRow
	if err := repo.db.Select(&rows, `SELECT * FROM users ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toUser())
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	var r userRow
	err := repo.db.Get(&r, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by id")
	}
	return r.toUser(), nil
}

func (repo *userRepository) GetUserByLogin(login string) (user.User, error) {
	var r userRow
	err := repo.db.Get(&r, `SELECT * FROM users WHERE login = $1`, login)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by login")
	}
	return r.toUser(), nil
}

func (repo *userRepository) UpdateUser(usr user.User) (user.User, error) {
	var lastLogin sql.NullTime
	if !usr.LastLogin.IsZero() {
		lastLogin = sql.NullTime{Time: usr.LastLogin, Valid: true}
	}
	res, err := repo.db.Exec(
		`UPDATE users SET email = $2, avatar = $3, password_hash = $4, updated_at = $5, last_login = $6 WHERE id = $1`,
		usr.ID, usr.Email, usr.Avatar, usr.PasswordHash, usr.UpdatedAt, lastLogin,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}
