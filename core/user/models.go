package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/maktabhub/maktab/core"
)

// Roles
const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleAdmin   = "ADMIN"
)

var AllRoles = []string{RoleStudent, RoleTeacher, RoleAdmin}

type User struct {
	ID           string    `json:"id"`
	Login        string    `json:"login"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role"`
	Subject      string    `json:"subject,omitempty"`    // teachers
	ClassName    string    `json:"class_name,omitempty"` // students
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }

// NewUser contains information needed to register a new User.
// Teachers must declare their subject; students their class.
// Self-serve registration never grants ADMIN; admin accounts are
// created through the admin CLI, which skips payload validation.
type NewUser struct {
	FullName  string `json:"full_name" validate:"required"`
	Login     string `json:"login" validate:"required,min=3,alphanum_"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=STUDENT TEACHER"`
	Subject   string `json:"subject" validate:"required_if=Role TEACHER"`
	ClassName string `json:"class_name" validate:"required_if=Role STUDENT"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc *Service) error {
	nu.FullName = core.CleanString(nu.FullName)
	// login matching is case-sensitive throughout; only trim it
	nu.Login = core.CleanString(nu.Login)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Subject = core.CleanString(nu.Subject)
	nu.ClassName = core.CleanString(nu.ClassName)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkLoginUniqueness(nu.Login)
}

// Credentials is a login/password pair presented for authentication.
type Credentials struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Login = core.CleanString(c.Login)
	return validate.Struct(c)
}
