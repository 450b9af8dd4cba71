package user

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type Role string

// Roles
const (
	// Teacher administers the whole gradebook.
	RoleTeacher Role = "teacher"

	// Student may only view their own grades. Its username is the student id.
	RoleStudent Role = "student"
)

var Roles = []Role{RoleTeacher, RoleStudent}

var passwordCost = bcrypt.DefaultCost

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, r := range Roles {
		if r == role {
			return role, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidRole, "%q", s)
}

type Account struct {
	Role         Role   `json:"role" validate:"required,oneof=teacher student"`
	Username     string `json:"username" validate:"required"`
	PasswordHash []byte `json:"-"`
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), passwordCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

// Session is the identity a command runs as.
type Session struct {
	Role      Role
	Username  string
	StudentID string // set for students only
}

func (s Session) IsTeacher() bool {
	return s.Role == RoleTeacher
}

// CanAccessStudent reports whether the session may see the given student's grades.
func (s Session) CanAccessStudent(studentID string) bool {
	return s.IsTeacher() || (s.Role == RoleStudent && s.StudentID == studentID)
}

// ChangePassword contains information needed to change the password of the logged in account.
type ChangePassword struct {
	Current         string `json:"current_password" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`

	username string
}
