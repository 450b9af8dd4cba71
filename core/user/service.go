package user

import (
	"errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
)

var (
	// errors
	ErrNotFound             = errors.New("account not found")
	ErrInvalidRole          = errors.New("invalid role")
	ErrUnknownStudent       = errors.New("unknown student id")
	ErrAuthenticationFailed = errors.New("invalid credentials")
	ErrIncorrectPassword    = errors.New("current password is incorrect")
	ErrInvalidPassword      = errors.New("invalid password")
)

const (
	DefaultTeacherUsername = "teacher"
	DefaultTeacherPassword = "teacher"
)

type (
	// Repository stores accounts keyed by (Role, Username).
	Repository interface {
		GetAccount(role Role, username string) (Account, error)
		// SaveAccount creates the account or replaces the stored one.
		SaveAccount(acc Account) error
		ListAccounts() ([]Account, error)
	}

	// StudentDirectory is the part of the gradebook needed to log students in.
	StudentDirectory interface {
		HasStudent(id string) bool
	}

	Service struct {
		repo     Repository
		students StudentDirectory
		log      core.Logger

		teacherUsername string
		teacherPassword string
	}
)

func NewService(repo Repository, students StudentDirectory, log core.Logger) *Service {
	return &Service{
		repo:            repo,
		students:        students,
		log:             log,
		teacherUsername: DefaultTeacherUsername,
		teacherPassword: DefaultTeacherPassword,
	}
}

// WithDefaultTeacher overrides the credentials of the teacher account created by EnsureDefaults.
func (svc *Service) WithDefaultTeacher(username, password string) *Service {
	if username = core.CleanString(username); username != "" {
		svc.teacherUsername = username
	}
	if password != "" {
		svc.teacherPassword = password
	}
	return svc
}

// EnsureDefaults creates the missing accounts: the default teacher, and one per student whose
// password is the student's first name. Existing accounts are left untouched.
func (svc *Service) EnsureDefaults(students []gradebook.Student) (created int, err error) {
	ensure := func(role Role, username, pwd string) error {
		if _, err := svc.repo.GetAccount(role, username); err == nil {
			return nil
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		acc := Account{Role: role, Username: username}
		if err := acc.SetPassword(pwd); err != nil {
			return err
		}
		if err := svc.repo.SaveAccount(acc); err != nil {
			return err
		}
		created++
		svc.log.Debug("default account created", "role", role, "username", username)
		return nil
	}

	if err = ensure(RoleTeacher, svc.teacherUsername, svc.teacherPassword); err != nil {
		return created, err
	}
	for _, st := range students {
		if err = ensure(RoleStudent, st.ID, core.CleanString(st.FirstName)); err != nil {
			return created, err
		}
	}
	return created, nil
}

// Login checks the credentials and opens a session. Student usernames are student ids.
func (svc *Service) Login(role Role, username, pwd string) (Session, error) {
	username = core.CleanString(username)
	if role == RoleStudent && !svc.students.HasStudent(username) {
		return Session{}, ErrUnknownStudent
	}

	acc, err := svc.repo.GetAccount(role, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrAuthenticationFailed
		}
		return Session{}, err
	}
	if err := acc.CheckPassword(pwd); err != nil {
		return Session{}, ErrAuthenticationFailed
	}

	sess := Session{Role: role, Username: username}
	if role == RoleStudent {
		sess.StudentID = username
	}
	svc.log.Info("logged in", "role", role, "username", username)
	return sess, nil
}

// ChangePassword sets a new password on the session's account once the current one is confirmed.
func (svc *Service) ChangePassword(sess Session, cp ChangePassword) error {
	acc, err := svc.repo.GetAccount(sess.Role, sess.Username)
	if err != nil {
		return err
	}
	if err := acc.CheckPassword(cp.Current); err != nil {
		return core.NewValidationError(ErrIncorrectPassword, core.FieldError{
			Field: "current_password",
			Error: ErrIncorrectPassword.Error(),
		})
	}

	cp.username = acc.Username
	if err := core.NewValidationErrorFrom(ErrInvalidPassword, core.Validate.Struct(cp)); err != nil {
		return err
	}
	if err := acc.SetPassword(cp.Password); err != nil {
		return err
	}
	if err := svc.repo.SaveAccount(acc); err != nil {
		return err
	}
	svc.log.Info("password changed", "role", acc.Role, "username", acc.Username)
	return nil
}
