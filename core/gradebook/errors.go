package gradebook

import "errors"

var (
	ErrDuplicateEntity   = errors.New("entity already exists")
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidGrade      = errors.New("invalid grade")
	ErrWeight            = errors.New("invalid assignment weights")
	ErrInvalidStudent    = errors.New("invalid student")
	ErrInvalidAssignment = errors.New("invalid assignment")
	ErrInvalidScale      = errors.New("invalid GPA scale")
)
