package gradebook

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
)

// AssignmentType is a descriptive tag. It does not change how an assignment is graded.
type AssignmentType string

const (
	TypeQuiz     AssignmentType = "quiz"
	TypeExam     AssignmentType = "exam"
	TypeProject  AssignmentType = "project"
	TypeHomework AssignmentType = "homework"
	TypeGeneric  AssignmentType = "generic"
)

var AssignmentTypes = []AssignmentType{TypeQuiz, TypeExam, TypeProject, TypeHomework, TypeGeneric}

// Student is an immutable value: updates build a new Student from the old one.
type Student struct {
	ID        string `json:"student_id" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"` // format is checked by callers
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

func (s Student) String() string {
	return fmt.Sprintf("%s, %s (%s)", s.LastName, s.FirstName, s.ID)
}

// StudentUpdate overrides the fields that are set.
type StudentUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
}

func (su StudentUpdate) apply(s Student) Student {
	if su.FirstName != nil {
		s.FirstName = *su.FirstName
	}
	if su.LastName != nil {
		s.LastName = *su.LastName
	}
	if su.Email != nil {
		s.Email = *su.Email
	}
	return s
}

type Assignment struct {
	ID          string         `json:"assignment_id" validate:"required"`
	Name        string         `json:"name"`
	MaxPoints   float64        `json:"max_points" validate:"gt=0"`
	Weight      float64        `json:"weight" validate:"gte=0,lte=1"`
	Due         *time.Time     `json:"due,omitempty"`
	Type        AssignmentType `json:"type"`
	Description string         `json:"description"`
}

// NewAssignment returns a validated assignment with the given type, or `generic` if typ is empty.
func NewAssignment(id, name string, maxPoints, weight float64, typ AssignmentType) (Assignment, error) {
	a := Assignment{
		ID:        id,
		Name:      name,
		MaxPoints: maxPoints,
		Weight:    weight,
		Type:      typ,
	}
	if err := a.Validate(); err != nil {
		return Assignment{}, err
	}
	return a.withDefaults(), nil
}

// Validate checks that max_points > 0 and 0 <= weight <= 1.
func (a Assignment) Validate() error {
	return core.NewValidationErrorFrom(ErrInvalidAssignment, core.Validate.Struct(a))
}

func (a Assignment) withDefaults() Assignment {
	if a.Type == "" {
		a.Type = TypeGeneric
	}
	return a
}

func (a Assignment) String() string {
	return fmt.Sprintf("%s [%s] (max %g, weight %.0f%%)", a.Name, a.Type, a.MaxPoints, a.Weight*100)
}

// AssignmentUpdate overrides the fields that are set.
type AssignmentUpdate struct {
	Name        *string
	MaxPoints   *float64
	Weight      *float64
	Due         *time.Time
	Type        *AssignmentType
	Description *string
}

func (au AssignmentUpdate) apply(a Assignment) Assignment {
	if au.Name != nil {
		a.Name = *au.Name
	}
	if au.MaxPoints != nil {
		a.MaxPoints = *au.MaxPoints
	}
	if au.Weight != nil {
		a.Weight = *au.Weight
	}
	if au.Due != nil {
		due := *au.Due
		a.Due = &due
	}
	if au.Type != nil {
		a.Type = *au.Type
	}
	if au.Description != nil {
		a.Description = *au.Description
	}
	return a.withDefaults()
}

// GradeEntry is one recorded score of the grade matrix.
type GradeEntry struct {
	StudentID    string
	AssignmentID string
	Score        float64
}

// ParseScore parses a score typed by a user or read from a file.
func ParseScore(s string) (float64, error) {
	score, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidGrade, "score %q must be numeric", s)
	}
	return score, nil
}
