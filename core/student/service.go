package student

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/classportal/core"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")
	ErrExists   = errors.New("a student with this registration number already exists")

	// OrderingFields are the fields students can be ordered by.
	OrderingFields = []string{"id", "name", "created_at"}
)

type (
	// Repository is the roster store.
	Repository interface {
		CreateStudent(ctx context.Context, st Student) (Student, error)
		// QueryStudents returns students in registration order unless an ordering is given.
		QueryStudents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids []string) (int, error)
	}

	Service interface {
		Register(ctx context.Context, ns NewStudent) (Student, error)
		List(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]Student, error)
		Get(ctx context.Context, id string) (Student, error)
		Delete(ctx context.Context, ids ...string) (int, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register adds ns to the roster. ns is expected to be validated already.
func (svc *service) Register(ctx context.Context, ns NewStudent) (Student, error) {
	ns.Clean()
	st, err := svc.repo.CreateStudent(ctx, Student{
		ID:        ns.ID,
		Name:      ns.Name,
		CreatedAt: core.NowFunc(),
	})
	if err != nil {
		if pkgerrors.Cause(err) == ErrExists {
			return Student{}, core.NewValidationError(ErrExists, core.FieldError{Field: "id", Error: ErrExists.Error()})
		}
		return Student{}, pkgerrors.Wrap(err, "creating student")
	}
	return st, nil
}

func (svc *service) List(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]Student, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryStudents(ctx, filter, core.FilterOrderings(ordering, OrderingFields...))
}

func (svc *service) Get(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, NormalizeID(id))
}

// Delete removes the given students from the roster and returns how many were removed.
// Their attendance records are kept.
func (svc *service) Delete(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	normalized := make([]string, 0, len(ids))
	for _, id := range ids {
		normalized = append(normalized, NormalizeID(id))
	}
	cnt, err := svc.repo.DeleteStudentsByID(ctx, normalized)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "deleting students")
	}
	if cnt == 0 {
		return 0, ErrNotFound
	}
	return cnt, nil
}

// NormalizeID returns the canonical form of a registration number.
func NormalizeID(id string) string {
	return strings.ToUpper(core.CleanString(id))
}
