package student

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classportal/core"
)

type Student struct {
	ID        string    `json:"id"` // registration number
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	ID   string `json:"id" validate:"required,max=32,regid"`
	Name string `json:"name" validate:"required,max=64"`
}

func (ns *NewStudent) Clean() {
	ns.ID = NormalizeID(ns.ID)
	ns.Name = core.CleanString(ns.Name)
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Clean()
	return validate.Struct(ns)
}

type QueryFilter struct {
	Search string   `query:"search"`
	IDs    []string `query:"id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf == nil || (qf.Search == "" && len(qf.IDs) == 0)
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	for i, id := range qf.IDs {
		qf.IDs[i] = NormalizeID(id)
	}
}

// Match reports whether s satisfies the filter; used by non-SQL repositories.
func (qf *QueryFilter) Match(s Student) bool {
	if qf.IsEmpty() {
		return true
	}
	if len(qf.IDs) > 0 {
		var found bool
		for _, id := range qf.IDs {
			if id == s.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if qf.Search != "" {
		search := strings.ToLower(qf.Search)
		if !strings.Contains(strings.ToLower(s.Name), search) && !strings.Contains(strings.ToLower(s.ID), search) {
			return false
		}
	}
	return true
}
