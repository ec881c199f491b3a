package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classportal/core"
	"github.com/trezcool/classportal/core/student"
)

// Record is one student's presence at one session of a unit.
// StudentID is not guaranteed to reference a registered student.
type Record struct {
	StudentID  string    `json:"student_id"`
	Unit       string    `json:"unit"`
	Date       string    `json:"date"` // YYYY-MM-DD
	Present    bool      `json:"present"`
	RecordedAt time.Time `json:"recorded_at"` // UTC
}

type Mark struct {
	StudentID string `json:"student_id" validate:"required,max=32,regid"`
	Present   bool   `json:"present"`
}

// NewSession contains the marks taken during one session of a unit.
type NewSession struct {
	Unit  string `json:"unit" validate:"required,max=64"`
	Date  string `json:"date" validate:"required,isodate"`
	Marks []Mark `json:"marks" validate:"required,min=1,dive"`
}

func (ns *NewSession) Clean() {
	ns.Unit = core.CleanString(ns.Unit)
	ns.Date = core.CleanString(ns.Date)
	for i := range ns.Marks {
		ns.Marks[i].StudentID = student.NormalizeID(ns.Marks[i].StudentID)
	}
}

func (ns *NewSession) Validate(validate *validator.Validate) error {
	ns.Clean()
	if err := validate.Struct(ns); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(ns.Marks))
	for _, m := range ns.Marks {
		if _, ok := seen[m.StudentID]; ok {
			return core.NewValidationError(nil, core.FieldError{Field: "marks", Error: "student " + m.StudentID + " is marked more than once"})
		}
		seen[m.StudentID] = struct{}{}
	}
	return nil
}

// Records expands the session into one Record per mark, in marking order.
func (ns NewSession) Records(recordedAt time.Time) []Record {
	recs := make([]Record, 0, len(ns.Marks))
	for _, m := range ns.Marks {
		recs = append(recs, Record{
			StudentID:  m.StudentID,
			Unit:       ns.Unit,
			Date:       ns.Date,
			Present:    m.Present,
			RecordedAt: recordedAt,
		})
	}
	return recs
}

// RecordFilter applies AND operation on its non-empty fields. From and To are inclusive.
type RecordFilter struct {
	Unit      string `query:"unit"`
	StudentID string `query:"student_id"`
	From      string `query:"from"`
	To        string `query:"to"`
}

func (rf *RecordFilter) Clean() {
	rf.Unit = core.CleanString(rf.Unit)
	if rf.StudentID != "" {
		rf.StudentID = student.NormalizeID(rf.StudentID)
	}
	rf.From = core.CleanString(rf.From)
	rf.To = core.CleanString(rf.To)
}

func (rf *RecordFilter) Validate() error {
	var flds []core.FieldError
	if rf.From != "" && !core.IsValidDate(rf.From) {
		flds = append(flds, core.FieldError{Field: "from", Error: "must be a date formatted as YYYY-MM-DD"})
	}
	if rf.To != "" && !core.IsValidDate(rf.To) {
		flds = append(flds, core.FieldError{Field: "to", Error: "must be a date formatted as YYYY-MM-DD"})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// Match reports whether rec satisfies the filter; used by non-SQL repositories.
// ISO dates compare correctly as strings.
func (rf *RecordFilter) Match(rec Record) bool {
	if rf == nil {
		return true
	}
	if rf.Unit != "" && rec.Unit != rf.Unit {
		return false
	}
	if rf.StudentID != "" && rec.StudentID != rf.StudentID {
		return false
	}
	if rf.From != "" && rec.Date < rf.From {
		return false
	}
	if rf.To != "" && rec.Date > rf.To {
		return false
	}
	return true
}
