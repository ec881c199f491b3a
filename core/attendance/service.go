package attendance

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/classportal/core"
	"github.com/trezcool/classportal/core/student"
)

type (
	// Repository is the attendance store. QueryRecords returns records in recording order.
	Repository interface {
		AppendRecords(ctx context.Context, recs []Record) error
		QueryRecords(ctx context.Context, filter *RecordFilter) ([]Record, error)
		DeleteAllRecords(ctx context.Context) (int, error)
	}

	// UnitSummary is a student's Summary restricted to one unit.
	UnitSummary struct {
		Unit string `json:"unit"`
		Summary
	}

	// History is everything recorded about one student.
	History struct {
		Student student.Student `json:"student"`
		Overall Summary         `json:"overall"`
		Units   []UnitSummary   `json:"units"`
		Records []Record        `json:"records"`
	}

	Service interface {
		RecordSession(ctx context.Context, ns NewSession) ([]Record, error)
		List(ctx context.Context, filter *RecordFilter) ([]Record, error)
		// ClearAll deletes every record and returns how many were deleted.
		ClearAll(ctx context.Context) (int, error)
		Report(ctx context.Context, unit ...string) ([]Summary, error)
		StudentHistory(ctx context.Context, id string) (History, error)
		Units() []string
		Bands() Bands
	}

	service struct {
		repo     Repository
		students student.Repository
		units    []string
		bands    Bands
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, students student.Repository, conf *core.Config) Service {
	svc := &service{
		repo:     repo,
		students: students,
		units:    append([]string(nil), core.DefaultUnits...),
		bands:    DefaultBands,
	}
	if conf != nil {
		if len(conf.Portal.Units) > 0 {
			svc.units = append([]string(nil), conf.Portal.Units...)
		}
		if conf.Portal.GoodAttendance > 0 {
			svc.bands = Bands{Good: conf.Portal.GoodAttendance, Warning: conf.Portal.WarningAttendance}
		}
	}
	return svc
}

// RecordSession appends one record per mark. ns is expected to be validated already.
func (svc *service) RecordSession(ctx context.Context, ns NewSession) ([]Record, error) {
	ns.Clean()
	recs := ns.Records(core.NowFunc())
	if err := svc.repo.AppendRecords(ctx, recs); err != nil {
		return nil, errors.Wrap(err, "appending records")
	}
	return recs, nil
}

func (svc *service) List(ctx context.Context, filter *RecordFilter) ([]Record, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryRecords(ctx, filter)
}

func (svc *service) ClearAll(ctx context.Context) (int, error) {
	cnt, err := svc.repo.DeleteAllRecords(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "deleting records")
	}
	return cnt, nil
}

// Report takes a snapshot of the roster and of the records, then summarizes them.
func (svc *service) Report(ctx context.Context, unit ...string) ([]Summary, error) {
	students, err := svc.students.QueryStudents(ctx, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	var filter *RecordFilter
	if len(unit) > 0 {
		filter = &RecordFilter{Unit: core.CleanString(unit[0])}
		unit = []string{filter.Unit}
	}
	recs, err := svc.repo.QueryRecords(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying records")
	}
	return Summarize(students, recs, unit...), nil
}

func (svc *service) StudentHistory(ctx context.Context, id string) (History, error) {
	st, err := svc.students.GetStudent(ctx, student.NormalizeID(id))
	if err != nil {
		return History{}, err
	}
	recs, err := svc.repo.QueryRecords(ctx, &RecordFilter{StudentID: st.ID})
	if err != nil {
		return History{}, errors.Wrap(err, "querying records")
	}

	roster := []student.Student{st}
	hist := History{
		Student: st,
		Overall: Summarize(roster, recs)[0],
		Records: recs,
	}
	for _, u := range svc.unitsOf(recs) {
		hist.Units = append(hist.Units, UnitSummary{Unit: u, Summary: Summarize(roster, recs, u)[0]})
	}
	return hist, nil
}

// unitsOf returns the configured units followed by any other unit found in recs, in order of appearance.
func (svc *service) unitsOf(recs []Record) []string {
	units := append([]string(nil), svc.units...)
	known := make(map[string]struct{}, len(units))
	for _, u := range units {
		known[u] = struct{}{}
	}
	for _, rec := range recs {
		if _, ok := known[rec.Unit]; !ok {
			known[rec.Unit] = struct{}{}
			units = append(units, rec.Unit)
		}
	}
	return units
}

func (svc *service) Units() []string {
	return append([]string(nil), svc.units...)
}

func (svc *service) Bands() Bands {
	return svc.bands
}
