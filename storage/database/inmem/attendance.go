package inmemdb

import (
	"context"

	"github.com/trezcool/classportal/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) AppendRecords(_ context.Context, recs []attendance.Record) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.rows = append(repo.db.rows, recs...)
	return nil
}

func (repo *attendanceRepository) QueryRecords(_ context.Context, filter *attendance.RecordFilter) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]attendance.Record, 0, len(repo.db.rows))
	for _, rec := range repo.db.rows {
		if filter.Match(rec) {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (repo *attendanceRepository) DeleteAllRecords(_ context.Context) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cnt := len(repo.db.rows)
	repo.db.rows = nil
	return cnt, nil
}
