package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/classportal/core/attendance"
)

type recordRow struct {
	StudentID  string    `db:"student_id"`
	Unit       string    `db:"unit"`
	Date       string    `db:"date"`
	Present    bool      `db:"present"`
	RecordedAt time.Time `db:"recorded_at"`
}

func (r recordRow) record() attendance.Record {
	return attendance.Record{
		StudentID:  r.StudentID,
		Unit:       r.Unit,
		Date:       r.Date,
		Present:    r.Present,
		RecordedAt: r.RecordedAt.UTC(),
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

// AppendRecords inserts recs in one transaction: either all of them are recorded or none.
func (repo *attendanceRepository) AppendRecords(ctx context.Context, recs []attendance.Record) (err error) {
	if len(recs) == 0 {
		return nil
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(
		"INSERT INTO attendance_records (student_id, unit, date, present, recorded_at) VALUES (?, ?, ?, ?, ?)",
	))
	if err != nil {
		return errors.Wrap(err, "preparing insert")
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range recs {
		if _, err = stmt.ExecContext(ctx, rec.StudentID, rec.Unit, rec.Date, rec.Present, rec.RecordedAt.UTC()); err != nil {
			return errors.Wrap(err, "inserting record")
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing records")
	}
	return nil
}

func (repo *attendanceRepository) QueryRecords(ctx context.Context, filter *attendance.RecordFilter) ([]attendance.Record, error) {
	var conds conditions
	if filter != nil {
		if filter.Unit != "" {
			conds.add("unit = ?", filter.Unit)
		}
		if filter.StudentID != "" {
			conds.add("student_id = ?", filter.StudentID)
		}
		if filter.From != "" {
			conds.add("date >= ?", filter.From)
		}
		if filter.To != "" {
			conds.add("date <= ?", filter.To)
		}
	}

	var rows []recordRow
	q := repo.db.Rebind(
		"SELECT student_id, unit, date, present, recorded_at FROM attendance_records" + conds.where() + " ORDER BY seq",
	)
	if err := repo.db.SelectContext(ctx, &rows, q, conds.args...); err != nil {
		return nil, errors.Wrap(err, "querying records")
	}
	recs := make([]attendance.Record, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, r.record())
	}
	return recs, nil
}

func (repo *attendanceRepository) DeleteAllRecords(ctx context.Context) (int, error) {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM attendance_records")
	if err != nil {
		return 0, errors.Wrap(err, "deleting records")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "counting deleted records")
	}
	return int(cnt), nil
}
