package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/classportal/core"
	"github.com/trezcool/classportal/core/student"
)

type studentRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r studentRow) student() student.Student {
	return student.Student{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt.UTC()}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	row := studentRow{ID: st.ID, Name: st.Name, CreatedAt: st.CreatedAt.UTC()}
	q := "INSERT INTO students (id, name, created_at) VALUES (:id, :name, :created_at)"
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		if isUniqueViolation(err) {
			return student.Student{}, student.ErrExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return row.student(), nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	var conds conditions
	if !filter.IsEmpty() {
		if len(filter.IDs) > 0 {
			if err := conds.in("id IN (?)", filter.IDs); err != nil {
				return nil, errors.Wrap(err, "building students query")
			}
		}
		if filter.Search != "" {
			val := likeArg(filter.Search)
			conds.add("(LOWER(name) LIKE ? OR LOWER(id) LIKE ?)", val, val)
		}
	}

	var rows []studentRow
	q := repo.db.Rebind("SELECT id, name, created_at FROM students" + conds.where() + orderBy(ordering, "seq"))
	if err := repo.db.SelectContext(ctx, &rows, q, conds.args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.student())
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	var r studentRow
	q := repo.db.Rebind("SELECT id, name, created_at FROM students WHERE id = ?")
	if err := repo.db.GetContext(ctx, &r, q, id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student")
	}
	return r.student(), nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q, args, err := sqlx.In("DELETE FROM students WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "building delete query")
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting students")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "counting deleted students")
	}
	return int(cnt), nil
}
