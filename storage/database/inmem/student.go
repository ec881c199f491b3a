package inmemdb

import (
	"context"

	"github.com/trezcool/classportal/core"
	"github.com/trezcool/classportal/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) CreateStudent(_ context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, s := range repo.db.rows {
		if s.ID == st.ID {
			return student.Student{}, student.ErrExists
		}
	}
	repo.db.rows = append(repo.db.rows, st)
	return st, nil
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.rows))
	for _, st := range repo.db.rows {
		if filter.Match(st) {
			students = append(students, st)
		}
	}

	sortRows(len(students), ordering, func(i, j int, field string) int {
		a, b := students[i], students[j]
		switch field {
		case "id":
			return compareStrings(a.ID, b.ID)
		case "name":
			return compareStrings(a.Name, b.Name)
		case "created_at":
			return compareTimes(a.CreatedAt, b.CreatedAt)
		}
		return 0
	}, func(i, j int) { students[i], students[j] = students[j], students[i] })
	return students, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, st := range repo.db.rows {
		if st.ID == id {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) DeleteStudentsByID(_ context.Context, ids []string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	del := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		del[id] = struct{}{}
	}
	kept := repo.db.rows[:0]
	for _, st := range repo.db.rows {
		if _, ok := del[st.ID]; !ok {
			kept = append(kept, st)
		}
	}
	cnt := len(repo.db.rows) - len(kept)
	repo.db.rows = kept
	return cnt, nil
}
