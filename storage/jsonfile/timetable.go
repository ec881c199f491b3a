package jsonfile

import (
	"context"

	"github.com/trezcool/classportal/core/timetable"
)

type timetableRepository struct {
	file file
}

var _ timetable.Repository = (*timetableRepository)(nil) // interface compliance check

// NewTimetableRepository stores the weekly timetable in the JSON file at path, eg: timetable.json
// A missing file is an empty week.
func NewTimetableRepository(path string) timetable.Repository {
	return &timetableRepository{file: file{path: path}}
}

func (repo *timetableRepository) LoadWeek(_ context.Context) (timetable.Week, error) {
	week := timetable.Week{}
	if _, err := repo.file.read(&week); err != nil {
		return nil, err
	}
	return week, nil
}

func (repo *timetableRepository) SaveWeek(_ context.Context, week timetable.Week) error {
	return repo.file.write(week)
}
