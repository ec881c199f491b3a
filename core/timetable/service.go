package timetable

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
)

var ErrLectureNotFound = errors.New("lecture not found")

type (
	Repository interface {
		LoadWeek(ctx context.Context) (Week, error)
		SaveWeek(ctx context.Context, week Week) error
	}

	Service interface {
		Week(ctx context.Context) (Week, error)
		Day(ctx context.Context, day time.Weekday) ([]Lecture, error)
		// Today returns the lectures of now's weekday, in now's location.
		Today(ctx context.Context, now time.Time) ([]Lecture, error)
		AddLecture(ctx context.Context, day time.Weekday, lec Lecture) ([]Lecture, error)
		RemoveLecture(ctx context.Context, day time.Weekday, index int) ([]Lecture, error)
	}

	service struct {
		mu   sync.Mutex // serializes read-modify-write cycles
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Week(ctx context.Context) (Week, error) {
	week, err := svc.repo.LoadWeek(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "loading timetable")
	}
	if week == nil {
		week = Week{}
	}
	return week, nil
}

func (svc *service) Day(ctx context.Context, day time.Weekday) ([]Lecture, error) {
	week, err := svc.Week(ctx)
	if err != nil {
		return nil, err
	}
	return week.Day(day), nil
}

func (svc *service) Today(ctx context.Context, now time.Time) ([]Lecture, error) {
	return svc.Day(ctx, now.Weekday())
}

// AddLecture expects lec to be validated already.
func (svc *service) AddLecture(ctx context.Context, day time.Weekday, lec Lecture) ([]Lecture, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	week, err := svc.Week(ctx)
	if err != nil {
		return nil, err
	}
	lec.Clean()
	week[day] = append(week.Day(day), lec)
	if err = svc.repo.SaveWeek(ctx, week); err != nil {
		return nil, pkgerrors.Wrap(err, "saving timetable")
	}
	return week.Day(day), nil
}

// RemoveLecture removes the lecture at index in the day's start-time ordering.
func (svc *service) RemoveLecture(ctx context.Context, day time.Weekday, index int) ([]Lecture, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	week, err := svc.Week(ctx)
	if err != nil {
		return nil, err
	}
	lectures := week.Day(day)
	if index < 0 || index >= len(lectures) {
		return nil, ErrLectureNotFound
	}
	week[day] = append(lectures[:index], lectures[index+1:]...)
	if err = svc.repo.SaveWeek(ctx, week); err != nil {
		return nil, pkgerrors.Wrap(err, "saving timetable")
	}
	return week.Day(day), nil
}
