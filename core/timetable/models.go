package timetable

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/classportal/core"
)

type Lecture struct {
	Unit     string `json:"unit" validate:"required,max=64"`
	Lecturer string `json:"lecturer,omitempty" validate:"max=64"`
	Room     string `json:"room,omitempty" validate:"max=32"`
	Start    string `json:"start" validate:"required,hhmm"` // HH:MM
	End      string `json:"end" validate:"required,hhmm"`
}

func (l *Lecture) Clean() {
	l.Unit = core.CleanString(l.Unit)
	l.Lecturer = core.CleanString(l.Lecturer)
	l.Room = core.CleanString(l.Room)
	l.Start = core.CleanString(l.Start)
	l.End = core.CleanString(l.End)
}

func (l *Lecture) Validate(validate *validator.Validate) error {
	l.Clean()
	if err := validate.Struct(l); err != nil {
		return err
	}
	if l.End <= l.Start { // HH:MM compares correctly as strings
		return core.NewValidationError(nil, core.FieldError{Field: "end", Error: "must be after start"})
	}
	return nil
}

// Week is the fixed weekly cycle of lectures.
type Week map[time.Weekday][]Lecture

// Day returns the lectures of the given weekday, sorted by start time.
func (w Week) Day(day time.Weekday) []Lecture {
	lectures := append([]Lecture{}, w[day]...)
	sort.SliceStable(lectures, func(i, j int) bool { return lectures[i].Start < lectures[j].Start })
	return lectures
}

// MarshalJSON encodes the week keyed by lower-cased day names, eg: {"monday": [...]}.
func (w Week) MarshalJSON() ([]byte, error) {
	m := make(map[string][]Lecture, len(w))
	for day, lectures := range w {
		if len(lectures) > 0 {
			m[strings.ToLower(day.String())] = w.Day(day)
		}
	}
	return json.Marshal(m)
}

func (w *Week) UnmarshalJSON(data []byte) error {
	var m map[string][]Lecture
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	week := make(Week, len(m))
	for name, lectures := range m {
		day, err := ParseWeekday(name)
		if err != nil {
			return err
		}
		week[day] = append(week[day], lectures...)
	}
	*w = week
	return nil
}

// ParseWeekday parses an english day name ("monday", "Mon") or its number (0 = Sunday).
func ParseWeekday(s string) (time.Weekday, error) {
	s = core.CleanString(s, true /* lower */)
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return time.Weekday(s[0] - '0'), nil
	}
	return 0, errors.Errorf("invalid weekday %q", s)
}
