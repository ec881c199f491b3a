package attendance

import (
	"sort"

	"github.com/trezcool/classportal/core/student"
)

// Band classifies an attendance percentage the way the report colours it.
type Band string

const (
	BandGood     Band = "good"
	BandWarning  Band = "warning"
	BandCritical Band = "critical"
)

// Bands holds the lower bounds (inclusive) of the good and warning bands.
type Bands struct {
	Good    int `json:"good"`
	Warning int `json:"warning"`
}

var DefaultBands = Bands{Good: 75, Warning: 50}

func (b Bands) Of(percentage int) Band {
	switch {
	case percentage >= b.Good:
		return BandGood
	case percentage >= b.Warning:
		return BandWarning
	default:
		return BandCritical
	}
}

// Summary is a student's attendance over the summarized records.
type Summary struct {
	Student      student.Student `json:"student"`
	TotalPresent int             `json:"total_present"`
	TotalAbsent  int             `json:"total_absent"`
	Percentage   int             `json:"percentage"`
}

func (s Summary) Sessions() int {
	return s.TotalPresent + s.TotalAbsent
}

// Band returns the band of the summary's percentage within bands.
func (s Summary) Band(bands Bands) Band {
	return bands.Of(s.Percentage)
}

// Percentage returns floor(100 * present / (present + absent)), or 0 when there were no sessions.
func Percentage(present, absent int) int {
	total := present + absent
	if total == 0 {
		return 0
	}
	return present * 100 / total
}

// Summarize returns one Summary per entry of students, ranked by descending percentage.
// Students with equal percentages keep their relative order in students, so duplicate
// entries yield duplicate rows. When a unit is given, only records of that unit count.
// Records of unknown students are ignored.
func Summarize(students []student.Student, records []Record, unit ...string) []Summary {
	filtered := len(unit) > 0

	type tally struct{ present, absent int }
	tallies := make(map[string]*tally, len(students))
	for _, st := range students {
		if _, ok := tallies[st.ID]; !ok {
			tallies[st.ID] = new(tally)
		}
	}

	for _, rec := range records {
		if filtered && rec.Unit != unit[0] {
			continue
		}
		t, ok := tallies[rec.StudentID]
		if !ok {
			continue
		}
		if rec.Present {
			t.present++
		} else {
			t.absent++
		}
	}

	summaries := make([]Summary, 0, len(students))
	for _, st := range students {
		t := tallies[st.ID]
		summaries = append(summaries, Summary{
			Student:      st,
			TotalPresent: t.present,
			TotalAbsent:  t.absent,
			Percentage:   Percentage(t.present, t.absent),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Percentage > summaries[j].Percentage
	})
	return summaries
}
