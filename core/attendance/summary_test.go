package attendance

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classportal/core/student"
)

var (
	ann = student.Student{ID: "S1", Name: "Ann"}
	bo  = student.Student{ID: "S2", Name: "Bo"}
	cy  = student.Student{ID: "S3", Name: "Cy"}
)

func rec(id, unit, date string, present bool) Record {
	return Record{StudentID: id, Unit: unit, Date: date, Present: present}
}

type row struct {
	name            string
	present, absent int
	percentage      int
}

func rows(summaries []Summary) []row {
	out := make([]row, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, row{s.Student.Name, s.TotalPresent, s.TotalAbsent, s.Percentage})
	}
	return out
}

func TestSummarize(t *testing.T) {
	calc := []Record{
		rec("S1", "Calc", "2024-01-01", true),
		rec("S1", "Calc", "2024-01-02", false),
		rec("S2", "Calc", "2024-01-01", true),
	}

	tests := []struct {
		name     string
		students []student.Student
		records  []Record
		unit     []string
		want     []row
	}{
		{
			name:     "ranked by percentage",
			students: []student.Student{ann, bo},
			records:  calc,
			unit:     []string{"Calc"},
			want:     []row{{"Bo", 1, 0, 100}, {"Ann", 1, 1, 50}},
		},
		{
			name:     "no records keeps input order",
			students: []student.Student{ann, bo},
			want:     []row{{"Ann", 0, 0, 0}, {"Bo", 0, 0, 0}},
		},
		{
			name:    "no students",
			records: calc,
			want:    []row{},
		},
		{
			name:     "truncates instead of rounding",
			students: []student.Student{ann},
			records: []Record{
				rec("S1", "Calc", "2024-01-01", true),
				rec("S1", "Calc", "2024-01-02", true),
				rec("S1", "Calc", "2024-01-03", false),
			},
			want: []row{{"Ann", 2, 1, 66}},
		},
		{
			name:     "unknown unit",
			students: []student.Student{ann, bo},
			records:  calc,
			unit:     []string{"Linear Algebra"},
			want:     []row{{"Ann", 0, 0, 0}, {"Bo", 0, 0, 0}},
		},
		{
			name:     "dangling records are ignored",
			students: []student.Student{ann},
			records:  append([]Record{rec("GONE", "Calc", "2024-01-01", true)}, calc...),
			want:     []row{{"Ann", 1, 1, 50}},
		},
		{
			name:     "zero sessions ties with zero percent",
			students: []student.Student{cy, ann, bo},
			records: []Record{
				rec("S1", "Calc", "2024-01-01", false),
				rec("S2", "Calc", "2024-01-01", true),
			},
			want: []row{{"Bo", 1, 0, 100}, {"Cy", 0, 0, 0}, {"Ann", 0, 1, 0}},
		},
		{
			name:     "duplicate roster entries",
			students: []student.Student{ann, bo, ann},
			records:  calc,
			want:     []row{{"Bo", 1, 0, 100}, {"Ann", 1, 1, 50}, {"Ann", 1, 1, 50}},
		},
		{
			name:     "without filter every unit counts",
			students: []student.Student{ann},
			records: []Record{
				rec("S1", "Calc", "2024-01-01", true),
				rec("S1", "Stats", "2024-01-01", true),
				rec("S1", "Stats", "2024-01-02", false),
			},
			want: []row{{"Ann", 2, 1, 66}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.students, tt.records, tt.unit...)
			assert.Equal(t, tt.want, rows(got))
		})
	}
}

func randomInput(r *rand.Rand) ([]student.Student, []Record) {
	ids := []string{"A", "B", "C", "D", "E", "F"}
	units := []string{"Calc", "Stats", "Algebra"}

	students := make([]student.Student, 0, len(ids))
	for _, id := range ids[:1+r.Intn(len(ids)-1)] { // F is never registered
		students = append(students, student.Student{ID: id, Name: "Student " + id})
	}
	records := make([]Record, r.Intn(60))
	for i := range records {
		records[i] = rec(ids[r.Intn(len(ids))], units[r.Intn(len(units))], "2024-02-01", r.Intn(3) > 0)
	}
	return students, records
}

func TestSummarize_properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		students, records := randomInput(r)
		unit := []string{"Calc"}
		if i%2 == 0 {
			unit = nil
		}

		got := Summarize(students, records, unit...)
		require.Len(t, got, len(students))

		// totals conserved
		registered := make(map[string]bool, len(students))
		for _, st := range students {
			registered[st.ID] = true
		}
		var wantTotal, gotTotal int
		for _, rc := range records {
			if registered[rc.StudentID] && (unit == nil || rc.Unit == unit[0]) {
				wantTotal++
			}
		}
		for _, s := range got {
			gotTotal += s.TotalPresent + s.TotalAbsent

			// percentage bounds
			assert.GreaterOrEqual(t, s.Percentage, 0)
			assert.LessOrEqual(t, s.Percentage, 100)
		}
		assert.Equal(t, wantTotal, gotTotal, "totals")

		// stable ranking
		position := make(map[string]int, len(students))
		for idx, st := range students {
			position[st.ID] = idx
		}
		for idx := 1; idx < len(got); idx++ {
			prev, curr := got[idx-1], got[idx]
			require.GreaterOrEqual(t, prev.Percentage, curr.Percentage)
			if prev.Percentage == curr.Percentage {
				assert.Less(t, position[prev.Student.ID], position[curr.Student.ID])
			}
		}

		// idempotence
		assert.Equal(t, got, Summarize(students, records, unit...))
	}
}

func TestSummarize_filterIsolation(t *testing.T) {
	students := []student.Student{ann, bo}
	calc := []Record{
		rec("S1", "Calc", "2024-01-01", true),
		rec("S2", "Calc", "2024-01-01", false),
	}
	noise := []Record{
		rec("S1", "Stats", "2024-01-01", false),
		rec("S1", "Stats", "2024-01-02", false),
		rec("S2", "Stats", "2024-01-01", true),
	}

	want := Summarize(students, calc, "Calc")
	got := Summarize(students, append(append([]Record(nil), noise...), calc...), "Calc")
	assert.Equal(t, want, got)
}

func TestSummarize_doesNotMutateInputs(t *testing.T) {
	students := []student.Student{ann, bo, cy}
	records := []Record{rec("S3", "Calc", "2024-01-01", true), rec("S1", "Calc", "2024-01-01", false)}
	studentsCopy := append([]student.Student(nil), students...)
	recordsCopy := append([]Record(nil), records...)

	_ = Summarize(students, records)
	assert.Equal(t, studentsCopy, students)
	assert.Equal(t, recordsCopy, records)
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		present, absent, want int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{3, 0, 100},
		{1, 1, 50},
		{2, 1, 66},
		{1, 2, 33},
		{199, 1, 99},
	}
	for _, tt := range tests {
		if got := Percentage(tt.present, tt.absent); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.present, tt.absent, got, tt.want)
		}
	}
}

func TestBands_Of(t *testing.T) {
	tests := []struct {
		percentage int
		want       Band
	}{
		{100, BandGood},
		{75, BandGood},
		{74, BandWarning},
		{50, BandWarning},
		{49, BandCritical},
		{0, BandCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultBands.Of(tt.percentage), "percentage %d", tt.percentage)
	}
}

func TestSummary_Band(t *testing.T) {
	bands := Bands{Good: 90, Warning: 60}
	tests := []struct {
		present, absent int
		want            Band
	}{
		{9, 1, BandGood},
		{3, 1, BandWarning},
		{1, 1, BandCritical},
		{0, 0, BandCritical},
	}
	for _, tt := range tests {
		s := Summarize([]student.Student{ann}, nil)[0]
		s.TotalPresent, s.TotalAbsent = tt.present, tt.absent
		s.Percentage = Percentage(tt.present, tt.absent)
		assert.Equal(t, tt.want, s.Band(bands), "%d/%d", tt.present, tt.present+tt.absent)
	}
}
