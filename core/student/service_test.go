package student_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classportal/core"
	"github.com/trezcool/classportal/core/student"
	inmemdb "github.com/trezcool/classportal/storage/database/inmem"
)

func newService(t *testing.T) student.Service {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	calls := 0
	core.NowFunc = func() time.Time {
		calls++
		return now.Add(time.Duration(calls) * time.Minute)
	}
	t.Cleanup(func() { core.NowFunc = func() time.Time { return time.Now().UTC() } })

	return student.NewService(inmemdb.NewStudentRepository(inmemdb.Open()))
}

func register(t *testing.T, svc student.Service, id, name string) student.Student {
	t.Helper()
	st, err := svc.Register(context.Background(), student.NewStudent{ID: id, Name: name})
	require.NoError(t, err)
	return st
}

func ids(students []student.Student) []string {
	out := make([]string, 0, len(students))
	for _, st := range students {
		out = append(out, st.ID)
	}
	return out
}

func TestService_Register(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	st := register(t, svc, "  sct211-0001/2021 ", "  Ann  Wanjiru ")
	assert.Equal(t, "SCT211-0001/2021", st.ID)
	assert.Equal(t, "Ann  Wanjiru", st.Name)
	assert.False(t, st.CreatedAt.IsZero())

	_, err := svc.Register(ctx, student.NewStudent{ID: "SCT211-0001/2021", Name: "Someone Else"})
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))
	assert.EqualError(t, err, student.ErrExists.Error())
}

func TestService_List(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	register(t, svc, "S2", "Bo")
	register(t, svc, "S1", "Cy")
	register(t, svc, "S3", "Ann")

	tests := []struct {
		name     string
		filter   *student.QueryFilter
		ordering []core.DBOrdering
		want     []string
	}{
		{name: "registration order", want: []string{"S2", "S1", "S3"}},
		{name: "by name", ordering: []core.DBOrdering{{Field: "name", Ascending: true}}, want: []string{"S3", "S2", "S1"}},
		{name: "by id desc", ordering: []core.DBOrdering{{Field: "id"}}, want: []string{"S3", "S2", "S1"}},
		{name: "unknown ordering ignored", ordering: []core.DBOrdering{{Field: "password"}}, want: []string{"S2", "S1", "S3"}},
		{name: "search", filter: &student.QueryFilter{Search: " bo "}, want: []string{"S2"}},
		{name: "ids", filter: &student.QueryFilter{IDs: []string{"s3", "s1"}}, want: []string{"S1", "S3"}},
		{name: "no match", filter: &student.QueryFilter{Search: "zed"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.filter, tt.ordering...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestService_GetAndDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	register(t, svc, "S1", "Ann")
	register(t, svc, "S2", "Bo")
	register(t, svc, "S3", "Cy")

	st, err := svc.Get(ctx, " s2 ")
	require.NoError(t, err)
	assert.Equal(t, "Bo", st.Name)

	cnt, err := svc.Delete(ctx)
	require.NoError(t, err)
	assert.Zero(t, cnt)

	_, err = svc.Delete(ctx, "S9")
	assert.Equal(t, student.ErrNotFound, err)

	cnt, err = svc.Delete(ctx, "s1", "S3", "S9")
	require.NoError(t, err)
	assert.Equal(t, 2, cnt)

	_, err = svc.Get(ctx, "S1")
	assert.Equal(t, student.ErrNotFound, err)

	left, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"S2"}, ids(left))
}

func TestNewStudent_Validate(t *testing.T) {
	validate, _ := core.NewValidator()

	tests := []struct {
		name    string
		ns      student.NewStudent
		wantErr bool
	}{
		{name: "valid", ns: student.NewStudent{ID: " s1 ", Name: "Ann"}},
		{name: "missing id", ns: student.NewStudent{Name: "Ann"}, wantErr: true},
		{name: "blank name", ns: student.NewStudent{ID: "S1", Name: "   "}, wantErr: true},
		{name: "bad id", ns: student.NewStudent{ID: "S 1", Name: "Ann"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ns.Validate(validate)
			assert.Equal(t, tt.wantErr, err != nil, err)
		})
	}
}
