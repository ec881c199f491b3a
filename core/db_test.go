package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterOrderings(t *testing.T) {
	tests := []struct {
		name     string
		ordering []DBOrdering
		want     []DBOrdering
	}{
		{name: "none", want: nil},
		{name: "unknown fields dropped", ordering: []DBOrdering{{Field: "password_hash"}, {Field: "1; DROP TABLE users"}}, want: nil},
		{
			name:     "canonical names kept in order",
			ordering: []DBOrdering{{Field: "Name", Ascending: true}, {Field: "lol"}, {Field: "CREATED_AT"}},
			want:     []DBOrdering{{Field: "name", Ascending: true}, {Field: "created_at"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterOrderings(tt.ordering, "name", "created_at"))
		})
	}
}

func TestDBOrdering_String(t *testing.T) {
	assert.Equal(t, "name ASC", DBOrdering{Field: "name", Ascending: true}.String())
	assert.Equal(t, "created_at DESC", DBOrdering{Field: "created_at"}.String())
}
