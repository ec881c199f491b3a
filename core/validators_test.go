package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomValidators(t *testing.T) {
	validate, translator := NewValidator()

	type sample struct {
		RegID string `json:"reg_id" validate:"omitempty,regid"`
		Color string `json:"color" validate:"omitempty,hexcolor_"`
		Date  string `json:"date" validate:"omitempty,isodate"`
		Time  string `json:"time" validate:"omitempty,hhmm"`
		Uname string `json:"uname" validate:"omitempty,alphanum_"`
	}

	tests := []struct {
		name    string
		in      sample
		wantErr map[string]string
	}{
		{name: "empty", in: sample{}},
		{
			name: "valid",
			in:   sample{RegID: "SCT211-0001/2021", Color: "FF003C43", Date: "2024-02-29", Time: "23:59", Uname: "j_doe"},
		},
		{
			name: "invalid",
			in:   sample{RegID: "/S1", Color: "#003C43", Date: "2023-02-29", Time: "24:00", Uname: "j.doe"},
			wantErr: map[string]string{
				"reg_id": regIDText,
				"color":  hexColorText,
				"date":   isoDateText,
				"time":   hhmmText,
				"uname":  alphaNumUnderText,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.in)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			var vErrs validator.ValidationErrors
			require.ErrorAs(t, err, &vErrs)
			got := make(map[string]string, len(vErrs))
			for _, fe := range vErrs {
				got[fe.Field()] = fe.Translate(translator)
			}
			assert.Equal(t, tt.wantErr, got)
		})
	}
}

func TestRequiredTranslation(t *testing.T) {
	validate, translator := NewValidator()

	err := validate.Struct(struct {
		Name string `json:"name" validate:"required"`
	}{})
	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	assert.Equal(t, requiredText, vErrs[0].Translate(translator))
	assert.Equal(t, "name", vErrs[0].Field())
}

func TestIsValidHexColor(t *testing.T) {
	for s, want := range map[string]bool{
		"003C43":   true,
		"e3fef7":   true,
		"FF003C43": true,
		"003C4":    false,
		"#003C43":  false,
		"0003C43":  false,
		"GG3C43":   false,
		"":         false,
	} {
		assert.Equal(t, want, IsValidHexColor(s), s)
	}
}
