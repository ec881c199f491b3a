package theme

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classportal/core"
)

// ColorScheme holds the portal colours as hex strings without '#': RRGGBB or AARRGGBB.
type ColorScheme struct {
	Primary   string `json:"primary_color" validate:"required,hexcolor_"`
	Secondary string `json:"secondary_color" validate:"required,hexcolor_"`
	Tertiary  string `json:"tertiary_color" validate:"required,hexcolor_"`
	Text      string `json:"text_color" validate:"required,hexcolor_"`
}

var DefaultScheme = ColorScheme{
	Primary:   "003C43",
	Secondary: "135D66",
	Tertiary:  "77B0AA",
	Text:      "E3FEF7",
}

func (cs *ColorScheme) Clean() {
	clean := func(s string) string {
		return strings.ToUpper(strings.TrimPrefix(core.CleanString(s), "#"))
	}
	cs.Primary = clean(cs.Primary)
	cs.Secondary = clean(cs.Secondary)
	cs.Tertiary = clean(cs.Tertiary)
	cs.Text = clean(cs.Text)
}

func (cs *ColorScheme) Validate(validate *validator.Validate) error {
	cs.Clean()
	return validate.Struct(cs)
}

// IsValid reports whether every colour of the scheme parses.
func (cs ColorScheme) IsValid() bool {
	for _, c := range []string{cs.Primary, cs.Secondary, cs.Tertiary, cs.Text} {
		if !core.IsValidHexColor(c) {
			return false
		}
	}
	return true
}
