package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classportal/core/theme"
)

func Test_themeApi(t *testing.T) {
	app := setup(t)
	teacher, stdnt := app.teacherAndStudent(t)
	token, stdntToken := app.token(t, teacher), app.token(t, stdnt)

	custom := theme.ColorScheme{Primary: "#1a2b3c", Secondary: "FF112233", Tertiary: "abcdef", Text: "000000"}
	saved := theme.ColorScheme{Primary: "1A2B3C", Secondary: "FF112233", Tertiary: "ABCDEF", Text: "000000"}

	app.run(t, []httpTest{
		{name: "Auth required", path: "/v1/theme", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "Default", path: "/v1/theme", token: stdntToken, wantData: marshalObj(t, theme.DefaultScheme)},
		{
			name: "Teacher required", method: http.MethodPut, path: "/v1/theme", body: marshalObj(t, custom), token: stdntToken,
			wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Bad colours", method: http.MethodPut, path: "/v1/theme", token: token,
			body:     marshalObj(t, theme.ColorScheme{Primary: "12345", Secondary: "GGGGGG", Tertiary: "abcdef", Text: ""}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{
				"primary_color":   "must be a RRGGBB or AARRGGBB hex color, without '#'",
				"secondary_color": "must be a RRGGBB or AARRGGBB hex color, without '#'",
				"text_color":      "this field is required",
			}),
		},
		{name: "Save", method: http.MethodPut, path: "/v1/theme", body: marshalObj(t, custom), token: token, wantData: marshalObj(t, saved)},
		{name: "Saved scheme is served", path: "/v1/theme", token: stdntToken, wantData: marshalObj(t, saved)},
	})

	cs, err := app.deps().ThemeSvc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saved, cs)

	app.run(t, []httpTest{
		{
			name: "Reset requires teacher", method: http.MethodPost, path: "/v1/theme/reset", token: stdntToken,
			wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Reset", method: http.MethodPost, path: "/v1/theme/reset", token: token, wantData: marshalObj(t, theme.DefaultScheme)},
		{name: "Default again", path: "/v1/theme", token: stdntToken, wantData: marshalObj(t, theme.DefaultScheme)},
	})
}
