package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classportal/core"
	"github.com/trezcool/classportal/core/attendance"
)

type attendanceApi struct {
	svc      attendance.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt, teacher echo.MiddlewareFunc, deps ServerDeps) {
	api := attendanceApi{svc: deps.AttendanceSvc, validate: deps.Validate}

	ag := g.Group("/attendance", jwt)
	ag.GET("", api.query)
	ag.GET("/report", api.report)
	ag.GET("/units", api.units)
	ag.GET("/students/:id", api.studentHistory)
	ag.POST("", api.recordSession, teacher)
	ag.DELETE("", api.clear, teacher)
}

// Handlers

func (api *attendanceApi) query(ctx echo.Context) error {
	filter := new(attendance.RecordFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to RecordFilter")
	}
	filter.Clean()
	if err := filter.Validate(); err != nil {
		return err
	}

	recs, err := api.svc.List(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying records")
	}
	if recs == nil {
		recs = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) recordSession(ctx echo.Context) error {
	var data attendance.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	recs, err := api.svc.RecordSession(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording session")
	}
	return ctx.JSON(http.StatusCreated, recs)
}

// clear deletes every record; it requires `?confirm=true`.
func (api *attendanceApi) clear(ctx echo.Context) error {
	if confirm, _ := strconv.ParseBool(ctx.QueryParam("confirm")); !confirm {
		return core.NewValidationError(nil, core.FieldError{Field: "confirm", Error: "must be true to delete every attendance record"})
	}

	cnt, err := api.svc.ClearAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "clearing records")
	}
	return ctx.JSON(http.StatusOK, DeletedResponse{Deleted: cnt})
}

func (api *attendanceApi) report(ctx echo.Context) error {
	var unit []string
	if u := core.CleanString(ctx.QueryParam("unit")); u != "" {
		unit = []string{u}
	}

	summaries, err := api.svc.Report(ctx.Request().Context(), unit...)
	if err != nil {
		return errors.Wrap(err, "building report")
	}

	bands := api.svc.Bands()
	resp := ReportResponse{Bands: bands, Rows: make([]ReportRow, 0, len(summaries))}
	if len(unit) > 0 {
		resp.Unit = unit[0]
	}
	for _, s := range summaries {
		resp.Rows = append(resp.Rows, ReportRow{Summary: s, Band: s.Band(bands)})
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *attendanceApi) units(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Units())
}

func (api *attendanceApi) studentHistory(ctx echo.Context) error {
	hist, err := api.svc.StudentHistory(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting student history")
	}
	return ctx.JSON(http.StatusOK, hist)
}

type (
	ReportRow struct {
		attendance.Summary
		Band attendance.Band `json:"band"`
	}

	ReportResponse struct {
		Unit  string           `json:"unit,omitempty"`
		Bands attendance.Bands `json:"bands"`
		Rows  []ReportRow      `json:"rows"`
	}
)
