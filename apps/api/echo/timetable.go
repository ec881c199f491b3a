package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classportal/core"
	"github.com/trezcool/classportal/core/timetable"
)

type timetableApi struct {
	svc      timetable.Service
	validate *validator.Validate
	conf     *core.Config
}

func registerTimetableAPI(g *echo.Group, jwt, teacher echo.MiddlewareFunc, deps ServerDeps) {
	api := timetableApi{svc: deps.TimetableSvc, validate: deps.Validate, conf: deps.Conf}

	tg := g.Group("/timetable", jwt)
	tg.GET("", api.week)
	tg.GET("/today", api.today)
	tg.GET("/:day", api.day)
	tg.POST("/:day", api.addLecture, teacher)
	tg.DELETE("/:day/:index", api.removeLecture, teacher)
}

// Handlers

func (api *timetableApi) week(ctx echo.Context) error {
	week, err := api.svc.Week(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting week")
	}
	return ctx.JSON(http.StatusOK, week)
}

func (api *timetableApi) today(ctx echo.Context) error {
	now := core.NowFunc()
	if loc := api.conf.Portal.Location; loc != nil {
		now = now.In(loc)
	}
	lectures, err := api.svc.Today(ctx.Request().Context(), now)
	if err != nil {
		return errors.Wrap(err, "getting today's lectures")
	}
	return ctx.JSON(http.StatusOK, lectures)
}

func (api *timetableApi) day(ctx echo.Context) error {
	day, err := bindWeekday(ctx)
	if err != nil {
		return err
	}

	lectures, err := api.svc.Day(ctx.Request().Context(), day)
	if err != nil {
		return errors.Wrap(err, "getting day's lectures")
	}
	return ctx.JSON(http.StatusOK, lectures)
}

func (api *timetableApi) addLecture(ctx echo.Context) error {
	day, err := bindWeekday(ctx)
	if err != nil {
		return err
	}
	var data timetable.Lecture
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Lecture")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	lectures, err := api.svc.AddLecture(ctx.Request().Context(), day, data)
	if err != nil {
		return errors.Wrap(err, "adding lecture")
	}
	return ctx.JSON(http.StatusCreated, lectures)
}

func (api *timetableApi) removeLecture(ctx echo.Context) error {
	day, err := bindWeekday(ctx)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		return errHttpNotFound
	}

	lectures, err := api.svc.RemoveLecture(ctx.Request().Context(), day, index)
	if err != nil {
		return errors.Wrap(err, "removing lecture")
	}
	return ctx.JSON(http.StatusOK, lectures)
}

// bindWeekday reads the `:day` path param; unknown days are not found.
func bindWeekday(ctx echo.Context) (time.Weekday, error) {
	day, err := timetable.ParseWeekday(ctx.Param("day"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return day, nil
}
