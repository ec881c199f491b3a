package echoapi

import (
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classportal/core/theme"
)

type themeApi struct {
	svc      theme.Service
	validate *validator.Validate

	mu     sync.RWMutex
	scheme theme.ColorScheme // as loaded at start up, then as last saved
}

func registerThemeAPI(g *echo.Group, jwt, teacher echo.MiddlewareFunc, deps ServerDeps) {
	api := &themeApi{svc: deps.ThemeSvc, validate: deps.Validate, scheme: deps.Scheme}

	tg := g.Group("/theme", jwt)
	tg.GET("", api.get)
	tg.PUT("", api.save, teacher)
	tg.POST("/reset", api.reset, teacher)
}

// Handlers

func (api *themeApi) get(ctx echo.Context) error {
	api.mu.RLock()
	cs := api.scheme
	api.mu.RUnlock()
	return ctx.JSON(http.StatusOK, cs)
}

func (api *themeApi) save(ctx echo.Context) error {
	var data theme.ColorScheme
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ColorScheme")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	cs, err := api.svc.Save(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving color scheme")
	}
	api.scheme = cs
	return ctx.JSON(http.StatusOK, cs)
}

func (api *themeApi) reset(ctx echo.Context) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	cs, err := api.svc.Reset(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "resetting color scheme")
	}
	api.scheme = cs
	return ctx.JSON(http.StatusOK, cs)
}
