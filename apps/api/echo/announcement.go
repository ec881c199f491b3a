package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classportal/core/announcement"
)

type announcementApi struct {
	svc      announcement.Service
	auth     *authenticator
	validate *validator.Validate
}

func registerAnnouncementAPI(g *echo.Group, jwt, teacher echo.MiddlewareFunc, auth *authenticator, deps ServerDeps) {
	api := announcementApi{svc: deps.AnnouncementSvc, auth: auth, validate: deps.Validate}

	ag := g.Group("/announcements", jwt)
	ag.GET("", api.list)
	ag.POST("", api.post, teacher)
	ag.DELETE("/:id", api.delete, teacher)
}

// Handlers

func (api *announcementApi) list(ctx echo.Context) error {
	ans, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing announcements")
	}
	if ans == nil {
		ans = []announcement.Announcement{}
	}
	return ctx.JSON(http.StatusOK, ans)
}

func (api *announcementApi) post(ctx echo.Context) error {
	usr, err := api.auth.contextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	var data announcement.NewAnnouncement
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	an, err := api.svc.Post(ctx.Request().Context(), data, usr.Name)
	if err != nil {
		return errors.Wrap(err, "posting announcement")
	}
	return ctx.JSON(http.StatusCreated, an)
}

func (api *announcementApi) delete(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	return ctx.NoContent(http.StatusNoContent)
}
