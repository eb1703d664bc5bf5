package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/announcement"
)

type announcementApi struct {
	svc *announcement.Service
}

func registerAnnouncementAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *announcement.Service) {
	api := announcementApi{svc: svc}

	g.POST("/announcements", api.post, jwt, facultyMiddleware())
	g.GET("/announcements", api.query)
	g.GET("/student/announcements", api.queryForStudents)
}

func (api *announcementApi) post(ctx echo.Context) error {
	var data announcement.NewAnnouncement
	if err := bind(ctx, &data, "title, message, postedBy required"); err != nil {
		return err
	}
	if claims, err := getContextClaims(ctx); err == nil && data.PostedBy == "" {
		data.PostedBy = claims.Name()
	}

	a, err := api.svc.Post(data)
	if err != nil {
		return errors.Wrap(err, "posting announcement")
	}
	return ctx.JSON(http.StatusCreated, AnnouncementResponse{Message: "Announcement posted", Announcement: a})
}

func (api *announcementApi) query(ctx echo.Context) error {
	res, err := api.svc.Query(ctx.QueryParam("audience"))
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *announcementApi) queryForStudents(ctx echo.Context) error {
	res, err := api.svc.Query(announcement.AudienceStudents)
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	return ctx.JSON(http.StatusOK, res)
}

type AnnouncementResponse struct {
	Message      string                    `json:"message"`
	Announcement announcement.Announcement `json:"announcement"`
}
