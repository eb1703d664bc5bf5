package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/timetable"
)

type timetableApi struct {
	svc *timetable.Service
}

func registerTimetableAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *timetable.Service) {
	api := timetableApi{svc: svc}

	g.POST("/generate_timetable", api.generate, jwt, adminMiddleware())
	g.GET("/timetable", api.get)
	g.GET("/student/timetable", api.get)
}

// generate stores timetableData when given, and generates a timetable otherwise.
func (api *timetableApi) generate(ctx echo.Context) error {
	var data GenerateTimetableRequest
	if err := bind(ctx, &data, "timetableData is required"); err != nil {
		return err
	}

	var tt timetable.Timetable
	var err error
	if data.TimetableData != nil {
		tt, err = api.svc.Set(*data.TimetableData)
	} else {
		tt, err = api.svc.Generate(data.GenerateParams)
	}
	if err != nil {
		return errors.Wrap(err, "generating timetable")
	}
	return ctx.JSON(http.StatusOK, TimetableResponse{Message: "Timetable generated successfully", Timetable: tt})
}

func (api *timetableApi) get(ctx echo.Context) error {
	tt, err := api.svc.Get()
	if err != nil {
		return errors.Wrap(err, "getting timetable")
	}
	return ctx.JSON(http.StatusOK, TimetableResponse{Timetable: tt})
}

type (
	GenerateTimetableRequest struct {
		TimetableData *timetable.Timetable `json:"timetableData"`
		timetable.GenerateParams
	}

	TimetableResponse struct {
		Message   string              `json:"message,omitempty"`
		Timetable timetable.Timetable `json:"timetable"`
	}
)
