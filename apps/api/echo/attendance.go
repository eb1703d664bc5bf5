package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	g.POST("/attendance", api.record, jwt, facultyMiddleware())
	g.GET("/attendance", api.courseSummary)
	g.GET("/attendance/records", api.events)
	g.GET("/student/attendance", api.studentSummary)
}

func (api *attendanceApi) record(ctx echo.Context) error {
	var data attendance.NewEvent
	if err := bind(ctx, &data, "course, date, presentStudents required"); err != nil {
		return err
	}
	if claims, err := getContextClaims(ctx); err == nil {
		data.RecordedBy = claims.Name()
	}

	evt, err := api.svc.Record(data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusCreated, RecordResponse{Message: "Attendance recorded", Record: evt})
}

func (api *attendanceApi) events(ctx echo.Context) error {
	var filter attendance.EventFilter
	if err := bind(ctx, &filter, "invalid filter"); err != nil {
		return err
	}
	events, err := api.svc.Events(filter)
	if err != nil {
		return errors.Wrap(err, "listing attendance events")
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *attendanceApi) courseSummary(ctx echo.Context) error {
	rows, err := api.svc.CourseSummary()
	if err != nil {
		return errors.Wrap(err, "summarizing courses")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *attendanceApi) studentSummary(ctx echo.Context) error {
	rows, err := api.svc.StudentSummary(ctx.QueryParam("studentId"))
	if err != nil {
		return errors.Wrap(err, "summarizing student attendance")
	}
	return ctx.JSON(http.StatusOK, rows)
}

type RecordResponse struct {
	Message string           `json:"message"`
	Record  attendance.Event `json:"record"`
}
