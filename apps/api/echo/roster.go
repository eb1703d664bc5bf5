package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/roster"
)

type rosterApi struct {
	svc *roster.Service
}

func registerRosterAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *roster.Service) {
	api := rosterApi{svc: svc}

	g.GET("/students", api.students)
	g.GET("/students/:id", api.student)
	g.GET("/teachers", api.teachers)
	g.GET("/classrooms", api.classrooms)

	g.POST("/students", api.createStudent, jwt, adminMiddleware())
	g.POST("/teachers", api.createTeacher, jwt, adminMiddleware())
	g.POST("/classrooms", api.createClassroom, jwt, adminMiddleware())
}

func (api *rosterApi) students(ctx echo.Context) error {
	students, err := api.svc.Students()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *rosterApi) student(ctx echo.Context) error {
	s, err := api.svc.GetStudent(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *rosterApi) teachers(ctx echo.Context) error {
	teachers, err := api.svc.Teachers()
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *rosterApi) classrooms(ctx echo.Context) error {
	classrooms, err := api.svc.Classrooms()
	if err != nil {
		return errors.Wrap(err, "querying classrooms")
	}
	return ctx.JSON(http.StatusOK, classrooms)
}

func (api *rosterApi) createStudent(ctx echo.Context) error {
	var data roster.NewStudent
	if err := bind(ctx, &data, "invalid student"); err != nil {
		return err
	}
	s, err := api.svc.CreateStudent(data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *rosterApi) createTeacher(ctx echo.Context) error {
	var data roster.NewTeacher
	if err := bind(ctx, &data, "invalid teacher"); err != nil {
		return err
	}
	t, err := api.svc.CreateTeacher(data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *rosterApi) createClassroom(ctx echo.Context) error {
	var data roster.NewClassroom
	if err := bind(ctx, &data, "invalid classroom"); err != nil {
		return err
	}
	c, err := api.svc.CreateClassroom(data)
	if err != nil {
		return errors.Wrap(err, "creating classroom")
	}
	return ctx.JSON(http.StatusCreated, c)
}
