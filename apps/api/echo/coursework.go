package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/coursework"
)

type courseworkApi struct {
	svc *coursework.Service
}

func registerCourseworkAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *coursework.Service) {
	api := courseworkApi{svc: svc}

	g.POST("/notes", api.shareNote, jwt, facultyMiddleware())
	g.GET("/notes", api.notes)
	g.GET("/student/notes", api.notes)

	g.POST("/assignments", api.postAssignment, jwt, facultyMiddleware())
	g.GET("/assignments", api.assignments)
	g.GET("/student/assignments", api.assignments)
}

func (api *courseworkApi) shareNote(ctx echo.Context) error {
	var data coursework.NewNote
	if err := bind(ctx, &data, "title and postedBy are required"); err != nil {
		return err
	}
	if claims, err := getContextClaims(ctx); err == nil && data.PostedBy == "" {
		data.PostedBy = claims.Name()
	}

	up, closer, err := formUpload(ctx, "file")
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	n, err := api.svc.ShareNote(data, up)
	if err != nil {
		return errors.Wrap(err, "sharing note")
	}
	return ctx.JSON(http.StatusCreated, NoteResponse{Message: "Note shared successfully", Note: n})
}

func (api *courseworkApi) notes(ctx echo.Context) error {
	notes, err := api.svc.Notes()
	if err != nil {
		return errors.Wrap(err, "querying notes")
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *courseworkApi) postAssignment(ctx echo.Context) error {
	var data coursework.NewAssignment
	if err := bind(ctx, &data, "title, course, dueDate and postedBy are required"); err != nil {
		return err
	}
	if claims, err := getContextClaims(ctx); err == nil && data.PostedBy == "" {
		data.PostedBy = claims.Name()
	}

	up, closer, err := formUpload(ctx, "file")
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	a, err := api.svc.PostAssignment(data, up)
	if err != nil {
		return errors.Wrap(err, "posting assignment")
	}
	return ctx.JSON(http.StatusCreated, AssignmentResponse{Message: "Assignment posted", Assignment: a})
}

func (api *courseworkApi) assignments(ctx echo.Context) error {
	assignments, err := api.svc.Assignments()
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

type (
	NoteResponse struct {
		Message string          `json:"message"`
		Note    coursework.Note `json:"note"`
	}

	AssignmentResponse struct {
		Message    string                `json:"message"`
		Assignment coursework.Assignment `json:"assignment"`
	}
)
