package echoapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/coursework"
)

// bind binds the request into i. A JSON value of the wrong type becomes a
// *core.ValidationError carrying msg and the offending field.
func bind(ctx echo.Context, i interface{}, msg string) error {
	err := ctx.Bind(i)
	if err == nil {
		return nil
	}
	if herr, ok := err.(*echo.HTTPError); ok {
		if ute, ok := herr.Internal.(*json.UnmarshalTypeError); ok {
			field := ute.Field
			if field == "" {
				field = "body"
			}
			return core.NewValidationError(
				core.ValidationMessage(msg),
				core.FieldError{Field: field, Error: "expected " + jsonKind(ute.Type)},
			)
		}
	}
	return errors.Wrap(err, "binding request")
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "a list"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	default:
		return "an object"
	}
}

// formUpload returns the optional file posted in the multipart field name.
// The returned closer must be called once the upload has been consumed.
func formUpload(ctx echo.Context, name string) (*coursework.Upload, io.Closer, error) {
	ctype := ctx.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		return nil, nil, nil
	}

	fh, err := ctx.FormFile(name)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil, nil
		}
		return nil, nil, errors.Wrap(err, fmt.Sprintf("reading form file %q", name))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, errors.Wrap(err, fmt.Sprintf("opening form file %q", name))
	}
	return &coursework.Upload{Filename: fh.Filename, Size: fh.Size, Content: f}, f, nil
}
