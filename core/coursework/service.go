package coursework

import (
	"encoding/json"
	"io"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// Attachment is an opaque reference to an uploaded file. Coursework never interprets it.
type Attachment string

func (a Attachment) MarshalJSON() ([]byte, error) {
	if a == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(a))
}

// Upload is a file received along with coursework.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type Note struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	FileURL     Attachment `json:"fileUrl"`
	PostedBy    string     `json:"postedBy"`
	Date        time.Time  `json:"date"` // UTC
}

type Assignment struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Course      string     `json:"course"`
	DueDate     core.Date  `json:"dueDate"`
	FileURL     Attachment `json:"fileUrl"`
	PostedBy    string     `json:"postedBy"`
	Date        time.Time  `json:"date"` // UTC
}

// NewNote contains information needed to share a Note.
type NewNote struct {
	Title       string `json:"title" form:"title" validate:"required,notblank"`
	Description string `json:"description" form:"description"`
	PostedBy    string `json:"postedBy" form:"postedBy" validate:"required,notblank"`
}

func (nn *NewNote) Clean() {
	nn.Title = core.CleanString(nn.Title)
	nn.Description = core.CleanString(nn.Description)
	nn.PostedBy = core.CleanString(nn.PostedBy)
}

// NewAssignment contains information needed to hand out an Assignment.
type NewAssignment struct {
	Title       string `json:"title" form:"title" validate:"required,notblank"`
	Description string `json:"description" form:"description"`
	Course      string `json:"course" form:"course" validate:"required,notblank"`
	DueDate     string `json:"dueDate" form:"dueDate" validate:"required,isodate"`
	PostedBy    string `json:"postedBy" form:"postedBy" validate:"required,notblank"`
}

func (na *NewAssignment) Clean() {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Course = core.CleanString(na.Course)
	na.DueDate = core.CleanString(na.DueDate)
	na.PostedBy = core.CleanString(na.PostedBy)
}

type (
	// Repository stores coursework. Query methods return the newest first.
	Repository interface {
		CreateNote(n Note) (Note, error)
		QueryNotes() ([]Note, error)
		CreateAssignment(a Assignment) (Assignment, error)
		QueryAssignments() ([]Assignment, error)
	}

	// FileStore keeps uploaded files and hands back a reference to them.
	FileStore interface {
		Save(up Upload) (Attachment, error)
	}

	Service struct {
		repo       Repository
		files      FileStore
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(repo Repository, files FileStore, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{repo: repo, files: files, validate: validate, translator: translator}
}

// ShareNote stores a note. up is optional.
func (svc *Service) ShareNote(nn NewNote, up *Upload) (Note, error) {
	nn.Clean()
	if err := svc.validate.Struct(nn); err != nil {
		return Note{}, core.TranslateValidationErrors(err, svc.translator, "title and postedBy are required")
	}

	att, err := svc.save(up)
	if err != nil {
		return Note{}, err
	}
	n, err := svc.repo.CreateNote(Note{
		ID:          uuid.New().String(),
		Title:       nn.Title,
		Description: nn.Description,
		FileURL:     att,
		PostedBy:    nn.PostedBy,
		Date:        time.Now().UTC(),
	})
	return n, errors.Wrap(err, "creating note")
}

func (svc *Service) Notes() ([]Note, error) {
	return svc.repo.QueryNotes()
}

// PostAssignment stores an assignment. up is optional.
func (svc *Service) PostAssignment(na NewAssignment, up *Upload) (Assignment, error) {
	na.Clean()
	if err := svc.validate.Struct(na); err != nil {
		return Assignment{}, core.TranslateValidationErrors(err, svc.translator, "title, course, dueDate and postedBy are required")
	}
	due, err := core.ParseDate(na.DueDate)
	if err != nil {
		return Assignment{}, core.NewValidationError(err, core.FieldError{Field: "dueDate", Error: err.Error()})
	}

	att, err := svc.save(up)
	if err != nil {
		return Assignment{}, err
	}
	a, err := svc.repo.CreateAssignment(Assignment{
		ID:          uuid.New().String(),
		Title:       na.Title,
		Description: na.Description,
		Course:      na.Course,
		DueDate:     due,
		FileURL:     att,
		PostedBy:    na.PostedBy,
		Date:        time.Now().UTC(),
	})
	return a, errors.Wrap(err, "creating assignment")
}

func (svc *Service) Assignments() ([]Assignment, error) {
	return svc.repo.QueryAssignments()
}

func (svc *Service) save(up *Upload) (Attachment, error) {
	if up == nil || svc.files == nil {
		return "", nil
	}
	att, err := svc.files.Save(*up)
	if err != nil {
		return "", errors.Wrap(err, "saving upload")
	}
	return att, nil
}
