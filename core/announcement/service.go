package announcement

import (
	"fmt"
	"net/mail"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/roster"
)

// Audiences
const (
	AudienceAll      = "all"
	AudienceStudents = "students"
	AudienceFaculty  = "faculty"
)

var errInvalidAudience = errors.New("audience must be one of all, students, faculty")

type Announcement struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	PostedBy string    `json:"postedBy"`
	Audience string    `json:"audience"`
	Date     time.Time `json:"date"` // UTC
}

// VisibleTo reports whether members of audience should see the announcement.
func (a Announcement) VisibleTo(audience string) bool {
	return audience == AudienceAll || a.Audience == AudienceAll || a.Audience == audience
}

// NewAnnouncement contains information needed to post an Announcement.
type NewAnnouncement struct {
	Title    string `json:"title" validate:"required,notblank"`
	Message  string `json:"message" validate:"required,notblank"`
	PostedBy string `json:"postedBy" validate:"required,notblank"`
	Audience string `json:"audience" validate:"omitempty,oneof=all students faculty"`
}

func (na *NewAnnouncement) Clean() {
	na.Title = core.CleanString(na.Title)
	na.Message = core.CleanString(na.Message)
	na.PostedBy = core.CleanString(na.PostedBy)
	na.Audience = core.CleanString(na.Audience, true /* lower */)
	if na.Audience == "" {
		na.Audience = AudienceAll
	}
}

type (
	// Repository stores announcements. QueryAnnouncements returns the newest first.
	Repository interface {
		CreateAnnouncement(a Announcement) (Announcement, error)
		QueryAnnouncements() ([]Announcement, error)
	}

	// Recipients lists the people an announcement can be mailed to.
	Recipients interface {
		Students() ([]roster.Student, error)
		Teachers() ([]roster.Teacher, error)
	}

	Service struct {
		repo       Repository
		recipients Recipients
		mailSvc    core.EmailService
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(
	repo Repository,
	recipients Recipients,
	mailSvc core.EmailService,
	validate *validator.Validate,
	translator ut.Translator,
) *Service {
	return &Service{
		repo:       repo,
		recipients: recipients,
		mailSvc:    mailSvc,
		validate:   validate,
		translator: translator,
	}
}

// Post stores the announcement and mails it to its audience.
func (svc *Service) Post(na NewAnnouncement) (Announcement, error) {
	na.Clean()
	if err := svc.validate.Struct(na); err != nil {
		return Announcement{}, core.TranslateValidationErrors(err, svc.translator, "title, message, postedBy required")
	}

	a, err := svc.repo.CreateAnnouncement(Announcement{
		ID:       uuid.New().String(),
		Title:    na.Title,
		Message:  na.Message,
		PostedBy: na.PostedBy,
		Audience: na.Audience,
		Date:     time.Now().UTC(),
	})
	if err != nil {
		return Announcement{}, errors.Wrap(err, "creating announcement")
	}

	if err := svc.notify(a); err != nil {
		return a, errors.Wrap(err, "notifying audience")
	}
	return a, nil
}

// Query returns the announcements visible to audience, newest first.
// An empty audience returns everything.
func (svc *Service) Query(audience string) ([]Announcement, error) {
	audience = core.CleanString(audience, true /* lower */)
	switch audience {
	case "":
		audience = AudienceAll
	case AudienceAll, AudienceStudents, AudienceFaculty:
	default:
		return nil, core.NewValidationError(errInvalidAudience, core.FieldError{Field: "audience", Error: errInvalidAudience.Error()})
	}

	all, err := svc.repo.QueryAnnouncements()
	if err != nil {
		return nil, errors.Wrap(err, "querying announcements")
	}
	res := make([]Announcement, 0, len(all))
	for _, a := range all {
		if a.VisibleTo(audience) {
			res = append(res, a)
		}
	}
	return res, nil
}

func (svc *Service) notify(a Announcement) error {
	if svc.mailSvc == nil {
		return nil
	}

	var bcc []mail.Address
	if a.Audience != AudienceFaculty {
		students, err := svc.recipients.Students()
		if err != nil {
			return errors.Wrap(err, "querying students")
		}
		for _, s := range students {
			if s.Email != "" {
				bcc = append(bcc, mail.Address{Name: s.Name, Address: s.Email})
			}
		}
	}
	if a.Audience != AudienceStudents {
		teachers, err := svc.recipients.Teachers()
		if err != nil {
			return errors.Wrap(err, "querying teachers")
		}
		for _, t := range teachers {
			if t.Email != "" {
				bcc = append(bcc, mail.Address{Name: t.Name, Address: t.Email})
			}
		}
	}
	if len(bcc) == 0 {
		return nil
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		Bcc:     bcc,
		Subject: a.Title,
		BodyStr: fmt.Sprintf("%s\n\n(posted by %s)", a.Message, a.PostedBy),
	})
	return nil
}
