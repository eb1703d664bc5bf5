package user

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound       = errors.New("user not found")
	ErrEmailExists    = errors.New("a user with this email already exists")
	ErrUsernameExists = errors.New("a user with this username already exists")
)

type (
	Repository interface {
		CheckUsernameUniqueness(username, email string, excludedUsers ...User) error
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByUsernameOrEmail(username string) (User, error)
		UpdateUser(usr User) (User, error)
	}

	Service struct {
		repo       Repository
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(repo Repository, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{repo: repo, validate: validate, translator: translator}
}

func (svc *Service) checkUniqueness(uname, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(uname, email, exclUsers...); err != nil {
		var field string
		switch err {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

// Create stores a new active user. nu must have been validated.
func (svc *Service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:        uuid.New().String(),
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		IsActive:  true,
		Roles:     nu.Roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if usr.Roles == nil {
		usr.Roles = []string{}
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(usr)
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByUsernameOrEmail(uname string) (User, error) {
	return svc.repo.GetUserByUsernameOrEmail(core.CleanString(uname, true /* lower */))
}

func (svc *Service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(usr)
}

// Seed creates the configured accounts. Existing usernames and emails are skipped.
func (svc *Service) Seed(users []core.SeedUser) (int, error) {
	var created int
	for _, su := range users {
		uname := core.CleanString(su.Username, true /* lower */)
		email := core.CleanString(su.Email, true /* lower */)
		if uname == "" && email == "" {
			return created, errors.Errorf("seed user %q: one of username or email is required", su.Name)
		}
		if su.PasswordHash == "" {
			return created, errors.Errorf("seed user %q: passwordHash is required", su.Name)
		}
		if err := svc.repo.CheckUsernameUniqueness(uname, email); err != nil {
			if err == ErrUsernameExists || err == ErrEmailExists {
				continue
			}
			return created, errors.Wrapf(err, "checking seed user %q", su.Name)
		}
		roles := core.DedupeStrings(su.Roles)
		if roles == nil {
			roles = []string{}
		}

		now := time.Now().UTC()
		if _, err := svc.repo.CreateUser(User{
			ID:           uuid.New().String(),
			Name:         core.CleanString(su.Name),
			Username:     uname,
			Email:        email,
			IsActive:     true,
			Roles:        roles,
			PasswordHash: []byte(su.PasswordHash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return created, errors.Wrapf(err, "creating seed user %q", su.Name)
		}
		created++
	}
	return created, nil
}
