package files

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/coursework"
)

var (
	errTooLarge = errors.New("file is too large")
	errNoName   = errors.New("file name is required")

	unsafeChars = regexp.MustCompile(`[^\w.\-]+`)
)

// LocalStore saves uploads under a directory served at BaseURL.
type LocalStore struct {
	dir     string
	baseURL string
	maxSize int64
}

var _ coursework.FileStore = (*LocalStore)(nil) // interface compliance check

// NewLocalStore creates dir if needed. maxSize <= 0 disables the size limit.
func NewLocalStore(dir, baseURL string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating uploads dir %s", dir)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}, nil
}

func NewLocalStoreFromConfig(conf *core.Config) (*LocalStore, error) {
	return NewLocalStore(conf.Uploads.Dir, conf.Uploads.BaseURL, conf.Uploads.MaxSize)
}

func (s *LocalStore) Dir() string { return s.dir }

// Save writes up to a uniquely named file and returns its public URL.
func (s *LocalStore) Save(up coursework.Upload) (coursework.Attachment, error) {
	name := sanitizeName(up.Filename)
	if name == "" {
		return "", core.NewValidationError(errNoName, core.FieldError{Field: "file", Error: errNoName.Error()})
	}
	if s.maxSize > 0 && up.Size > s.maxSize {
		return "", core.NewValidationError(errTooLarge, core.FieldError{Field: "file", Error: errTooLarge.Error()})
	}

	name = uuid.New().String() + "-" + name
	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "creating file")
	}

	src := up.Content
	if s.maxSize > 0 {
		src = io.LimitReader(up.Content, s.maxSize+1)
	}
	n, err := io.Copy(f, src)
	if cErr := f.Close(); err == nil {
		err = cErr
	}
	if err == nil && s.maxSize > 0 && n > s.maxSize {
		err = core.NewValidationError(errTooLarge, core.FieldError{Field: "file", Error: errTooLarge.Error()})
	}
	if err != nil {
		_ = os.Remove(path)
		if core.IsValidationError(err) {
			return "", err
		}
		return "", errors.Wrap(err, "writing file")
	}
	return coursework.Attachment(s.baseURL + "/" + name), nil
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_")
}
