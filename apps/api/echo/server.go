package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/coursework"
	"github.com/trezcool/darasa/core/roster"
	"github.com/trezcool/darasa/core/timetable"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/services/metrics"
)

type ServerDeps struct {
	Conf       *core.Config
	Logger     core.Logger
	Metrics    *metrics.Metrics // optional
	Validate   *validator.Validate
	Translator ut.Translator

	UserSvc         *user.Service
	RosterSvc       *roster.Service
	AttendanceSvc   *attendance.Service
	AnnouncementSvc *announcement.Service
	CourseworkSvc   *coursework.Service
	TimetableSvc    *timetable.Service

	// UploadsDir is served under /uploads when set.
	UploadsDir string
}

type Server struct {
	ServerDeps
	app      *echo.Echo
	auth     *authenticator
	errors   chan error
	shutdown chan os.Signal
}

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		ServerDeps: deps,
		app:        echo.New(),
		auth:       newAuthenticator(deps.Conf),
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if s.Metrics != nil {
		s.app.Use(s.Metrics.Middleware())
	}
	if !s.Conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.Conf.Debug || s.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORS())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger, s.Translator, s.SignalShutdown)
	s.app.Debug = s.Conf.Debug

	s.app.GET("/", s.home)
	if s.Metrics != nil {
		s.app.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
	}
	if s.UploadsDir != "" {
		s.app.Static("/uploads", s.UploadsDir)
	}

	g := s.app.Group("")
	jwt := s.auth.middleware()

	registerUserAPI(g, jwt, s.auth, s.UserSvc, s.Validate)
	registerRosterAPI(g, jwt, s.RosterSvc)
	registerAttendanceAPI(g, jwt, s.AttendanceSvc)
	registerAnnouncementAPI(g, jwt, s.AnnouncementSvc)
	registerCourseworkAPI(g, jwt, s.CourseworkSvc)
	registerTimetableAPI(g, jwt, s.TimetableSvc)
}

func (s *Server) Start() {
	s.Logger.Info("API listening on " + s.Conf.Server.Address)
	if err := s.app.Start(s.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

// Errors receives the error that stopped the server.
func (s *Server) Errors() <-chan error { return s.errors }

// ShutdownSignal receives OS signals and internal shutdown requests.
func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown asks the owner of the server to shut it down.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already requested
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// UserClaims returns the JWT claims of usr.
func (s *Server) UserClaims(usr user.User) *Claims {
	return s.auth.userClaims(usr)
}

// GenerateToken signs claims with the server secret.
func (s *Server) GenerateToken(claims *Claims) (string, error) {
	return s.auth.generateToken(claims)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.Conf.AppName+" API!")
}
