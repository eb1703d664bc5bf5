package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/coursework"
	"github.com/trezcool/darasa/core/roster"
	"github.com/trezcool/darasa/core/timetable"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/services/metrics"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
	"github.com/trezcool/darasa/storage/files"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	db := inmemdb.Open()
	fileStore, err := files.NewLocalStoreFromConfig(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up uploads: %v", err), err)
	}
	metricsSvc := metrics.New("darasa")

	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	// set up services
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), validate, translator)
	rosterSvc := roster.NewService(inmemdb.NewRosterRepository(db), validate, translator)
	attendanceSvc := attendance.NewService(attendance.ServiceDeps{
		Ledger:           inmemdb.NewLedger(db),
		Roster:           rosterSvc,
		Validate:         validate,
		Translator:       translator,
		Logger:           logger,
		Observers:        []attendance.Observer{metricsSvc},
		StrictReferences: conf.Attendance.StrictReferences,
	})
	announcementSvc := announcement.NewService(inmemdb.NewAnnouncementRepository(db), rosterSvc, mailSvc, validate, translator)
	courseworkSvc := coursework.NewService(inmemdb.NewCourseworkRepository(db), fileStore, validate, translator)
	timetableSvc := timetable.NewService(inmemdb.NewTimetableRepository(db), rosterSvc, validate, translator)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	if err = seed(conf, logger, usrSvc, rosterSvc); err != nil {
		logger.Fatal(fmt.Sprintf("seeding data: %v", err), err)
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			Metrics:         metricsSvc,
			Validate:        validate,
			Translator:      translator,
			UserSvc:         usrSvc,
			RosterSvc:       rosterSvc,
			AttendanceSvc:   attendanceSvc,
			AnnouncementSvc: announcementSvc,
			CourseworkSvc:   courseworkSvc,
			TimetableSvc:    timetableSvc,
			UploadsDir:      fileStore.Dir(),
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
