package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/maktabhub/maktab/apps/api/echo"
	"github.com/maktabhub/maktab/core"
	"github.com/maktabhub/maktab/core/rating"
	"github.com/maktabhub/maktab/core/stats"
	"github.com/maktabhub/maktab/core/submission"
	"github.com/maktabhub/maktab/core/task"
	"github.com/maktabhub/maktab/core/user"
	emailsvc "github.com/maktabhub/maktab/services/email"
	gradersvc "github.com/maktabhub/maktab/services/grader"
	logsvc "github.com/maktabhub/maktab/services/logger"
	"github.com/maktabhub/maktab/storage/database"
	sqlxrepos "github.com/maktabhub/maktab/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.Conf

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	var grader core.Grader
	if conf.Gemini.APIKey == "" {
		grader = gradersvc.NewDummyService()
	} else {
		grader, err = gradersvc.NewGeminiService(context.Background(), logger)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up grader: %v", err), err)
		}
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	ratSvc := rating.NewService(sqlxrepos.NewRatingRepository(db))
	taskSvc := task.NewService(sqlxrepos.NewTaskRepository(db))
	subSvc := submission.NewService(sqlxrepos.NewSubmissionRepository(db), taskSvc, usrSvc, grader, mailSvc)
	statsSvc := stats.NewService(usrSvc, ratSvc, subSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Addr:          conf.Server.Address(),
			Logger:        logger,
			Validate:      validate,
			Translator:    translator,
			UserSvc:       usrSvc,
			RatingSvc:     ratSvc,
			TaskSvc:       taskSvc,
			SubmissionSvc: subSvc,
			StatsSvc:      statsSvc,
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

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
