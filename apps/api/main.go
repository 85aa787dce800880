package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Skc-VitInProjects/S.A.F.A.L/core"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/attendance"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/grade"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/importing"
	"github.com/Skc-VitInProjects/S.A.F.A.L/core/student"

	echoapi "github.com/Skc-VitInProjects/S.A.F.A.L/apps/api/echo"
	emailsvc "github.com/Skc-VitInProjects/S.A.F.A.L/services/email"
	logsvc "github.com/Skc-VitInProjects/S.A.F.A.L/services/logger"
	"github.com/Skc-VitInProjects/S.A.F.A.L/storage/database"
	inmemdb "github.com/Skc-VitInProjects/S.A.F.A.L/storage/database/inmem"
	"github.com/Skc-VitInProjects/S.A.F.A.L/storage/database/mongodb"
	sqlxrepos "github.com/Skc-VitInProjects/S.A.F.A.L/storage/database/sqlx"
)

type repos struct {
	student    student.Repository
	attendance attendance.Repository
	grade      grade.Repository
	history    importing.HistoryRepository
	close      func() error
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.RollbarToken != "" {
		rl := logsvc.NewRollbarLogger(std, conf)
		rl.Enable(!conf.Debug)
		logger = rl
	} else {
		logger = logsvc.NewStdLogger(std)
	}

	r, err := setUpRepos(conf)
	if err != nil {
		logger.Error("setting up storage", err)
		os.Exit(1)
	}
	defer func() {
		if err = r.close(); err != nil {
			logger.Error("closing storage", err)
		}
	}()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("%s initializing : env %q", conf.AppName, conf.Env))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		StudentSvc:    student.NewService(r.student),
		AttendanceSvc: attendance.NewService(r.attendance),
		GradeSvc:      grade.NewService(r.grade),
		HistorySvc:    importing.NewHistoryService(r.history),
		EmailSvc:      mailSvc,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error("server error", err)
		os.Exit(1)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error("could not stop server gracefully", err)

			if err = server.Close(); err != nil {
				logger.Error("could not force stop server", err)
				os.Exit(1)
			}
		}
	}
}

func setUpRepos(conf *core.Config) (repos, error) {
	switch conf.Database.Engine {
	case "mongodb":
		db, err := mongodb.Open(context.Background(), conf)
		if err != nil {
			return repos{}, err
		}
		return repos{
			student:    mongodb.NewStudentRepository(db),
			attendance: mongodb.NewAttendanceRepository(db),
			grade:      mongodb.NewGradeRepository(db),
			history:    mongodb.NewHistoryRepository(db),
			close:      db.Close,
		}, nil

	case "inmem":
		db, err := inmemdb.Open()
		if err != nil {
			return repos{}, err
		}
		return repos{
			student:    inmemdb.NewStudentRepository(db),
			attendance: inmemdb.NewAttendanceRepository(db),
			grade:      inmemdb.NewGradeRepository(db),
			history:    inmemdb.NewHistoryRepository(db),
			close:      func() error { return nil },
		}, nil

	default: // postgres
		db, err := database.Open(conf)
		if err != nil {
			return repos{}, err
		}
		if err = database.Migrate(db); err != nil {
			return repos{}, err
		}
		return repos{
			student:    sqlxrepos.NewStudentRepository(db),
			attendance: sqlxrepos.NewAttendanceRepository(db),
			grade:      sqlxrepos.NewGradeRepository(db),
			history:    sqlxrepos.NewHistoryRepository(db),
			close:      db.Close,
		}, nil
	}
}
