package main

import (
	"log"
	"os"

	"github.com/trezcool/classportal/apps"
	"github.com/trezcool/classportal/core"
	"github.com/trezcool/classportal/core/attendance"
	"github.com/trezcool/classportal/core/user"
	emailsvc "github.com/trezcool/classportal/services/email"
	logsvc "github.com/trezcool/classportal/services/logger"
	"github.com/trezcool/classportal/storage/database"
	sqlxrepos "github.com/trezcool/classportal/storage/database/sqlx"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	if err = database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("creating database", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	if err = database.Ping(db); err != nil {
		logger.Fatal("pinging database", err)
	}

	// set up repos & services
	usrRepo := sqlxrepos.NewUserRepository(db)
	stRepo := sqlxrepos.NewStudentRepository(db)

	// start CLI
	cli := commandLine{
		db:      db,
		out:     os.Stdout,
		usrRepo: usrRepo,
		usrSvc:  user.NewService(usrRepo, emailsvc.NewConsoleService(conf, logger), conf),
		attSvc:  attendance.NewService(sqlxrepos.NewAttendanceRepository(db), stRepo, conf),
	}
	err = cli.run(os.Args)
	if err != nil {
		switch {
		case err == errHelp:
		case apps.IsArgumentError(err):
			logger.Warn(err.Error())
		default:
			logger.Error(err.Error(), err)
		}
	}

	_ = db.Close()
	logger.Close()
	if err != nil {
		os.Exit(1)
	}
}
