package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/curricula/internal/cli"
	"github.com/alexanderramin/curricula/internal/config"
	"github.com/alexanderramin/curricula/internal/db"
	"github.com/alexanderramin/curricula/internal/repository"
	"github.com/alexanderramin/curricula/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Options{
		ConfigFile: os.Getenv(config.EnvName("config")),
	})
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cal, err := cfg.Calendar()
	if err != nil {
		return fmt.Errorf("building calendar: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	topicRepo := repository.NewSQLiteTopicRepo(database)
	courseRepo := repository.NewSQLiteCourseRepo(database)
	pathRepo := repository.NewSQLiteLearningPathRepo(database)
	enrollmentRepo := repository.NewSQLiteEnrollmentRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Topics:      service.NewTopicService(topicRepo, uow, cal, observers...),
		Courses:     service.NewCourseService(courseRepo, uow),
		Paths:       service.NewLearningPathService(pathRepo, uow, cal),
		Enrollments: service.NewEnrollmentService(enrollmentRepo, uow, cal),
		Schedule:    service.NewScheduleService(uow, cal, observers...),
		Audit:       service.NewAuditService(auditRepo),
		Import:      service.NewImportService(uow, cal, cfg.DefaultActor, observers...),
		Calendar:    cal,
		Actor:       cfg.DefaultActor,
		Strict:      cfg.Strict,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
