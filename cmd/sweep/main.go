package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/newwork/people-service/internal/employee/events"
	"github.com/newwork/people-service/internal/employee/repository"
	"github.com/newwork/people-service/internal/employee/service"
	"github.com/newwork/people-service/pkg/config"
	"github.com/newwork/people-service/pkg/database"
	"github.com/newwork/people-service/pkg/logger"
	"github.com/newwork/people-service/pkg/messaging"
)

// nopSink drops events when no broker is reachable. The sweep itself
// must still run; completion events are best-effort.
type nopSink struct{}

func (nopSink) Publish(ctx context.Context, eventType string, data interface{}) error {
	return nil
}

func main() {
	asOfFlag := flag.String("as-of", "", "complete approved absences that ended before this date (YYYY-MM-DD, default today)")
	flag.Parse()

	cfg, err := config.Load("people-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("people-sweep", cfg.Server.Environment)

	location, err := cfg.Time.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid time zone")
	}

	// Schema changes are the server's job, not the scheduler's.
	cfg.Database.MigrationsPath = ""
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	var publisher *events.PeopleEventPublisher
	if rmq, err := messaging.New(&cfg.RabbitMQ, log); err != nil {
		log.Warn().Err(err).Msg("broker unreachable, completion events will be dropped")
		publisher = events.NewPeopleEventPublisherWithSink(nopSink{}, log)
	} else {
		defer rmq.Close()
		publisher, err = events.NewPeopleEventPublisher(rmq, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
	}

	absenceRepo := repository.NewAbsenceRepository(db)
	userRepo := repository.NewUserRepository(db)
	absenceSvc := service.NewAbsenceService(userRepo, absenceRepo, publisher, location, log)

	asOf := absenceSvc.Today()
	if *asOfFlag != "" {
		parsed, err := time.Parse("2006-01-02", *asOfFlag)
		if err != nil {
			log.Fatal().Str("as_of", *asOfFlag).Msg("as-of must be a date in YYYY-MM-DD format")
		}
		asOf = parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	completed, err := absenceSvc.CompleteExpired(ctx, asOf)
	if err != nil {
		log.Fatal().Err(err).Msg("sweep failed")
	}

	log.Info().
		Time("as_of", asOf).
		Int64("completed", completed).
		Msg("sweep finished")
}
