package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"

	"github.com/Ramsey-B/aster/config"
	"github.com/Ramsey-B/aster/internal/platform/database"
	"github.com/Ramsey-B/aster/internal/platform/logging"
	"github.com/Ramsey-B/aster/internal/platform/tracing"
	"github.com/Ramsey-B/aster/internal/repositories/airport"
	"github.com/Ramsey-B/aster/internal/repositories/coach"
	"github.com/Ramsey-B/aster/internal/repositories/conference"
	"github.com/Ramsey-B/aster/internal/repositories/ingestionrun"
	"github.com/Ramsey-B/aster/internal/repositories/player"
	"github.com/Ramsey-B/aster/internal/repositories/scorecardschool"
	"github.com/Ramsey-B/aster/internal/repositories/team"
	"github.com/Ramsey-B/aster/pkg/events"
	"github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/pipeline"
	"github.com/Ramsey-B/aster/pkg/scraper"
)

func main() {
	scorecardPath := flag.String("scorecard", "", "path to the scorecard CSV (overrides SCORECARD_CSV_PATH)")
	airportsPath := flag.String("airports", "", "path to the airports CSV (overrides AIRPORTS_CSV_PATH)")
	season := flag.Int("season", 0, "season to ingest, e.g. 2026 (overrides SEASON)")
	scrapeRosters := flag.Bool("rosters", false, "scrape team rosters and stats")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *scorecardPath != "" {
		cfg.ScorecardCSVPath = *scorecardPath
	}
	if *airportsPath != "" {
		cfg.AirportsCSVPath = *airportsPath
	}
	if *season != 0 {
		cfg.Season = *season
	}
	if *scrapeRosters {
		cfg.ScrapeRosters = true
	}

	logger, flush, err := logging.New("aster-ingest", cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init("aster-ingest")
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
		os.Exit(1)
	}
	defer func() {
		_ = shutdownTracing(context.Background())
	}()

	db, err := database.Connect(ctx, database.ConnectionConfig{
		Driver:          cfg.DatabaseDriver,
		Host:            cfg.DatabaseHost,
		Port:            cfg.DatabasePort,
		UserName:        cfg.DatabaseUserName,
		Password:        cfg.DatabasePassword,
		Name:            cfg.DatabaseName,
		SSLMode:         cfg.DatabaseSSLMode,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	driver, err := migratepg.WithInstance(db.Unsafe().DB, &migratepg.Config{})
	if err != nil {
		logger.WithError(err).Error("Failed to create migration driver")
		os.Exit(1)
	}
	migrations := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})
	if err := migrations.Migrate(cfg.DatabaseName, driver); err != nil {
		logger.WithError(err).Error("Database migrations failed")
		os.Exit(1)
	}

	var producer *kafka.Producer
	if cfg.KafkaProducerEnabled {
		producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer producer.Close()
	}
	emitter := events.NewEmitter(producer, logger)

	p := pipeline.New(
		pipeline.Config{
			TeamsJSONPath:    cfg.TeamsJSONPath,
			ScorecardCSVPath: cfg.ScorecardCSVPath,
			AirportsCSVPath:  cfg.AirportsCSVPath,
			Season:           cfg.Season,
			ScrapeRosters:    cfg.ScrapeRosters,
		},
		logger,
		team.NewRepository(db, logger),
		conference.NewRepository(db, logger),
		scorecardschool.NewRepository(db, logger),
		airport.NewRepository(db, logger),
		player.NewRepository(db, logger),
		coach.NewRepository(db, logger),
		ingestionrun.NewRepository(db, logger),
		scraper.New(logger),
		emitter,
	)

	if err := p.Run(ctx); err != nil {
		logger.WithError(err).Error("Ingestion run failed")
		os.Exit(1)
	}
	logger.Info("Ingestion run completed")
}
