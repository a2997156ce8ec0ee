package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cmdvault/cmdvault/internal/server"
	"github.com/cmdvault/cmdvault/modules"
	"github.com/cmdvault/cmdvault/modules/catalog/domain/entities/ingest"
	"github.com/cmdvault/cmdvault/pkg/application"
	"github.com/cmdvault/cmdvault/pkg/configuration"
	"github.com/cmdvault/cmdvault/pkg/eventbus"
	"github.com/cmdvault/cmdvault/pkg/metrics"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	if err := app.Migrations().Apply(ctx); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	app.EventPublisher().Subscribe(func(event ingest.CompletedEvent) {
		logger.WithFields(map[string]interface{}{
			"vendor":   event.VendorName,
			"override": event.Override,
			"created":  event.Report.Summary.CommandsCreated,
			"updated":  event.Report.Summary.CommandsUpdated,
			"skipped":  event.Report.Summary.CommandsSkipped,
			"tags":     event.Report.Summary.TagsCreated,
		}).Info("sheet ingest completed")
	})

	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	log.Printf("Listening on: %s\n", conf.Origin)
	if err := serverInstance.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
