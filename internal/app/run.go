package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/config"
	httpapi "github.com/bogdancondorachi/monitor-meteo-stations/internal/httpapi"
	stations "github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations"
	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/repository"
	"github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/service"
	stationsviews "github.com/bogdancondorachi/monitor-meteo-stations/internal/modules/stations/views"
	"github.com/bogdancondorachi/monitor-meteo-stations/internal/mqtt"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"stationsConfig", cfg.StationsConfig,
		"dataDir", cfg.DataDir,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopicPrefix", cfg.MQTTTopicPrefix,
		"publishInterval", cfg.PublishInterval,
	)

	catalog, err := config.LoadCatalog(cfg.StationsConfig, cfg.DataDir)
	if err != nil {
		return err
	}
	slog.Info("station catalog loaded",
		"directory", catalog.Directory,
		"stations", len(catalog.Stations),
		"metrics", len(catalog.Metrics),
	)

	if err := stationsviews.LoadTemplates(); err != nil {
		return err
	}
	mux, svc := newMux(catalog)
	srv := httpapi.NewServer(cfg, mux)

	var wg sync.WaitGroup
	publishCtx, stopPublishing := context.WithCancel(ctx)
	defer stopPublishing()

	var publisher *mqtt.Publisher
	if cfg.PublisherEnabled() {
		publisher = mqtt.NewPublisher(cfg, slog.Default())

		// Short timeout so a down broker does not block startup; paho keeps
		// retrying in the background.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = publisher.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed (snapshots are skipped until it connects)", "error", err)
		}

		loop := service.NewSnapshotLoop(svc, publisher, cfg.PublishInterval, slog.Default())
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := loop.Run(publishCtx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("snapshot loop stopped", "error", err)
			}
		}()
	} else {
		slog.Info("mqtt publisher disabled (MQTT_BROKER not set)")
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		stopPublishing()
		wg.Wait()
		if publisher != nil {
			publisher.Disconnect()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stopPublishing()
	wg.Wait()
	if publisher != nil {
		slog.Info("mqtt disconnecting")
		publisher.Disconnect()
	}

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

// newMux wires the station feature over the catalog's data directory.
func newMux(catalog config.Catalog) (*http.ServeMux, *service.Service) {
	repo := repository.NewRepository(os.DirFS(catalog.Directory), catalog.IDWidth)
	svc := service.NewService(repo, catalog, slog.Default())

	mux := httpapi.NewMux(catalog.Directory)
	stations.RegisterFeature(mux, svc)
	return mux, svc
}
