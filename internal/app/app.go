// README: Wires config into the reference source, model, geocoder and pipeline.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	gmaps "googlemaps.github.io/maps"

	"freight/internal/config"
	"freight/internal/infra"
	"freight/internal/maps"
	"freight/internal/ml"
	"freight/internal/modules/location"
	"freight/internal/modules/matching"
	"freight/internal/modules/pricing"
	"freight/internal/pipeline"
	"freight/internal/reference"
)

const remoteModelTimeout = 10 * time.Second

type App struct {
	Pipeline *pipeline.Pipeline
	Source   reference.Source

	closers []func()
}

// Close releases pools and clients in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func Build(ctx context.Context, cfg config.Config) (_ *App, err error) {
	a := &App{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	model, err := loadModel(cfg)
	if err != nil {
		return nil, err
	}

	src, err := a.referenceSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Firebase.DatabaseURL != "" {
		client, err := infra.NewFirebaseDatabase(ctx, cfg.Firebase.ProjectID, cfg.Firebase.DatabaseURL, cfg.Firebase.CredentialsFile)
		if err != nil {
			return nil, err
		}
		src = reference.WithDriverLocations(src, location.NewFirebaseService(client))
		log.Printf("app: driver locations from firebase %s", cfg.Firebase.DatabaseURL)
	}
	a.Source = src

	var geocoder location.Geocoder
	if cfg.Geocode.APIKey != "" {
		var opts []gmaps.ClientOption
		if cfg.Geocode.QPS > 0 {
			opts = append(opts, gmaps.WithRateLimit(cfg.Geocode.QPS))
		}
		g, err := maps.NewGeocodeService(cfg.Geocode.APIKey, cfg.Geocode.Region, opts...)
		if err != nil {
			return nil, err
		}
		geocoder = g
	} else {
		log.Printf("app: FREIGHT_GOOGLE_MAPS_API_KEY not set; every origin will be reported as not found")
	}

	rdb := infra.NewRedis(cfg.Redis.Addr)
	if rdb != nil {
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		if err := infra.PingRedis(ctx, rdb); err != nil {
			log.Printf("app: geocode cache degraded: %v", err)
		}
	}

	pricingSvc := pricing.NewService(pricing.NewStore(src), pricing.NewPredictor(model))
	locationSvc := location.NewService(geocoder, location.NewStore(rdb, cfg.Geocode.CacheTTL), cfg.Geocode.Timeout)
	matchingSvc := matching.NewService(matching.NewStore(src), cfg.Matching)

	a.Pipeline = pipeline.New(pricingSvc, locationSvc, matchingSvc)
	return a, nil
}

func loadModel(cfg config.Config) (ml.Regressor, error) {
	if cfg.Model.URL != "" {
		log.Printf("app: price model served by %s", cfg.Model.URL)
		return ml.NewRemoteRegressor(cfg.Model.URL, remoteModelTimeout), nil
	}
	m, err := ml.LoadFile(cfg.Model.Path)
	if err != nil {
		return nil, fmt.Errorf("load price model: %w", err)
	}
	log.Printf("app: price model loaded from %s", cfg.Model.Path)
	return m, nil
}

func (a *App) referenceSource(ctx context.Context, cfg config.Config) (reference.Source, error) {
	switch cfg.Data.Source {
	case config.DataSourcePostgres:
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		return reference.NewPostgresSource(pool), nil
	default:
		log.Printf("app: reference tables from %s", cfg.Data.Dir)
		return reference.NewCSVSource(cfg.Data.Dir), nil
	}
}
