package cmd

import (
	"context"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"exoplanet-review/config"
	"exoplanet-review/internal/ml"
	"exoplanet-review/pkg/cache"
	"exoplanet-review/pkg/logger"
	"exoplanet-review/pkg/postgres"
)

type AppDependency struct {
	db         *postgres.DB
	cfg        *config.Config
	log        *logger.Logger
	validator  *goValidator.Validate
	echo       *echo.Echo
	cache      cache.Cache
	classifier *ml.Classifier
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	// A failed model load is not fatal: the service starts degraded and
	// inference endpoints report the model as unavailable.
	classifier := ml.NewClassifier(cfg.ML, log)

	return &AppDependency{
		cfg:        cfg,
		log:        log,
		validator:  goValidator.New(),
		db:         db,
		echo:       echo.New(),
		cache:      cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		classifier: classifier,
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	if d.classifier != nil {
		d.classifier.Close()
	}
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
