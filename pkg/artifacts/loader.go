// Package artifacts loads the build-time data files the dashboard serves from.
package artifacts

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ekaya-inc/ekaya-growth/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-growth/pkg/config"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// Load reads every artifact named by cfg. Any missing or malformed file
// fails the whole load; no partial Store is returned.
func Load(ctx context.Context, cfg config.ResourcesConfig, logger *zap.Logger) (*Store, error) {
	logger = logger.Named("artifacts")
	start := time.Now()

	s := &Store{}
	g, gctx := errgroup.WithContext(ctx)

	load := func(name string, parse func([]byte) error) {
		path := cfg.Path(name)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", apperrors.ErrArtifact, path, err)
			}
			if err := parse(data); err != nil {
				return fmt.Errorf("%w: %s: %v", apperrors.ErrArtifact, path, err)
			}
			logger.Debug("Loaded artifact", zap.String("path", path), zap.Int("bytes", len(data)))
			return nil
		})
	}

	// Each closure writes a distinct field of s.
	load(cfg.Profiles, func(b []byte) (err error) {
		s.profiles, err = parseProfiles(b)
		return err
	})
	load(cfg.Growth, func(b []byte) (err error) {
		s.growth, err = parseGrowth(b)
		return err
	})
	load(cfg.Series, func(b []byte) (err error) {
		s.series, err = parseSeries(b)
		return err
	})
	load(cfg.Forecast, func(b []byte) (err error) {
		s.forecast, err = parseSeries(b)
		return err
	})
	load(cfg.ModelComparison, func(b []byte) (err error) {
		s.evaluation.ModelComparison, err = parseModelComparison(b)
		return err
	})
	load(cfg.EvalScores, func(b []byte) (err error) {
		s.evaluation.EvalScores, err = parseEvalScores(b)
		return err
	})
	load(cfg.ROC, func(b []byte) (err error) {
		s.evaluation.ROC, err = parseROC(b)
		return err
	})
	load(cfg.ConfusionMatrix, func(b []byte) (err error) {
		s.evaluation.ConfusionMatrix, err = parseConfusionMatrix(b)
		return err
	})
	load(cfg.Coefficients, func(b []byte) (err error) {
		s.evaluation.Coefficients, err = parseCoefficients(b)
		return err
	})
	load(cfg.Logo, func(b []byte) error {
		if !bytes.HasPrefix(b, pngSignature) {
			return fmt.Errorf("not a PNG image")
		}
		s.logoDataURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString(b)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := s.Summary()
	logger.Info("Artifacts loaded",
		zap.String("dir", cfg.Dir),
		zap.Int("profiles", sum.Profiles),
		zap.Int("growth_rows", sum.GrowthRows),
		zap.Int("forecast_rows", sum.ForecastRows),
		zap.Int("test_count", sum.TestCount),
		zap.Duration("elapsed", time.Since(start)))

	return s, nil
}
