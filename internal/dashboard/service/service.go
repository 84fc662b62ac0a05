// Package service computes the preparation dashboard. The project scan and
// the region names are read concurrently; results are cached per filter until
// a project changes.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"store_opening_backend/internal/dashboard/repository"
	"store_opening_backend/internal/dashboard/transport"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/logger"
	"store_opening_backend/platform/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Service provides the dashboard statistics.
type Service struct {
	reader repository.Reader
	cache  Cache
	log    *logger.Logger
	now    func() time.Time
}

// New creates a dashboard service. cache may be nil to always compute.
func New(reader repository.Reader, cache Cache, log *logger.Logger) *Service {
	return &Service{
		reader: reader,
		cache:  cache,
		log:    log,
		now:    time.Now,
	}
}

// Statistics returns the dashboard for the filter in req, serving it from
// the cache when a current entry exists. Cache failures fall back to a fresh
// computation.
func (s *Service) Statistics(ctx context.Context, req transport.StatisticsRequest) (transport.Statistics, error) {
	filter, err := parseFilter(req)
	if err != nil {
		return transport.Statistics{}, err
	}

	entryKey := ""
	if s.cache != nil {
		key, cached, err := s.cache.Lookup(ctx, filterKey(filter))
		switch {
		case err != nil:
			metrics.DashboardCacheRequests.WithLabelValues("error").Inc()
			s.log.Warn("dashboard cache lookup failed", "error", err)
		case cached != nil:
			metrics.DashboardCacheRequests.WithLabelValues("hit").Inc()
			return *cached, nil
		default:
			metrics.DashboardCacheRequests.WithLabelValues("miss").Inc()
			entryKey = key
		}
	}

	stats, err := s.compute(ctx, filter)
	if err != nil {
		return transport.Statistics{}, err
	}

	if s.cache != nil && entryKey != "" {
		if err := s.cache.Store(ctx, entryKey, stats); err != nil {
			s.log.Warn("dashboard cache store failed", "error", err)
		}
	}
	return stats, nil
}

func (s *Service) compute(ctx context.Context, filter repository.Filter) (transport.Statistics, error) {
	timer := prometheus.NewTimer(metrics.DashboardBuildDuration)
	defer timer.ObserveDuration()

	var (
		facts []repository.ProjectFact
		names map[uuid.UUID]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		facts, err = s.reader.ListProjectFacts(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		names, err = s.reader.RegionNames(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.Statistics{}, err
	}

	stats := aggregate(facts, names, s.now().UTC())
	s.log.Info("dashboard statistics computed", "projects", len(facts), "regions", len(stats.RegionDistribution))
	return stats, nil
}

// parseFilter converts the query into a repository filter. The end date is
// inclusive, so the bound becomes the following midnight.
func parseFilter(req transport.StatisticsRequest) (repository.Filter, error) {
	var filter repository.Filter

	seen := make(map[uuid.UUID]struct{}, len(req.RegionIDs))
	for _, raw := range req.RegionIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return filter, apperr.BadRequestf("invalid region id %q", raw)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		filter.RegionIDs = append(filter.RegionIDs, id)
	}
	sort.Slice(filter.RegionIDs, func(i, j int) bool {
		return filter.RegionIDs[i].String() < filter.RegionIDs[j].String()
	})

	if req.StartDate != "" {
		start, err := time.Parse(time.DateOnly, req.StartDate)
		if err != nil {
			return filter, apperr.BadRequest("invalid start date")
		}
		filter.Start = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse(time.DateOnly, req.EndDate)
		if err != nil {
			return filter, apperr.BadRequest("invalid end date")
		}
		end = end.AddDate(0, 0, 1)
		filter.End = &end
	}
	if filter.Start != nil && filter.End != nil && !filter.Start.Before(*filter.End) {
		return filter, apperr.BadRequest("start date must not be after end date")
	}
	return filter, nil
}

// filterKey is a stable digest of a normalized filter.
func filterKey(f repository.Filter) string {
	var b strings.Builder
	for i, id := range f.RegionIDs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(id.String())
	}
	b.WriteByte('|')
	if f.Start != nil {
		b.WriteString(f.Start.Format(time.DateOnly))
	}
	b.WriteByte('|')
	if f.End != nil {
		b.WriteString(f.End.Format(time.DateOnly))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}
