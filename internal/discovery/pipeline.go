// Package discovery filters and ranks listing and person candidates around
// the searcher's reference location.
//
// One Pipeline serves both entity kinds. A run is:
//
//  1. annotate every candidate with its distance to the reference location
//  2. structured filters (category, subcategory, price, delivery, role)
//  3. radius filter from the category/region policy
//  4. free-text filter (OR across fields)
//  5. free-text location filter
//  6. stable sort on the requested key
//
// The pipeline has no error channel. Missing optional data makes a single
// predicate fail for that candidate; it never fails the run.
package discovery

import (
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"buurtmarkt/internal/domain/entities"
	"buurtmarkt/internal/geo"
	"buurtmarkt/internal/metrics"
)

// DefaultParallelThreshold is the candidate count from which annotation is
// spread over a worker pool.
const DefaultParallelThreshold = 512

// Config tunes a Pipeline. Zero values select the defaults.
type Config struct {
	ParallelThreshold int
	Workers           int
	Language          language.Tag
}

// Pipeline is stateless apart from its configuration and is safe for
// concurrent use.
type Pipeline struct {
	policy            *geo.RadiusPolicy
	parallelThreshold int
	workers           int
	lang              language.Tag
	metrics           *metrics.Metrics
	log               *zap.Logger
}

func NewPipeline(policy *geo.RadiusPolicy, cfg Config, m *metrics.Metrics, log *zap.Logger) *Pipeline {
	if policy == nil {
		policy = geo.NewDefaultRadiusPolicy()
	}
	if cfg.ParallelThreshold <= 0 {
		cfg.ParallelThreshold = DefaultParallelThreshold
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Language == language.Und {
		cfg.Language = language.Dutch
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		policy:            policy,
		parallelThreshold: cfg.ParallelThreshold,
		workers:           cfg.Workers,
		lang:              cfg.Language,
		metrics:           m,
		log:               log.Named("discovery"),
	}
}

// Discover returns the admissible candidates of q.Kind in q.SortKey order.
// The input slice and the records it points to are left untouched; the
// returned candidates are fresh values carrying DistanceKm.
func (p *Pipeline) Discover(candidates []entities.Candidate, q entities.SearchQuery) []entities.Candidate {
	start := time.Now()

	if q.Kind == "" {
		q.Kind = entities.KindListing
	}

	var ref *entities.Coordinate
	if q.Reference.Active() {
		ref = q.Reference.Coordinate
	}
	annotated := p.annotateAll(candidates, ref)

	limit := p.RadiusFor(q)
	text := newTextMatcher(q.Term)
	place := newLocationMatcher(q.LocationText)

	results := make([]entities.Candidate, 0, len(annotated))
	for _, c := range annotated {
		if c.Kind != q.Kind || !c.Valid() {
			continue
		}
		if !matchesStructured(c, q) {
			continue
		}
		if !withinRadius(c, limit, ref != nil) {
			continue
		}
		if !text.matches(c) {
			continue
		}
		if !place.matches(c) {
			continue
		}
		results = append(results, c)
	}

	sortCandidates(results, q.SortKey, q.Kind, ref != nil, p.lang)

	took := time.Since(start)
	p.metrics.ObserveDiscovery(string(q.Kind), took, len(results))
	p.log.Debug("discovery run",
		zap.String("kind", string(q.Kind)),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)),
		zap.Float64("radius_km", limit),
		zap.String("reference", string(q.Reference.Source)),
		zap.Duration("took", took),
	)
	return results
}

// RadiusFor returns the radius limit (0 = unlimited) that applies to q.
// Listings are limited by their category, people by the seller role being
// searched for, since roles and categories share the same names.
func (p *Pipeline) RadiusFor(q entities.SearchQuery) float64 {
	key := q.Category
	if q.Kind == entities.KindPerson {
		key = q.RoleFilter
	}
	return p.policy.MaxRadiusKm(key, q.CountryCode)
}

// annotateAll computes distances for every candidate, preserving order.
//
// Go Learning Note — errgroup with SetLimit:
// errgroup.Group runs functions in goroutines and Wait blocks until all of
// them return. SetLimit caps how many run at once, turning it into a simple
// bounded worker pool. Each worker writes a disjoint range of out, so no
// locking is needed.
func (p *Pipeline) annotateAll(candidates []entities.Candidate, ref *entities.Coordinate) []entities.Candidate {
	out := make([]entities.Candidate, len(candidates))
	if len(candidates) < p.parallelThreshold || p.workers < 2 {
		for i, c := range candidates {
			out[i] = geo.Annotate(c, ref)
		}
		return out
	}

	chunk := (len(candidates) + p.workers - 1) / p.workers
	var g errgroup.Group
	g.SetLimit(p.workers)
	for lo := 0; lo < len(candidates); lo += chunk {
		lo, hi := lo, min(lo+chunk, len(candidates))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				out[i] = geo.Annotate(candidates[i], ref)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// withinRadius applies the radius limit. Candidates without a known
// distance are never dropped here.
func withinRadius(c entities.Candidate, limitKm float64, hasReference bool) bool {
	if limitKm <= 0 || !hasReference || c.DistanceKm == nil {
		return true
	}
	return *c.DistanceKm <= limitKm
}
