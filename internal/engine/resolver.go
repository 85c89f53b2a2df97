package engine

import (
	"math"

	"github.com/piwi3910/KickaEttan/internal/model"
	"github.com/rs/zerolog"
)

const (
	// DefaultMaxIterations is the number of correction rounds before giving up.
	DefaultMaxIterations = 10
	// DefaultPrecision is the number of decimals positions are compared at.
	DefaultPrecision = 2

	// overlapTolerance absorbs float error after a push to exact tangency.
	overlapTolerance = 1e-6
)

// Resolver finds a resting place for a dropped stone. It is immutable after
// construction and safe for concurrent use.
type Resolver struct {
	sheet         model.Sheet
	bounds        Boundaries
	maxIterations int
	scale         float64
	logger        zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxIterations bounds the number of correction rounds.
func WithMaxIterations(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxIterations = n
		}
	}
}

// WithPrecision sets how many decimals are kept when comparing positions for
// convergence and cycle detection.
func WithPrecision(decimals int) Option {
	return func(r *Resolver) {
		if decimals >= 0 {
			r.scale = math.Pow10(decimals)
		}
	}
}

// WithLogger sets the logger used to report why a stone went back to the bar.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New returns a resolver for sheet with the default round budget and precision.
func New(sheet model.Sheet, opts ...Option) *Resolver {
	r := &Resolver{
		sheet:         sheet,
		bounds:        NewBoundaries(sheet),
		maxIterations: DefaultMaxIterations,
		scale:         math.Pow10(DefaultPrecision),
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromConfig builds a resolver from the application config.
func NewFromConfig(cfg model.AppConfig, logger zerolog.Logger) *Resolver {
	return New(cfg.Sheet,
		WithMaxIterations(cfg.MaxIterations),
		WithPrecision(cfg.Precision),
		WithLogger(logger),
	)
}

// Sheet returns the geometry the resolver works against.
func (r *Resolver) Sheet() model.Sheet {
	return r.sheet
}

// Boundaries returns the legal region for stone centres.
func (r *Resolver) Boundaries() Boundaries {
	return r.bounds
}

// MaxIterations returns the round budget.
func (r *Resolver) MaxIterations() int {
	return r.maxIterations
}

// Resolve finds where stone selfID dropped at (x0, y0) comes to rest among
// stones while staying off every ban zone and inside the sheet boundaries.
//
// Each round separates the stone from the other stones, rejects it if a zone
// swallows it whole, pushes it out of the most deeply overlapped zone and
// clamps it to the boundaries. The loop stops at a fixed point; a position
// seen before, or a round whose corrections cancel out while constraints are
// still violated, means the constraints cannot all be met near the drop
// point and the stone goes back to the bar.
func (r *Resolver) Resolve(selfID int, x0, y0 float64, stones []model.Stone, zones []model.BanZone) model.Resolution {
	radius := r.sheet.StoneRadius

	if zone, inside := containingZone(x0, y0, radius, zones); inside {
		return r.reject(selfID, x0, y0, 0, model.OutcomeInsideBan, zone)
	}

	x, y := x0, y0
	visited := map[gridKey]struct{}{r.key(x, y): {}}

	rounds := 0
	for rounds < r.maxIterations {
		rounds++
		start := r.key(x, y)

		x, y, _ = Separate(x, y, stones, selfID, radius)

		if zone, inside := containingZone(x, y, radius, zones); inside {
			return r.reject(selfID, x, y, rounds, model.OutcomeInsideBan, zone)
		}
		if zone, ok := deepestOverlap(x, y, radius, zones); ok {
			x, y = PushOutOfBan(x, y, radius, zone)
		}

		x, y = r.bounds.Clamp(x, y)

		k := r.key(x, y)
		if k == start {
			if r.settled(selfID, x, y, stones, zones) {
				break
			}
			// Corrections cancelled out with a constraint still broken. No
			// further round can move the stone, so this counts as a cycle.
			return r.reject(selfID, x, y, rounds, model.OutcomeOscillation, model.BanZone{})
		}
		if _, seen := visited[k]; seen {
			return r.reject(selfID, x, y, rounds, model.OutcomeOscillation, model.BanZone{})
		}
		visited[k] = struct{}{}
	}

	if !r.settled(selfID, x, y, stones, zones) {
		return r.reject(selfID, x, y, rounds, model.OutcomeUnsettled, model.BanZone{})
	}

	return model.Resolution{X: x, Y: y, Outcome: model.OutcomePlaced, Rounds: rounds}
}

// settled reports whether (x, y) is inside the boundaries and clear of every
// zone and every other placed stone, allowing for tangency float error.
func (r *Resolver) settled(selfID int, x, y float64, stones []model.Stone, zones []model.BanZone) bool {
	if !r.bounds.IsWithinBounds(x, y) {
		return false
	}

	radius := r.sheet.StoneRadius
	for _, z := range zones {
		if distance(x, y, z.X, z.Y) < radius+z.Radius-overlapTolerance {
			return false
		}
	}
	for _, s := range stones {
		if s.ID == selfID || !s.Placed {
			continue
		}
		if distance(x, y, s.X, s.Y) < 2*radius-overlapTolerance {
			return false
		}
	}
	return true
}

func (r *Resolver) reject(selfID int, x, y float64, rounds int, outcome model.Outcome, zone model.BanZone) model.Resolution {
	ev := r.logger.Debug().
		Int("stone", selfID).
		Str("outcome", string(outcome)).
		Int("rounds", rounds).
		Float64("x", x).
		Float64("y", y)
	if outcome == model.OutcomeInsideBan {
		ev = ev.Float64("ban_x", zone.X).Float64("ban_y", zone.Y).Float64("ban_radius", zone.Radius)
	}
	ev.Msg("stone returned to bar")

	return model.Resolution{X: x, Y: y, ResetToBar: true, Outcome: outcome, Rounds: rounds}
}

// gridKey is a position rounded to the resolver precision.
type gridKey struct {
	x, y int64
}

func (r *Resolver) key(x, y float64) gridKey {
	return gridKey{
		x: int64(math.Round(x * r.scale)),
		y: int64(math.Round(y * r.scale)),
	}
}
