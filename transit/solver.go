package transit

import (
	"context"
	"runtime"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/sunbatch/earth"
	"github.com/echoflaresat/sunbatch/timebase"
)

// Solver splits large batches into chunks that are solved concurrently,
// and remembers the date-only pass-one values of recently used dates.
// Its results are identical to the package-level functions.
type Solver struct {
	logger    *zap.Logger
	workers   int
	chunkSize int
	days      *lru.Cache // dayKey -> day
}

// Option configures a Solver.
type Option func(o *options)

type options struct {
	logger    *zap.Logger
	workers   int
	chunkSize int
	cacheSize int
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithWorkers sets the maximum number of chunks solved at once.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithChunkSize sets the number of locations per chunk.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithCacheSize sets how many (date, zenith) pairs are remembered.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

type dayKey struct {
	date   timebase.Date
	zenith float64
}

// NewSolver returns a Solver configured by opts.
func NewSolver(opts ...Option) (*Solver, error) {
	o := options{
		logger:    zap.NewNop(),
		workers:   runtime.GOMAXPROCS(0),
		chunkSize: 4096,
		cacheSize: 64,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	o.workers = max(o.workers, 1)
	o.chunkSize = max(o.chunkSize, 1)
	cache, err := lru.New(max(o.cacheSize, 1))
	if err != nil {
		return nil, err
	}
	return &Solver{
		logger:    o.logger,
		workers:   o.workers,
		chunkSize: o.chunkSize,
		days:      cache,
	}, nil
}

func (s *Solver) day(date timebase.Date, zenith float64) day {
	key := dayKey{date: date, zenith: zenith}
	if v, ok := s.days.Get(key); ok {
		s.logger.Debug("pass one cache hit", zap.Stringer("date", date), zap.Float64("zenith", zenith))
		return v.(day)
	}
	d := newDay(date, zenith)
	s.days.Add(key, d)
	s.logger.Debug("pass one computed",
		zap.Stringer("date", date),
		zap.Float64("zenith", zenith),
		zap.Float64("declination", d.decl[0]),
		zap.Float64("equationOfTime", d.eqTime[0]))
	return d
}

// forEachChunk calls fn for consecutive [lo, hi) ranges covering n items,
// running up to s.workers calls at once.
func (s *Solver) forEachChunk(ctx context.Context, n int, fn func(lo, hi int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	chunks := 0
	for lo := 0; lo < n; lo += s.chunkSize {
		hi := min(lo+s.chunkSize, n)
		chunks++
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(lo, hi)
			return nil
		})
	}
	s.logger.Debug("batch scheduled", zap.Int("locations", n), zap.Int("chunks", chunks), zap.Int("workers", s.workers))
	return g.Wait()
}

// TimeOfTransit is the concurrent form of the package-level TimeOfTransit.
func (s *Solver) TimeOfTransit(ctx context.Context, c earth.Coordinates, date timebase.Date, zenith float64, direction Direction) ([]Transit, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	d := s.day(date, zenith)
	out := make([]Transit, c.Len())
	err := s.forEachChunk(ctx, c.Len(), func(lo, hi int) {
		transits, _ := d.solve(c.Slice(lo, hi), direction)
		copy(out[lo:hi], transits)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Sunrise returns the sunrise instants for each location on date.
func (s *Solver) Sunrise(ctx context.Context, c earth.Coordinates, date timebase.Date) ([]Transit, error) {
	return s.TimeOfTransit(ctx, c, date, StandardZenith, Rising)
}

// Sunset returns the sunset instants for each location on date.
func (s *Solver) Sunset(ctx context.Context, c earth.Coordinates, date timebase.Date) ([]Transit, error) {
	return s.TimeOfTransit(ctx, c, date, StandardZenith, Setting)
}

// Dawn returns the instants the sun rises to depression degrees below the horizon.
func (s *Solver) Dawn(ctx context.Context, c earth.Coordinates, date timebase.Date, depression float64) ([]Transit, error) {
	return s.TimeOfTransit(ctx, c, date, 90+depression, Rising)
}

// Dusk returns the instants the sun sets to depression degrees below the horizon.
func (s *Solver) Dusk(ctx context.Context, c earth.Coordinates, date timebase.Date, depression float64) ([]Transit, error) {
	return s.TimeOfTransit(ctx, c, date, 90+depression, Setting)
}

// Noon returns the instant of solar noon for each location on date.
func (s *Solver) Noon(ctx context.Context, c earth.Coordinates, date timebase.Date) ([]Transit, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	d := s.day(date, StandardZenith)
	out := make([]Transit, c.Len())
	err := s.forEachChunk(ctx, c.Len(), func(lo, hi int) {
		copy(out[lo:hi], d.noon(c.Lon[lo:hi]))
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DayLength returns the time between sunrise and sunset for each location.
func (s *Solver) DayLength(ctx context.Context, c earth.Coordinates, date timebase.Date) ([]time.Duration, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	d := s.day(date, StandardZenith)
	out := make([]time.Duration, c.Len())
	err := s.forEachChunk(ctx, c.Len(), func(lo, hi int) {
		copy(out[lo:hi], d.dayLength(c.Slice(lo, hi)))
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
