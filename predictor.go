package orbsim

import (
	"context"
	"math"
	"os"
	"sync"
	"sync/atomic"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

const (
	// maxForecastSteps caps a period based forecast.
	maxForecastSteps = 30000
	// openOrbitSteps is the fixed horizon when no period bounds the forecast.
	openOrbitSteps = 5000
	// maneuverSteps is the reduced horizon while a thrust is pending: the orbit
	// is changing shape too fast for a period based horizon to stay valid.
	maneuverSteps = 3000
	// MaxTrajectoryPoints bounds the decimated forecast handed to consumers.
	MaxTrajectoryPoints = 500
)

// Trajectory is a finite forecast of a body's future positions. Each pass
// produces a fresh one; consumers hold it read only and it is superseded, never
// mutated, by the next pass.
type Trajectory struct {
	Body       BodyID
	Generation uint64
	Points     []Vec3
}

// PathExecutor integrates one body forward against a frozen snapshot.
// Implementations must follow the same RK4 recurrence so their outputs stay
// comparable within floating point tolerance.
type PathExecutor interface {
	Propagate(ctx context.Context, init OrbitalState, self BodyID, snap *Snapshot, steps int, dt float64) ([]Vec3, error)
}

// Predictor forecasts body trajectories off the real time step. At most one
// pass is in flight per body: a newer request cancels and supersedes the older
// one, since only the latest forecast matters.
type Predictor struct {
	reg    *Registry
	integ  *Integrator
	exec   PathExecutor
	logger kitlog.Logger

	gen      uint64
	mu       sync.Mutex
	inflight map[BodyID]*forecastPass
}

type forecastPass struct {
	gen    uint64
	cancel context.CancelFunc
}

// NewPredictor returns a predictor running passes on the given executor.
func NewPredictor(reg *Registry, integ *Integrator, exec PathExecutor, logger kitlog.Logger) *Predictor {
	if logger == nil {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	}
	return &Predictor{
		reg:      reg,
		integ:    integ,
		exec:     exec,
		logger:   kitlog.With(logger, "subsys", "predictor"),
		inflight: make(map[BodyID]*forecastPass),
	}
}

// Request schedules an asynchronous forecast pass for the body and returns a
// cancel function for it. A stepCount of zero or less selects the horizon from
// the current orbit shape. The forecast assumes no further external force.
// onComplete runs once on the pass goroutine, and only if the pass was neither
// cancelled nor superseded; partial results are never published.
func (p *Predictor) Request(b *Body, stepCount int, dt float64, onComplete func(Trajectory)) context.CancelFunc {
	gen := atomic.AddUint64(&p.gen, 1)
	ctx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	if prev, found := p.inflight[b.ID]; found {
		prev.cancel()
	}
	p.inflight[b.ID] = &forecastPass{gen: gen, cancel: cancel}
	p.mu.Unlock()

	if stepCount <= 0 {
		stepCount = p.horizon(b, dt)
	}
	// Snapshot once at pass start; the pass never reads live state afterwards.
	snap := p.reg.Snapshot()
	init := b.State()

	go func() {
		start := time.Now()
		points, err := p.exec.Propagate(ctx, init, b.ID, snap, stepCount, dt)
		p.mu.Lock()
		cur, found := p.inflight[b.ID]
		if !found || cur.gen != gen || ctx.Err() != nil {
			// Superseded or cancelled: discard silently.
			p.mu.Unlock()
			return
		}
		delete(p.inflight, b.ID)
		p.mu.Unlock()
		if err != nil {
			p.logger.Log("level", "warning", "body", b.Name, "steps", stepCount, "err", err)
			return
		}
		p.logger.Log("level", "debug", "body", b.Name, "steps", stepCount, "elapsed", time.Since(start))
		onComplete(Trajectory{Body: b.ID, Generation: gen, Points: decimate(points, MaxTrajectoryPoints)})
	}()
	return cancel
}

// Cancel aborts any in-flight pass for the body, e.g. when the tracked target
// changes or the body is destroyed.
func (p *Predictor) Cancel(id BodyID) {
	p.mu.Lock()
	if pass, found := p.inflight[id]; found {
		pass.cancel()
		delete(p.inflight, id)
	}
	p.mu.Unlock()
}

// horizon picks the forecast step count from the orbit shape: one full
// revolution for an elliptical orbit, a fixed horizon otherwise.
func (p *Predictor) horizon(b *Body, dt float64) int {
	if b.Thrusting() {
		return maneuverSteps
	}
	central, found := p.reg.Central()
	if !found {
		return openOrbitSteps
	}
	s := b.State()
	μ := p.integ.G * central.Mass
	el, err := ElementsFromRV(s.R, s.V, μ)
	if err != nil || !el.Elliptical() {
		return openOrbitSteps
	}
	steps := int(math.Ceil(el.Period(μ) / dt))
	if steps < 1 {
		steps = 1
	}
	if steps > maxForecastSteps {
		steps = maxForecastSteps
	}
	return steps
}

// decimate subsamples points with a uniform stride down to at most target
// entries. Already short sequences are returned unchanged; the first input
// point is always kept at index 0.
func decimate(points []Vec3, target int) []Vec3 {
	if target <= 0 || len(points) <= target {
		return points
	}
	stride := float64(len(points)) / float64(target)
	out := make([]Vec3, target)
	for i := 0; i < target; i++ {
		idx := int(math.Round(float64(i) * stride))
		if idx >= len(points) {
			idx = len(points) - 1
		}
		out[i] = points[idx]
	}
	return out
}
