package normals

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chikichikibangbang/yavne/pkg/math3d"
	"github.com/chikichikibangbang/yavne/pkg/mesh"
)

// ParallelThreshold is the vertex count above which a compute pass spawns
// parallel workers.
const ParallelThreshold = 5000

// Options configures a compute pass.
type Options struct {
	// UseAutoSmooth enables the smoothing-angle threshold; when disabled
	// the threshold is the full half circle and only sharp edges split.
	UseAutoSmooth bool
	// SmoothAngle is the shading-group angle threshold in radians.
	SmoothAngle float64
	// FlatFaces isolates faces without their smoothing flag into
	// singleton shading groups.
	FlatFaces bool
	// LinkedAreaWeights selects the linked-island area cache.
	LinkedAreaWeights bool
	// LinkAngle is the island-merge dihedral threshold in radians.
	LinkAngle float64
	// Workers is the worker count for parallel passes; 0 means NumCPU.
	Workers int
	// Parallel gates parallel execution. Serial and parallel passes run
	// the identical worker code path and produce identical output.
	Parallel bool
}

// DefaultOptions returns the options a host starts from.
func DefaultOptions() Options {
	return Options{
		UseAutoSmooth: true,
		SmoothAngle:   math.Pi / 3,
		LinkAngle:     math.Pi / 180,
		Parallel:      true,
	}
}

// Engine computes per-corner split normals and commits them to the mesh.
type Engine struct {
	opts Options
	log  *zap.Logger
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(opts Options, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{opts: opts, log: log}
}

// Options returns the engine's configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// Compute runs one full pass: the vertex domain is partitioned into
// contiguous chunks, each worker resolves shading groups and aggregates
// normals for its vertices into a shared per-corner buffer, and after all
// workers have joined the buffer is committed to the mesh in one step.
// Chunk ownership is disjoint, so the buffer needs no locking. On worker
// error or context cancellation the pass fails before commit and the mesh
// is left untouched.
func (e *Engine) Compute(ctx context.Context, m *mesh.Mesh) error {
	buffer := make([]math3d.Vec3, len(m.Corners))

	total := 1
	if e.opts.Parallel && len(m.Verts) > ParallelThreshold {
		total = e.opts.Workers
		if total <= 0 {
			total = runtime.NumCPU()
		}
	}

	e.log.Debug("compute pass",
		zap.Int("verts", len(m.Verts)),
		zap.Int("corners", len(m.Corners)),
		zap.Int("workers", total),
	)

	if total == 1 {
		if err := e.worker(ctx, m, buffer, 0, 1); err != nil {
			return fmt.Errorf("compute pass: %w", err)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for chunk := range total {
			g.Go(func() error {
				return e.worker(gctx, m, buffer, chunk, total)
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("compute pass: %w", err)
		}
	}

	return m.Attrs().CommitSplitNormals(buffer)
}

// ChunkRange returns the vertex index range [first, last) owned by the
// given chunk. Ranges are contiguous, non-overlapping, and cover [0, n)
// exactly for any chunk count.
func ChunkRange(chunk, total, n int) (first, last int) {
	return chunk * n / total, (chunk + 1) * n / total
}

// worker resolves split normals for every vertex in its chunk, writing
// only buffer slots belonging to its vertices' corners.
func (e *Engine) worker(ctx context.Context, m *mesh.Mesh, buffer []math3d.Vec3, chunk, total int) error {
	attrs := m.Attrs()
	cache := NewAreaCache(m, e.opts.LinkedAreaWeights, e.opts.LinkAngle)

	smoothAngle := math.Pi
	if e.opts.UseAutoSmooth {
		smoothAngle = e.opts.SmoothAngle
	}

	first, last := ChunkRange(chunk, total, len(m.Verts))
	for v := first; v < last; v++ {
		if v%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		// A vertex with no incident corners owns no buffer slots.
		if len(m.VertCorners(v)) == 0 {
			continue
		}

		mode := attrs.WeightMode(v)
		for _, group := range SplitCorners(m, v, smoothAngle, e.opts.FlatFaces) {
			n := GroupNormal(m, group, mode, cache)
			for _, c := range group {
				buffer[c] = n
			}
		}
	}
	return nil
}
