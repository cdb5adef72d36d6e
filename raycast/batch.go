package raycast

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"solidcast/math"
)

// IntersectAll intersects every ray with solid using up to workers
// goroutines. Results are indexed like rays. A workers value below one uses
// GOMAXPROCS.
func IntersectAll(ctx context.Context, solid Solid, rays []Ray, workers int) ([][]math.Vec3, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([][]math.Vec3, len(rays))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := range rays {
		if egctx.Err() != nil {
			break
		}
		i := i
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			results[i] = solid.Intersect(rays[i])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// IntersectAllPlaced is IntersectAll for a solid placed in the world.
func IntersectAllPlaced(ctx context.Context, p Placement, solid Solid, rays []Ray, workers int) ([][]math.Vec3, error) {
	modelFromWorld, ok := p.WorldFromModel.Inverse()
	if !ok {
		return nil, ErrSingularPlacement
	}
	local := make([]Ray, len(rays))
	for i, r := range rays {
		local[i] = Ray{Origin: modelFromWorld.MulPoint(r.Origin), Direction: modelFromWorld.MulDir(r.Direction)}
	}
	results, err := IntersectAll(ctx, solid, local, workers)
	if err != nil {
		return nil, err
	}
	for _, points := range results {
		for j, pt := range points {
			points[j] = p.WorldFromModel.MulPoint(pt)
		}
	}
	return results, nil
}
