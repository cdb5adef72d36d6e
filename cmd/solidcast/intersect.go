package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"solidcast/config"
	"solidcast/math"
	"solidcast/raycast"
)

type solidFlags struct {
	kind         string
	radius       float64
	size         float64
	halfBase     float64
	height       float64
	topRadius    float64
	bottomRadius float64
	min, max     []float64
}

func (f *solidFlags) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.kind, "kind", "", "Solid kind: sphere, box, pyramid, cone, tetrahedron, octahedron, dodecahedron, icosahedron")
	fs.Float64Var(&f.radius, "radius", 0, "Sphere radius")
	fs.Float64Var(&f.size, "size", 0, "Platonic solid size")
	fs.Float64Var(&f.halfBase, "half-base", 0, "Pyramid base half-width")
	fs.Float64Var(&f.height, "height", 0, "Pyramid or cone height")
	fs.Float64Var(&f.topRadius, "top-radius", 0, "Cone top radius")
	fs.Float64Var(&f.bottomRadius, "bottom-radius", 0, "Cone bottom radius")
	fs.Float64SliceVar(&f.min, "min", nil, "Box min corner x,y,z")
	fs.Float64SliceVar(&f.max, "max", nil, "Box max corner x,y,z")
}

// apply overrides the scenario's solid with every flag that was set.
func (f *solidFlags) apply(fs *pflag.FlagSet, s *config.Solid) error {
	if fs.Changed("kind") {
		*s = config.Solid{Kind: f.kind, Placement: s.Placement}
	}
	for _, o := range []struct {
		name string
		dst  *float64
		val  float64
	}{
		{"radius", &s.Radius, f.radius},
		{"size", &s.Size, f.size},
		{"half-base", &s.HalfBase, f.halfBase},
		{"height", &s.Height, f.height},
		{"top-radius", &s.TopRadius, f.topRadius},
		{"bottom-radius", &s.BottomRadius, f.bottomRadius},
	} {
		if fs.Changed(o.name) {
			*o.dst = o.val
		}
	}
	var err error
	if fs.Changed("min") {
		if s.Min, err = vec3Flag("min", f.min); err != nil {
			return err
		}
	}
	if fs.Changed("max") {
		if s.Max, err = vec3Flag("max", f.max); err != nil {
			return err
		}
	}
	return nil
}

func vec3Flag(name string, v []float64) (math.Vec3, error) {
	if len(v) != 3 {
		return math.Vec3{}, fmt.Errorf("--%s wants x,y,z, got %d values", name, len(v))
	}
	return math.NewVec3(v[0], v[1], v[2]), nil
}

type intersectOptions struct {
	solid   solidFlags
	origin  []float64
	dir     []float64
	workers int
	local   bool
}

// rayHits is one ray's result in YAML output.
type rayHits struct {
	Origin    math.Vec3   `json:"origin"`
	Direction math.Vec3   `json:"direction"`
	Hits      []math.Vec3 `json:"hits"`
}

func newIntersectCommand() *cobra.Command {
	opts := intersectOptions{}
	cmd := &cobra.Command{
		Use:   "intersect",
		Short: "Intersect rays with a solid",
		Long: `Intersect one ray (--origin and --dir) or every ray of the scenario with
its solid. Hits are printed nearest first in world space.`,
		Example: `  solidcast intersect --kind sphere --radius 1 --origin 0,0,5 --dir 0,0,-1
  solidcast intersect -f scenario.yaml -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntersect(cmd, opts)
		},
	}
	opts.solid.addFlags(cmd.Flags())
	cmd.Flags().Float64SliceVar(&opts.origin, "origin", nil, "Ray origin x,y,z")
	cmd.Flags().Float64SliceVar(&opts.dir, "dir", nil, "Ray direction x,y,z")
	cmd.Flags().IntVar(&opts.workers, "workers", runtime.NumCPU(), "Rays intersected in parallel")
	cmd.Flags().BoolVar(&opts.local, "local", false, "Ignore the scenario placement and intersect in the solid's own frame")
	return cmd
}

func runIntersect(cmd *cobra.Command, opts intersectOptions) error {
	flags := cmd.Flags()
	s, err := loadScenario(flags)
	if err != nil {
		return err
	}
	if err := opts.solid.apply(flags, &s.Solid); err != nil {
		return err
	}
	if flags.Changed("origin") || flags.Changed("dir") {
		origin, err := vec3Flag("origin", opts.origin)
		if err != nil {
			return err
		}
		dir, err := vec3Flag("dir", opts.dir)
		if err != nil {
			return err
		}
		s.Rays = []config.Ray{{Origin: origin, Direction: dir}}
	}
	if opts.local {
		s.Solid.Placement = config.Placement{Axis: math.Vec3Up, Scale: math.Vec3One}
	}
	if err := s.Validate(); err != nil {
		return err
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	solid, err := s.Solid.Build()
	if err != nil {
		return err
	}
	rays := s.WorldRays()
	results, err := raycast.IntersectAllPlaced(cmd.Context(), s.Solid.WorldPlacement(), solid, rays, opts.workers)
	if err != nil {
		return err
	}
	klog.V(2).InfoS("Intersected rays", "solid", solid.Kind(), "rays", len(rays), "workers", opts.workers)

	if p.yaml() {
		doc := make([]rayHits, len(rays))
		for i, r := range rays {
			doc[i] = rayHits{Origin: r.Origin, Direction: r.Direction, Hits: results[i]}
		}
		return p.document(doc)
	}
	for i, hits := range results {
		fmt.Fprintf(p.out, "ray %d: %d hit(s)\n", i, len(hits))
		for _, h := range hits {
			fmt.Fprintf(p.out, "  %s\n", h)
		}
	}
	return nil
}
