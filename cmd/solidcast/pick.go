package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"solidcast/camera"
	"solidcast/math"
	"solidcast/raycast"
)

type pickOptions struct {
	pixel  []float64
	width  float64
	height float64
	fov    float64
}

// pickResult is the YAML form of a pick.
type pickResult struct {
	Origin    math.Vec3   `json:"origin"`
	Direction math.Vec3   `json:"direction"`
	Terrain   *math.Vec3  `json:"terrain,omitempty"`
	Solid     []math.Vec3 `json:"solid,omitempty"`
}

func newPickCommand() *cobra.Command {
	opts := pickOptions{}
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Cast a ray from the scenario camera through a pixel",
		Long: `Build the ray through one pixel of the scenario camera's view and report
where it meets the terrain mesh and the placed solid.`,
		Example: `  solidcast pick -f scenario.yaml --pixel 320,200 --width 640 --height 400 --fov 60`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPick(cmd, opts)
		},
	}
	cmd.Flags().Float64SliceVar(&opts.pixel, "pixel", nil, "Pixel x,y from the top-left corner; defaults to the center")
	cmd.Flags().Float64Var(&opts.width, "width", 640, "Viewport width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", 480, "Viewport height in pixels")
	cmd.Flags().Float64Var(&opts.fov, "fov", 60, "Vertical field of view in degrees")
	return cmd
}

func runPick(cmd *cobra.Command, opts pickOptions) error {
	s, err := loadScenario(cmd.Flags())
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	px, py := opts.width/2, opts.height/2
	if opts.pixel != nil {
		if len(opts.pixel) != 2 {
			return fmt.Errorf("--pixel wants x,y, got %d values", len(opts.pixel))
		}
		px, py = opts.pixel[0], opts.pixel[1]
	}

	cam, err := s.NewCamera()
	if err != nil {
		return err
	}
	ray, err := camera.PickRay(cam.EyeFromWorld(), camera.Lens{FovY: opts.fov, Width: opts.width, Height: opts.height}, px, py)
	if err != nil {
		return err
	}
	result := pickResult{Origin: ray.Origin, Direction: ray.Direction}

	ground, err := s.Terrain.Build()
	if err != nil {
		return err
	}
	if ground.Field != nil {
		m, err := ground.Trimesh()
		if err != nil {
			return err
		}
		if hits := raycast.IntersectRayTrimesh(ray, m); len(hits) > 0 {
			result.Terrain = &hits[0].Point
		}
	}

	solid, err := s.Solid.Build()
	if err != nil {
		return err
	}
	if result.Solid, err = s.Solid.WorldPlacement().IntersectWorld(ray, solid); err != nil {
		return err
	}
	klog.V(2).InfoS("Picked", "pixel", []float64{px, py}, "terrain", result.Terrain != nil, "solidHits", len(result.Solid))

	if p.yaml() {
		return p.document(result)
	}
	fmt.Fprintf(p.out, "ray %s -> %s\n", result.Origin, result.Direction)
	if result.Terrain != nil {
		fmt.Fprintf(p.out, "terrain: %s\n", *result.Terrain)
	} else {
		fmt.Fprintln(p.out, "terrain: miss")
	}
	if len(result.Solid) > 0 {
		fmt.Fprintf(p.out, "%s: %s\n", solid.Kind(), result.Solid[0])
	} else {
		fmt.Fprintf(p.out, "%s: miss\n", solid.Kind())
	}
	return nil
}
