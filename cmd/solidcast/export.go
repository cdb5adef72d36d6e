package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"solidcast/export"
	"solidcast/math"
	"solidcast/raycast"
)

type exportOptions struct {
	solid     solidFlags
	out       string
	terrain   bool
	rayLength float64
}

func newExportCommand() *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the scenario's solid, terrain and ray hits as glTF",
		Long: `Intersect the scenario's rays with its solid and write a glTF scene holding
the placed solid, one marker per hit, a line per ray and optionally the terrain.
A .glb extension writes binary glTF, .obj writes Wavefront OBJ with every
mesh in world space, and anything else writes glTF JSON.`,
		Example: `  solidcast export -f scenario.yaml --out scene.glb --terrain`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}
	opts.solid.addFlags(cmd.Flags())
	cmd.Flags().StringVar(&opts.out, "out", "", "Output path; overrides the scenario")
	cmd.Flags().BoolVar(&opts.terrain, "terrain", false, "Include the terrain mesh; overrides the scenario")
	cmd.Flags().Float64Var(&opts.rayLength, "ray-length", 10, "Length drawn for rays that hit nothing")
	return cmd
}

func runExport(cmd *cobra.Command, opts exportOptions) error {
	flags := cmd.Flags()
	s, err := loadScenario(flags)
	if err != nil {
		return err
	}
	if err := opts.solid.apply(flags, &s.Solid); err != nil {
		return err
	}
	if flags.Changed("out") {
		s.Export.Out = opts.out
	}
	if flags.Changed("terrain") {
		s.Export.Terrain = opts.terrain
	}
	if err := s.Validate(); err != nil {
		return err
	}

	solid, err := s.Solid.Build()
	if err != nil {
		return err
	}
	placement := s.Solid.WorldPlacement()
	rays := s.WorldRays()
	results, err := raycast.IntersectAllPlaced(cmd.Context(), placement, solid, rays, s.Export.Workers)
	if err != nil {
		return err
	}

	scene := export.Scene{
		Solids:     []export.PlacedSolid{{Solid: solid, Placement: placement}},
		Segments:   s.Export.Segments,
		MarkerSize: s.Export.MarkerSize,
	}
	for i, r := range rays {
		hits := results[i]
		scene.Markers = append(scene.Markers, hits...)
		end, ok := rayEnd(r, hits, opts.rayLength)
		if ok {
			scene.Rays = append(scene.Rays, export.Segment{From: r.Origin, To: end})
		}
	}
	if s.Export.Terrain {
		ground, err := s.Terrain.Build()
		if err != nil {
			return err
		}
		if ground.Field != nil {
			if scene.Terrain, err = ground.Trimesh(); err != nil {
				return err
			}
		}
	}

	var meshes int
	if strings.EqualFold(filepath.Ext(s.Export.Out), ".obj") {
		all, err := scene.Meshes()
		if err != nil {
			return err
		}
		if err := export.SaveOBJ(s.Export.Out, all); err != nil {
			return err
		}
		meshes = len(all)
	} else {
		doc, err := export.Build(scene)
		if err != nil {
			return err
		}
		if err := export.Save(doc, s.Export.Out); err != nil {
			return err
		}
		meshes = len(doc.Meshes)
	}
	klog.V(2).InfoS("Exported scene", "out", s.Export.Out, "meshes", meshes, "markers", len(scene.Markers))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d mesh(es), %d hit marker(s)\n", s.Export.Out, meshes, len(scene.Markers))
	return nil
}

// rayEnd is the farthest hit, or a point length along the ray when it
// misses. Rays with no direction are not drawn.
func rayEnd(r raycast.Ray, hits []math.Vec3, length float64) (math.Vec3, bool) {
	if len(hits) > 0 {
		return hits[len(hits)-1], true
	}
	dir, err := r.Direction.Normalize()
	if err != nil {
		return math.Vec3{}, false
	}
	return r.Origin.Add(dir.Mul(length)), true
}
