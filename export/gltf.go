// Package export writes debug scenes as glTF so intersection results can be
// inspected in any glTF viewer: the placed solid, the terrain, a small cube
// at every hit and a line per ray.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"solidcast/math"
	"solidcast/mesh"
	"solidcast/raycast"
)

// Color is linear RGBA.
type Color [4]float64

var (
	SolidColor   = Color{0.25, 0.45, 0.9, 1}
	TerrainColor = Color{0.35, 0.6, 0.3, 1}
	MarkerColor  = Color{0.95, 0.2, 0.15, 1}
	RayColor     = Color{1, 0.85, 0.2, 1}
)

// PlacedSolid is a solid in its model frame and where it sits in the world.
type PlacedSolid struct {
	Name      string
	Solid     raycast.Solid
	Placement raycast.Placement
	Color     Color
}

// Segment is a drawn ray from From to To.
type Segment struct {
	From, To math.Vec3
}

// Scene collects everything to export. A zero Placement is treated as
// identity.
type Scene struct {
	Solids   []PlacedSolid
	Terrain  *mesh.Trimesh
	Markers  []math.Vec3
	Rays     []Segment
	Segments int
	// MarkerSize is the edge length of the cube drawn at each marker.
	MarkerSize float64
}

// Build lays the scene out as a glTF document: one mesh and node per solid,
// one node per marker sharing a single cube mesh, and optional terrain and
// ray meshes.
func Build(s Scene) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "solidcast"
	root := &doc.Scenes[0].Nodes

	addNode := func(n *gltf.Node) {
		doc.Nodes = append(doc.Nodes, n)
		*root = append(*root, len(doc.Nodes)-1)
	}

	segments := s.segments()

	for i, ps := range s.Solids {
		name, m, err := solidMesh(i, ps, segments)
		if err != nil {
			return nil, err
		}
		color := ps.Color
		if color == (Color{}) {
			color = SolidColor
		}
		meshIdx := writeTrimesh(doc, name, m, addMaterial(doc, name, color, false))

		node := &gltf.Node{Name: name, Mesh: gltf.Index(meshIdx)}
		if ps.Placement.WorldFromModel != (math.Mat4{}) {
			node.Matrix = columnMajor(ps.Placement.WorldFromModel)
		}
		addNode(node)
	}

	if s.Terrain != nil {
		meshIdx := writeTrimesh(doc, "terrain", s.Terrain, addMaterial(doc, "terrain", TerrainColor, true))
		addNode(&gltf.Node{Name: "terrain", Mesh: gltf.Index(meshIdx)})
	}

	if len(s.Markers) > 0 {
		cube, err := s.markerCube(segments)
		if err != nil {
			return nil, err
		}
		meshIdx := writeTrimesh(doc, "marker", cube, addMaterial(doc, "marker", MarkerColor, false))
		for i, p := range s.Markers {
			addNode(&gltf.Node{
				Name:        fmt.Sprintf("hit_%d", i),
				Mesh:        gltf.Index(meshIdx),
				Translation: [3]float64{p.X, p.Y, p.Z},
			})
		}
	}

	if len(s.Rays) > 0 {
		positions := make([][3]float32, 0, 2*len(s.Rays))
		for _, r := range s.Rays {
			positions = append(positions, vec32(r.From), vec32(r.To))
		}
		material := addMaterial(doc, "ray", RayColor, false)
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: "rays",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{"POSITION": modeler.WritePosition(doc, positions)},
				Material:   gltf.Index(material),
				Mode:       gltf.PrimitiveLines,
			}},
		})
		addNode(&gltf.Node{Name: "rays", Mesh: gltf.Index(len(doc.Meshes) - 1)})
	}

	return doc, nil
}

// Save writes doc to path: binary for .glb, JSON with embedded buffers
// otherwise.
func Save(doc *gltf.Document, path string) error {
	var err error
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = gltf.SaveBinary(doc, path)
	} else {
		for _, b := range doc.Buffers {
			if b.URI == "" {
				b.EmbeddedResource()
			}
		}
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("gltf save %q: %w", path, err)
	}
	return nil
}

func (s Scene) segments() int {
	if s.Segments <= 0 {
		return mesh.DefaultSegments
	}
	return s.Segments
}

func solidMesh(i int, ps PlacedSolid, segments int) (string, *mesh.Trimesh, error) {
	name := ps.Name
	if name == "" {
		name = fmt.Sprintf("%s_%d", ps.Solid.Kind(), i)
	}
	m, err := mesh.FromSolid(ps.Solid, segments)
	if err != nil {
		return "", nil, fmt.Errorf("export solid %q: %w", name, err)
	}
	m.Name = name
	return name, m, nil
}

func (s Scene) markerCube(segments int) (*mesh.Trimesh, error) {
	size := s.MarkerSize
	if size <= 0 {
		size = 0.05
	}
	half := math.NewVec3(size/2, size/2, size/2)
	cube, err := mesh.FromSolid(raycast.Box{Min: half.Negate(), Max: half}, segments)
	if err != nil {
		return nil, fmt.Errorf("export marker: %w", err)
	}
	return cube, nil
}

func writeTrimesh(doc *gltf.Document, name string, m *mesh.Trimesh, material int) int {
	positions := make([][3]float32, len(m.Positions))
	for i, p := range m.Positions {
		positions[i] = vec32(p)
	}
	normals := make([][3]float32, len(m.Normals))
	for i, n := range m.Normals {
		normals[i] = vec32(n)
	}

	attributes := map[string]int{"POSITION": modeler.WritePosition(doc, positions)}
	if len(normals) == len(positions) {
		attributes["NORMAL"] = modeler.WriteNormal(doc, normals)
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(modeler.WriteIndices(doc, m.Indices())),
			Attributes: attributes,
			Material:   gltf.Index(material),
			Mode:       gltf.PrimitiveTriangles,
		}},
	})
	return len(doc.Meshes) - 1
}

func addMaterial(doc *gltf.Document, name string, color Color, doubleSided bool) int {
	base := [4]float64(color)
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        name,
		DoubleSided: doubleSided,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &base,
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(0.8),
		},
	})
	return len(doc.Materials) - 1
}

// columnMajor flattens a row-vector matrix into glTF's column-major layout.
// The transpose and the change of major order cancel, so rows are copied
// in order.
func columnMajor(m math.Mat4) [16]float64 {
	var out [16]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = m[r][c]
		}
	}
	return out
}

func vec32(v math.Vec3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
