package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solidcast/math"
	"solidcast/mesh"
	"solidcast/raycast"
	"solidcast/terrain"
)

func testScene(t *testing.T) Scene {
	t.Helper()
	field, err := terrain.FromRows([][]float64{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}})
	require.NoError(t, err)
	ground, err := field.ToTrimesh(math.NewVec3(2, 1, 2))
	require.NoError(t, err)

	placement := raycast.NewPlacement(math.NewVec3(1, 2, 3), math.QuaternionIdentity(), math.Vec3One)
	return Scene{
		Solids: []PlacedSolid{
			{Name: "ball", Solid: raycast.Sphere{Radius: 1}, Placement: placement},
			{Solid: raycast.Octahedron{Size: 1}},
		},
		Terrain:  ground,
		Markers:  []math.Vec3{{X: 1, Y: 2, Z: 4}, {X: 1, Y: 2, Z: 2}, {X: 0, Y: 0, Z: 0}},
		Rays:     []Segment{{From: math.NewVec3(1, 2, 10), To: math.NewVec3(1, 2, 2)}},
		Segments: 8,
	}
}

func nodeByName(doc *gltf.Document, name string) *gltf.Node {
	for _, n := range doc.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

func TestBuildLayout(t *testing.T) {
	doc, err := Build(testScene(t))
	require.NoError(t, err)

	// ball, octahedron, terrain, shared marker cube, rays
	assert.Len(t, doc.Meshes, 5)
	// one node per solid, terrain, one per marker, rays
	assert.Len(t, doc.Nodes, 7)
	assert.Len(t, doc.Scenes[0].Nodes, 7)

	ball := nodeByName(doc, "ball")
	require.NotNil(t, ball)
	assert.Equal(t, [3]float64{1, 2, 3}, [3]float64{ball.Matrix[12], ball.Matrix[13], ball.Matrix[14]})

	require.NotNil(t, nodeByName(doc, "octahedron_1"), "unnamed solids are named by kind")

	hit := nodeByName(doc, "hit_1")
	require.NotNil(t, hit)
	assert.Equal(t, [3]float64{1, 2, 2}, hit.Translation)
	assert.Equal(t, *nodeByName(doc, "hit_0").Mesh, *hit.Mesh, "markers share one mesh")

	rays := nodeByName(doc, "rays")
	require.NotNil(t, rays)
	assert.Equal(t, gltf.PrimitiveLines, doc.Meshes[*rays.Mesh].Primitives[0].Mode)

	terrainNode := nodeByName(doc, "terrain")
	require.NotNil(t, terrainNode)
	material := doc.Materials[*doc.Meshes[*terrainNode.Mesh].Primitives[0].Material]
	assert.True(t, material.DoubleSided)
}

func TestSaveAndReopen(t *testing.T) {
	scene := testScene(t)
	doc, err := Build(scene)
	require.NoError(t, err)

	for _, name := range []string{"scene.glb", "scene.gltf"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(doc, path))

			back, err := gltf.Open(path)
			require.NoError(t, err)
			require.Len(t, back.Meshes, len(doc.Meshes))

			ball := nodeByName(back, "ball")
			require.NotNil(t, ball)
			prim := back.Meshes[*ball.Mesh].Primitives[0]
			positions, err := modeler.ReadPosition(back, back.Accessors[prim.Attributes["POSITION"]], nil)
			require.NoError(t, err)

			want, err := mesh.FromSolid(raycast.Sphere{Radius: 1}, scene.Segments)
			require.NoError(t, err)
			require.Len(t, positions, len(want.Positions))
			for i, p := range positions {
				assert.InDelta(t, want.Positions[i].X, float64(p[0]), 1e-6)
				assert.InDelta(t, want.Positions[i].Y, float64(p[1]), 1e-6)
				assert.InDelta(t, want.Positions[i].Z, float64(p[2]), 1e-6)
			}

			indices, err := modeler.ReadIndices(back, back.Accessors[*prim.Indices], nil)
			require.NoError(t, err)
			assert.Equal(t, want.Indices(), indices)
		})
	}
}

func TestBuildEmptyScene(t *testing.T) {
	doc, err := Build(Scene{})
	require.NoError(t, err)
	assert.Empty(t, doc.Meshes)
	assert.Empty(t, doc.Nodes)
}

type oddSolid struct{}

func (oddSolid) Kind() raycast.Kind                { return raycast.Kind(42) }
func (oddSolid) Intersect(raycast.Ray) []math.Vec3 { return nil }
func (oddSolid) Bounds() raycast.Box               { return raycast.Box{} }

func TestBuildRejectsUnknownSolid(t *testing.T) {
	_, err := Build(Scene{Solids: []PlacedSolid{{Name: "odd", Solid: oddSolid{}}}})
	assert.ErrorContains(t, err, "odd")
}

func TestColumnMajorMatchesGLTFLayout(t *testing.T) {
	m := math.Mat4Translation(math.NewVec3(4, 5, 6))
	got := columnMajor(m)
	assert.Equal(t, [3]float64{4, 5, 6}, [3]float64{got[12], got[13], got[14]})
	assert.Equal(t, 1.0, got[0])
	assert.Equal(t, 0.0, got[3])
}

func TestMeshesAreInWorldSpace(t *testing.T) {
	meshes, err := testScene(t).Meshes()
	require.NoError(t, err)
	// two solids, terrain, three markers
	require.Len(t, meshes, 6)

	ball := meshes[0]
	assert.Equal(t, "ball", ball.Name)
	assert.InDelta(t, 2, ball.Bounds().Center().Y, 1e-9, "placed at y=2")

	marker := meshes[4]
	assert.Equal(t, "hit_1", marker.Name)
	assert.True(t, marker.Bounds().Center().ApproxEqual(math.NewVec3(1, 2, 2), 1e-9))
}

func TestWriteOBJ(t *testing.T) {
	quad, err := mesh.New("quad", []math.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1},
	}, [][3]int{{0, 2, 1}, {0, 3, 2}})
	require.NoError(t, err)
	other := &mesh.Trimesh{Positions: []math.Vec3{{}, {X: 1}, {Y: 1}}, Faces: [][3]int{{0, 1, 2}}}

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, []*mesh.Trimesh{quad, other}))
	got := buf.String()

	assert.Contains(t, got, "o quad\n")
	assert.Contains(t, got, "v 1 0 1\n")
	assert.Contains(t, got, "vn 0 1 0\n")
	assert.Contains(t, got, "f 1//1 3//3 2//2\n")
	assert.Contains(t, got, "o mesh_1\n", "unnamed meshes get an index")
	assert.Contains(t, got, "f 5 6 7\n", "indices continue across objects")
}

func TestSaveOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.obj")
	meshes, err := testScene(t).Meshes()
	require.NoError(t, err)
	require.NoError(t, SaveOBJ(path, meshes))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(string(data), "\no "))
}
