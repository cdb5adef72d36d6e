package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"solidcast/math"
	"solidcast/mesh"
)

// Meshes flattens the scene into world-space meshes: each placed solid, the
// terrain, and a cube per marker. Rays are not included.
func (s Scene) Meshes() ([]*mesh.Trimesh, error) {
	segments := s.segments()
	var out []*mesh.Trimesh
	for i, ps := range s.Solids {
		_, m, err := solidMesh(i, ps, segments)
		if err != nil {
			return nil, err
		}
		if ps.Placement.WorldFromModel != (math.Mat4{}) {
			m = m.Transform(ps.Placement.WorldFromModel)
		}
		out = append(out, m)
	}
	if s.Terrain != nil {
		out = append(out, s.Terrain)
	}
	if len(s.Markers) > 0 {
		cube, err := s.markerCube(segments)
		if err != nil {
			return nil, err
		}
		for i, p := range s.Markers {
			marker := cube.Transform(math.Mat4Translation(p))
			marker.Name = fmt.Sprintf("hit_%d", i)
			out = append(out, marker)
		}
	}
	return out, nil
}

// WriteOBJ writes meshes as Wavefront OBJ objects with vertex normals.
func WriteOBJ(w io.Writer, meshes []*mesh.Trimesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# solidcast")
	vertexOffset := 0
	for i, m := range meshes {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("mesh_%d", i)
		}
		fmt.Fprintf(bw, "o %s\n", name)
		for _, p := range m.Positions {
			fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
		}
		normals := len(m.Normals) == len(m.Positions)
		if normals {
			for _, n := range m.Normals {
				fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
			}
		}
		// OBJ indices are 1-based and count across objects.
		for _, f := range m.Faces {
			a, b, c := f[0]+1+vertexOffset, f[1]+1+vertexOffset, f[2]+1+vertexOffset
			if normals {
				fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
			} else {
				fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
			}
		}
		vertexOffset += len(m.Positions)
	}
	return bw.Flush()
}

// SaveOBJ writes meshes to path.
func SaveOBJ(path string, meshes []*mesh.Trimesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create OBJ file: %w", err)
	}
	if err := WriteOBJ(f, meshes); err != nil {
		f.Close()
		return fmt.Errorf("write OBJ %q: %w", path, err)
	}
	return f.Close()
}
