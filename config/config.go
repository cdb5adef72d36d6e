// Package config reads scenario files: a terrain, a camera, colliders, one
// placed solid and a batch of rays, plus how to simulate and export them.
//
// Files are YAML. Field names follow the json tags below; unknown fields are
// rejected so typos surface instead of silently taking defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"solidcast/camera"
	"solidcast/input"
	"solidcast/math"
	"solidcast/raycast"
	"solidcast/terrain"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid scenario")

type Scenario struct {
	// Verbosity is the klog -v level used when the command line does not
	// set one.
	Verbosity  int           `json:"verbosity,omitempty"`
	Camera     Camera        `json:"camera"`
	Terrain    Terrain       `json:"terrain"`
	Colliders  []raycast.Box `json:"colliders,omitempty"`
	Solid      Solid         `json:"solid"`
	Rays       []Ray         `json:"rays,omitempty"`
	Simulation Simulation    `json:"simulation"`
	Export     Export        `json:"export"`
}

type Camera struct {
	From math.Vec3 `json:"from"`
	To   math.Vec3 `json:"to"`
	// Up defaults to +Y.
	Up      math.Vec3 `json:"up"`
	Offset  float64   `json:"offset"`
	GodMode bool      `json:"godMode,omitempty"`
	// Tuning and Controls keys absent from a file keep their defaults; an
	// explicit zero such as gravity: 0 is kept.
	Tuning   camera.Tuning    `json:"tuning"`
	Controls input.Controller `json:"controls"`
	// ClampToTerrain keeps the camera over the terrain's footprint.
	ClampToTerrain bool `json:"clampToTerrain,omitempty"`
}

// Terrain is either explicit Rows of heights or a Flat grid of Width by
// Depth samples at Height.
type Terrain struct {
	Rows    [][]float64 `json:"rows,omitempty"`
	Width   int         `json:"width,omitempty"`
	Depth   int         `json:"depth,omitempty"`
	Height  float64     `json:"height,omitempty"`
	Factors math.Vec3   `json:"factors"`
	Offset  float64     `json:"offset,omitempty"`
}

// Solid describes one solid and where it sits. Only the fields its Kind
// uses are read.
type Solid struct {
	Kind         string    `json:"kind"`
	Center       math.Vec3 `json:"center"`
	Radius       float64   `json:"radius,omitempty"`
	Min          math.Vec3 `json:"min"`
	Max          math.Vec3 `json:"max"`
	HalfBase     float64   `json:"halfBase,omitempty"`
	Height       float64   `json:"height,omitempty"`
	TopRadius    float64   `json:"topRadius,omitempty"`
	BottomRadius float64   `json:"bottomRadius,omitempty"`
	Size         float64   `json:"size,omitempty"`
	Placement    Placement `json:"placement"`
}

// Placement is a translation, a rotation of Degrees about Axis, and a scale.
type Placement struct {
	Translation math.Vec3 `json:"translation"`
	Axis        math.Vec3 `json:"axis"`
	Degrees     float64   `json:"degrees,omitempty"`
	Scale       math.Vec3 `json:"scale"`
}

type Ray struct {
	Origin    math.Vec3 `json:"origin"`
	Direction math.Vec3 `json:"direction"`
}

type Simulation struct {
	Steps     int     `json:"steps"`
	ElapsedMs float64 `json:"elapsedMs"`
	// Script is played in order; steps past its end get empty input.
	Script []Step `json:"script,omitempty"`
}

// Step holds State for Frames consecutive frames.
type Step struct {
	Frames int         `json:"frames"`
	State  input.State `json:"state"`
}

type Export struct {
	Out        string  `json:"out"`
	Segments   int     `json:"segments"`
	MarkerSize float64 `json:"markerSize"`
	Terrain    bool    `json:"terrain"`
	Workers    int     `json:"workers"`
}

// Load reads a scenario file and fills in defaults. It does not validate.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML or JSON scenario and fills in defaults.
func Parse(data []byte) (*Scenario, error) {
	s := Scenario{Camera: Camera{Tuning: camera.DefaultTuning(), Controls: stockControls()}}
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, err
	}
	s.Default()
	return &s, nil
}

// Marshal renders s as YAML.
func (s *Scenario) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Default fills every unset field. Explicit values are kept. An all-zero
// Tuning or Controls section counts as unset.
func (s *Scenario) Default() {
	if s.Camera.From == math.Vec3Zero && s.Camera.To == math.Vec3Zero {
		s.Camera.To = math.Vec3Back
	}
	if s.Camera.Up == math.Vec3Zero {
		s.Camera.Up = math.Vec3Up
	}
	defaultTuning(&s.Camera.Tuning)
	defaultControls(&s.Camera.Controls)

	if s.Terrain.Factors == math.Vec3Zero {
		s.Terrain.Factors = math.Vec3One
	}
	if s.Solid.Kind == "" {
		s.Solid.Kind = raycast.KindSphere.String()
		if s.Solid.Radius == 0 {
			s.Solid.Radius = 1
		}
	}
	if s.Solid.Placement.Scale == math.Vec3Zero {
		s.Solid.Placement.Scale = math.Vec3One
	}
	if s.Solid.Placement.Axis == math.Vec3Zero {
		s.Solid.Placement.Axis = math.Vec3Up
	}

	if s.Simulation.Steps == 0 {
		s.Simulation.Steps = 60
	}
	if s.Simulation.ElapsedMs == 0 {
		s.Simulation.ElapsedMs = 16
	}

	if s.Export.Out == "" {
		s.Export.Out = "scene.glb"
	}
	if s.Export.Segments == 0 {
		s.Export.Segments = 24
	}
	if s.Export.MarkerSize == 0 {
		s.Export.MarkerSize = 0.05
	}
}

func defaultTuning(t *camera.Tuning) {
	if *t == (camera.Tuning{}) {
		*t = camera.DefaultTuning()
	}
}

func stockControls() input.Controller {
	d := input.NewController()
	return input.Controller{
		Speed:          d.Speed,
		SprintFactor:   d.SprintFactor,
		LookSpeed:      d.LookSpeed,
		MouseLookSpeed: d.MouseLookSpeed,
		JumpVelocity:   d.JumpVelocity,
		MaxPitch:       d.MaxPitch,
	}
}

func defaultControls(c *input.Controller) {
	if c.Speed == 0 && c.SprintFactor == 0 && c.LookSpeed == 0 &&
		c.MouseLookSpeed == 0 && c.JumpVelocity == 0 && c.MaxPitch == 0 {
		stock := stockControls()
		c.Speed, c.SprintFactor, c.LookSpeed = stock.Speed, stock.SprintFactor, stock.LookSpeed
		c.MouseLookSpeed, c.JumpVelocity, c.MaxPitch = stock.MouseLookSpeed, stock.JumpVelocity, stock.MaxPitch
	}
}

// Validate reports every problem it finds, each wrapping ErrInvalid.
func (s *Scenario) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if s.Camera.To == s.Camera.From {
		bad("camera.to must differ from camera.from")
	}
	if s.Camera.Controls.MaxPitch <= 0 || s.Camera.Controls.MaxPitch >= 90 {
		bad("camera.controls.maxPitch %v must be in (0, 90)", s.Camera.Controls.MaxPitch)
	}

	if _, err := s.Terrain.Build(); err != nil {
		bad("terrain: %v", err)
	}
	if s.Terrain.Factors.X == 0 || s.Terrain.Factors.Z == 0 {
		bad("terrain.factors must be non-zero in x and z")
	}

	for i, b := range s.Colliders {
		if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z {
			bad("colliders[%d]: min %v exceeds max %v", i, b.Min, b.Max)
		}
	}

	if _, err := s.Solid.Build(); err != nil {
		bad("solid: %v", err)
	}
	if p := s.Solid.Placement.Scale; p.X == 0 || p.Y == 0 || p.Z == 0 {
		bad("solid.placement.scale %v has a zero component", p)
	}

	for i, r := range s.Rays {
		if r.Direction == math.Vec3Zero {
			bad("rays[%d]: zero direction", i)
		}
	}

	if s.Simulation.Steps < 0 {
		bad("simulation.steps %d is negative", s.Simulation.Steps)
	}
	if s.Simulation.ElapsedMs <= 0 {
		bad("simulation.elapsedMs %v must be positive", s.Simulation.ElapsedMs)
	}
	for i, st := range s.Simulation.Script {
		if st.Frames <= 0 {
			bad("simulation.script[%d]: frames must be positive", i)
		}
	}

	if s.Export.Segments < 3 {
		bad("export.segments %d must be at least 3", s.Export.Segments)
	}
	if s.Export.MarkerSize <= 0 {
		bad("export.markerSize %v must be positive", s.Export.MarkerSize)
	}
	return errors.Join(errs...)
}

// Build makes the heightfield sampler. An empty terrain section yields a
// sampler with no field, which has no ground anywhere.
func (t Terrain) Build() (terrain.Scaled, error) {
	scaled := terrain.Scaled{Factors: t.Factors, Offset: t.Offset}
	var (
		field *terrain.Heightfield
		err   error
	)
	switch {
	case len(t.Rows) > 0:
		field, err = terrain.FromRows(t.Rows)
	case t.Width != 0 || t.Depth != 0:
		field, err = terrain.Flat(t.Width, t.Depth, t.Height)
	default:
		return scaled, nil
	}
	if err != nil {
		return terrain.Scaled{}, err
	}
	scaled.Field = field
	return scaled, nil
}

// Build returns the solid in its model frame.
func (s Solid) Build() (raycast.Solid, error) {
	kind, err := raycast.ParseKind(s.Kind)
	if err != nil {
		return nil, err
	}
	positive := func(name string, v float64) error {
		if v <= 0 {
			return fmt.Errorf("%s %s must be positive, got %v", kind, name, v)
		}
		return nil
	}
	switch kind {
	case raycast.KindSphere:
		return raycast.Sphere{Center: s.Center, Radius: s.Radius}, positive("radius", s.Radius)
	case raycast.KindBox:
		if s.Min.X > s.Max.X || s.Min.Y > s.Max.Y || s.Min.Z > s.Max.Z {
			return nil, fmt.Errorf("box min %v exceeds max %v", s.Min, s.Max)
		}
		return raycast.Box{Min: s.Min, Max: s.Max}, nil
	case raycast.KindPyramid:
		err := errors.Join(positive("halfBase", s.HalfBase), positive("height", s.Height))
		return raycast.Pyramid{HalfBase: s.HalfBase, Height: s.Height}, err
	case raycast.KindCone:
		if s.TopRadius < 0 || s.BottomRadius < 0 {
			return nil, fmt.Errorf("cone radii must not be negative")
		}
		return raycast.Cone{TopRadius: s.TopRadius, BottomRadius: s.BottomRadius, Height: s.Height}, positive("height", s.Height)
	case raycast.KindTetrahedron:
		return raycast.Tetrahedron{Size: s.Size}, positive("size", s.Size)
	case raycast.KindOctahedron:
		return raycast.Octahedron{Size: s.Size}, positive("size", s.Size)
	case raycast.KindDodecahedron:
		return raycast.Dodecahedron{Size: s.Size}, positive("size", s.Size)
	case raycast.KindIcosahedron:
		return raycast.Icosahedron{Size: s.Size}, positive("size", s.Size)
	}
	return nil, fmt.Errorf("unsupported solid kind %s", kind)
}

// WorldPlacement returns where the solid sits in the world.
func (s Solid) WorldPlacement() raycast.Placement {
	p := s.Placement
	rotation := math.QuaternionFromAxisAngle(p.Axis, math.Radians(p.Degrees))
	return raycast.NewPlacement(p.Translation, rotation, p.Scale)
}

// WorldRays converts the configured rays. Zero directions are kept as given;
// intersecting them yields no hits.
func (s *Scenario) WorldRays() []raycast.Ray {
	out := make([]raycast.Ray, len(s.Rays))
	for i, r := range s.Rays {
		out[i] = raycast.Ray{Origin: r.Origin, Direction: r.Direction}
	}
	return out
}

// NewCamera builds the first-person camera with its colliders, tuning and
// terrain.
func (s *Scenario) NewCamera() (*camera.FirstPersonCamera, error) {
	ground, err := s.Terrain.Build()
	if err != nil {
		return nil, fmt.Errorf("config: terrain: %w", err)
	}
	var surface camera.Surface
	if ground.Field != nil {
		surface = ground
	}
	cam, err := camera.NewFirstPerson(s.Camera.From, s.Camera.To, s.Camera.Up, surface, s.Camera.Offset)
	if err != nil {
		return nil, fmt.Errorf("config: camera: %w", err)
	}
	cam.Tuning = s.Camera.Tuning
	cam.GodMode = s.Camera.GodMode
	for _, b := range s.Colliders {
		cam.AddCollider(b)
	}
	return cam, nil
}

// NewController builds the input controller, clamped to the terrain when
// asked.
func (s *Scenario) NewController() (*input.Controller, error) {
	c := input.NewController()
	c.Speed = s.Camera.Controls.Speed
	c.SprintFactor = s.Camera.Controls.SprintFactor
	c.LookSpeed = s.Camera.Controls.LookSpeed
	c.MouseLookSpeed = s.Camera.Controls.MouseLookSpeed
	c.JumpVelocity = s.Camera.Controls.JumpVelocity
	c.MaxPitch = s.Camera.Controls.MaxPitch
	if s.Camera.ClampToTerrain {
		ground, err := s.Terrain.Build()
		if err != nil {
			return nil, fmt.Errorf("config: terrain: %w", err)
		}
		if ground.Field != nil {
			extent := ground.Extent()
			c.Bounds = &extent
		}
	}
	return c, nil
}

// StateAt returns the scripted input for frame i.
func (s Simulation) StateAt(i int) input.State {
	for _, st := range s.Script {
		if i < st.Frames {
			return st.State
		}
		i -= st.Frames
	}
	return input.State{}
}
