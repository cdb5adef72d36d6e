package camera

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solidcast/math"
	"solidcast/raycast"
	"solidcast/terrain"
)

const frameMs = 16.0

func flatGround(t *testing.T, height float64) terrain.Scaled {
	t.Helper()
	field, err := terrain.Flat(3, 3, height)
	require.NoError(t, err)
	return terrain.Scaled{Field: field, Factors: math.NewVec3(1, 1, 1)}
}

func newWalker(t *testing.T, from, to math.Vec3, ground Surface) *FirstPersonCamera {
	t.Helper()
	c, err := NewFirstPerson(from, to, math.Vec3Up, ground, 0)
	require.NoError(t, err)
	return c
}

// settle runs physics until the camera lands or the frame budget runs out.
func settle(t *testing.T, c *FirstPersonCamera) {
	t.Helper()
	for i := 0; i < 2000 && c.Airborne(); i++ {
		c.UpdatePhysics(frameMs)
	}
	require.False(t, c.Airborne(), "camera never landed, at %v", c.From)
}

func TestNewFirstPersonRejectsDegenerateInput(t *testing.T) {
	_, err := NewFirstPerson(math.Vec3One, math.Vec3One, math.Vec3Up, nil, 0)
	assert.ErrorIs(t, err, math.ErrZeroVector)

	_, err = NewFirstPerson(math.Vec3Zero, math.Vec3One, math.Vec3Zero, nil, 0)
	assert.ErrorIs(t, err, math.ErrZeroVector)
}

func TestYawInverseRestoresForward(t *testing.T) {
	c := newWalker(t, math.NewVec3(1, 2, 3), math.NewVec3(4, 1, -2), nil)
	before := c.Forward()
	for _, degrees := range []float64{1, 17.5, 90, -133, 359} {
		c.Yaw(degrees)
		c.Yaw(-degrees)
		assert.True(t, c.Forward().ApproxEqual(before, 1e-9), "yaw %v: got %v", degrees, c.Forward())
	}
}

func TestForwardStaysUnit(t *testing.T) {
	c := newWalker(t, math.Vec3Zero, math.NewVec3(0, 0, -1), nil)
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 5000; i++ {
		degrees := rng.Float64()*40 - 20
		if i%2 == 0 {
			c.Yaw(degrees)
		} else {
			c.Pitch(degrees)
		}
		require.InDelta(t, 1, c.Forward().Length(), 1e-6, "step %d", i)
	}
}

func TestRightIsDerived(t *testing.T) {
	c := newWalker(t, math.Vec3Zero, math.NewVec3(0, 0, -1), nil)
	assert.True(t, c.Right().ApproxEqual(math.Vec3Right, 1e-12))

	c.Yaw(90)
	assert.True(t, c.Forward().ApproxEqual(math.Vec3Left, 1e-12), "got %v", c.Forward())
	assert.True(t, c.Right().ApproxEqual(math.NewVec3(0, 0, -1), 1e-12), "got %v", c.Right())

	c.Pitch(30)
	assert.Greater(t, c.Forward().Y, 0.0, "positive pitch looks up")
	assert.InDelta(t, 0, c.Right().Dot(c.Forward()), 1e-12)
	assert.InDelta(t, 0, c.Right().Y, 1e-12)
}

func TestEyeFromWorld(t *testing.T) {
	c := newWalker(t, math.NewVec3(1, 2, 3), math.NewVec3(1, 2, -7), nil)
	view := c.EyeFromWorld()
	assert.True(t, view.MulPoint(c.From).ApproxEqual(math.Vec3Zero, 1e-12))
	assert.True(t, view.MulDir(c.Forward()).ApproxEqual(math.NewVec3(0, 0, -1), 1e-12))

	// Looking straight down still yields a usable view.
	down := newWalker(t, math.NewVec3(0, 10, 0), math.NewVec3(0, 9, 0), nil)
	view = down.EyeFromWorld()
	assert.True(t, view.MulDir(math.Vec3Down).ApproxEqual(math.NewVec3(0, 0, -1), 1e-12))
}

func TestFallsOntoFlatTerrain(t *testing.T) {
	c := newWalker(t, math.NewVec3(0, 10, 0), math.NewVec3(0, 9, 0), flatGround(t, 0))
	require.True(t, c.Airborne(), "cameras start airborne")

	settle(t, c)
	assert.Equal(t, 0.0, c.From.Y)
	assert.Equal(t, 0.0, c.VerticalVelocity())

	for i := 0; i < 100; i++ {
		c.UpdatePhysics(frameMs)
	}
	assert.Equal(t, 0.0, c.From.Y)
	assert.False(t, c.Airborne())
}

func TestGroundedCameraDoesNotDrift(t *testing.T) {
	c := newWalker(t, math.NewVec3(1, 3, 1), math.NewVec3(1, 3, 0), flatGround(t, 3))
	settle(t, c)
	for i := 0; i < 10000; i++ {
		c.UpdatePhysics(frameMs)
		require.InDelta(t, 3, c.From.Y, 1e-12, "tick %d", i)
	}
}

func TestJumpWhileAirborneIsNoOp(t *testing.T) {
	c := newWalker(t, math.NewVec3(1, 0, 1), math.NewVec3(1, 0, 0), flatGround(t, 0))
	settle(t, c)

	c.Jump(0.5)
	require.True(t, c.Airborne())
	assert.Equal(t, 0.5, c.VerticalVelocity())

	c.Jump(0.9)
	assert.Equal(t, 0.5, c.VerticalVelocity())

	peak := 0.0
	for i := 0; i < 2000 && c.Airborne(); i++ {
		c.UpdatePhysics(frameMs)
		if c.From.Y > peak {
			peak = c.From.Y
		}
	}
	assert.False(t, c.Airborne())
	assert.Equal(t, 0.0, c.From.Y)
	assert.Greater(t, peak, 50.0)
}

func TestLandsOnCollider(t *testing.T) {
	platform := raycast.Box{Min: math.NewVec3(-1, 0, -1), Max: math.NewVec3(1, 2, 1)}

	c := newWalker(t, math.NewVec3(0, 10, 0), math.NewVec3(1, 10, 0), flatGround(t, 0))
	c.AddCollider(platform)
	settle(t, c)
	assert.Equal(t, 2.0, c.From.Y)

	h, ok := c.GroundHeight()
	require.True(t, ok)
	assert.Equal(t, 2.0, h)

	c.Offset = 1.5
	c.From.Y = 5
	c.Jump(0)
	settle(t, c)
	assert.Equal(t, 3.5, c.From.Y)
}

func TestThinPlatformCatchesFastFall(t *testing.T) {
	c := newWalker(t, math.NewVec3(0, 100, 0), math.NewVec3(1, 100, 0), nil)
	c.AddCollider(raycast.Box{Min: math.NewVec3(-1, 4.99, -1), Max: math.NewVec3(1, 5, 1)})
	settle(t, c)
	assert.Equal(t, 5.0, c.From.Y)
}

func TestStaysOnPlatformWithInexactTop(t *testing.T) {
	for _, start := range []float64{10.3, 7.77} {
		platform := raycast.Box{Min: math.NewVec3(0, 0, 0), Max: math.NewVec3(1, 0.3, 1)}
		c := newWalker(t, math.NewVec3(0.5, start, 0.5), math.NewVec3(1.5, start, 0.5), flatGround(t, 0))
		c.AddCollider(platform)
		settle(t, c)
		require.Equal(t, 0.3, c.From.Y, "start %v", start)

		for i := 0; i < 2000; i++ {
			c.UpdatePhysics(frameMs)
			require.False(t, c.Airborne(), "start %v tick %d", start, i)
			require.Equal(t, 0.3, c.From.Y, "start %v tick %d", start, i)
		}
		for i := 0; i < 50; i++ {
			if i%2 == 0 {
				c.Strafe(0.001)
			} else {
				c.Advance(0.001)
			}
			c.UpdatePhysics(frameMs)
			require.False(t, c.Airborne(), "start %v move %d", start, i)
			require.Equal(t, 0.3, c.From.Y, "start %v move %d", start, i)
		}
	}
}

func TestCeilingWithInexactUnderside(t *testing.T) {
	c := newWalker(t, math.NewVec3(0.5, 0, 0.5), math.NewVec3(1.5, 0, 0.5), flatGround(t, 0))
	c.AddCollider(raycast.Box{Min: math.NewVec3(0, 0.7, 0), Max: math.NewVec3(1, 1.1, 1)})
	settle(t, c)

	ceiling, ok := c.CeilingHeight()
	require.True(t, ok)
	assert.Equal(t, 0.7, ceiling)

	c.Jump(0.2)
	for i := 0; i < 2000 && c.Airborne(); i++ {
		c.UpdatePhysics(frameMs)
		require.LessOrEqual(t, c.From.Y, 0.7)
	}
	assert.Equal(t, 0.0, c.From.Y)
}

func TestFallsWhenColliderUnderfootIsRemoved(t *testing.T) {
	box := raycast.Box{Min: math.NewVec3(-1, 0, -1), Max: math.NewVec3(1, 2, 1)}
	c := newWalker(t, math.NewVec3(0, 10, 0), math.NewVec3(1, 10, 0), nil)
	c.AddCollider(box)
	settle(t, c)
	require.Equal(t, 2.0, c.From.Y)

	require.True(t, c.RemoveCollider(box))
	for i := 0; i < 500; i++ {
		c.UpdatePhysics(frameMs)
	}
	assert.True(t, c.Airborne())
	assert.Less(t, c.From.Y, 2.0)
}

func TestFallsWhenCollidersCleared(t *testing.T) {
	c := newWalker(t, math.NewVec3(0, 10, 0), math.NewVec3(1, 10, 0), nil)
	c.AddCollider(raycast.Box{Min: math.NewVec3(-1, 0, -1), Max: math.NewVec3(1, 2, 1)})
	settle(t, c)

	c.ClearColliders()
	c.UpdatePhysics(frameMs)
	require.True(t, c.Airborne())
	assert.Equal(t, 2.0, c.From.Y, "falling starts from rest")

	c.UpdatePhysics(frameMs)
	assert.Less(t, c.From.Y, 2.0)
}

func TestWalkOffLedgeFalls(t *testing.T) {
	c := newWalker(t, math.NewVec3(0.5, 2, 0), math.NewVec3(1.5, 2, 0), flatGround(t, 0))
	c.AddCollider(raycast.Box{Min: math.NewVec3(-1, 0, -1), Max: math.NewVec3(1, 2, 1)})
	settle(t, c)
	require.Equal(t, 2.0, c.From.Y)

	c.Advance(1)
	assert.InDelta(t, 1.5, c.From.X, 1e-12)
	assert.True(t, c.Airborne())

	settle(t, c)
	assert.Equal(t, 0.0, c.From.Y)
}

func TestWalkOffTerrainFalls(t *testing.T) {
	c := newWalker(t, math.NewVec3(1, 0, 1), math.NewVec3(2, 0, 1), flatGround(t, 0))
	settle(t, c)

	c.Advance(0.5)
	assert.False(t, c.Airborne())
	c.Advance(5)
	assert.True(t, c.Airborne())

	_, ok := c.GroundHeight()
	assert.False(t, ok)
}

func TestCeilingStopsJump(t *testing.T) {
	c := newWalker(t, math.NewVec3(0, 0, 0), math.NewVec3(1, 0, 0), flatGround(t, 0))
	c.AddCollider(raycast.Box{Min: math.NewVec3(-1, 3, -1), Max: math.NewVec3(1, 4, 1)})
	settle(t, c)

	ceiling, ok := c.CeilingHeight()
	require.True(t, ok)
	assert.Equal(t, 3.0, ceiling)

	c.Jump(0.2)
	bumped := false
	for i := 0; i < 2000 && c.Airborne(); i++ {
		c.UpdatePhysics(frameMs)
		require.LessOrEqual(t, c.From.Y, 3.0)
		if c.From.Y == 3 {
			bumped = true
			assert.Equal(t, 0.0, c.VerticalVelocity())
		}
	}
	assert.True(t, bumped)
	assert.Equal(t, 0.0, c.From.Y)
}

func TestMomentum(t *testing.T) {
	c := newWalker(t, math.NewVec3(0, 0, 0), math.NewVec3(0, 0, -1), nil)
	c.MeshInteraction = false

	c.UpdateMomentum(1, -1)
	f, s := c.Momentum()
	assert.InDelta(t, 0.15, f, 1e-12)
	assert.InDelta(t, -0.15, s, 1e-12)

	c.UpdateMomentum(1, 0)
	f, s = c.Momentum()
	assert.InDelta(t, 0.2775, f, 1e-12)
	assert.InDelta(t, -0.135, s, 1e-12)

	c.ApplyMomentumMovement(2)
	assert.True(t, c.From.ApproxEqual(math.NewVec3(-0.27, 0, -0.555), 1e-12), "got %v", c.From)

	for i := 0; i < 200; i++ {
		c.UpdateMomentum(0, 0)
	}
	before := c.From
	c.ApplyMomentumMovement(2)
	assert.Equal(t, before, c.From, "momentum inside the dead zone does not move")
}

func TestAdvanceStaysHorizontalWhenWalking(t *testing.T) {
	c := newWalker(t, math.NewVec3(0.5, 0, 1), math.NewVec3(1.5, 1, 1), flatGround(t, 0))
	settle(t, c)

	c.Advance(1)
	assert.True(t, c.From.ApproxEqual(math.NewVec3(1.5, 0, 1), 1e-12), "got %v", c.From)

	c.GodMode = true
	c.Advance(1)
	assert.InDelta(t, 1.5+stdSqrtHalf, c.From.X, 1e-12)
	assert.InDelta(t, stdSqrtHalf, c.From.Y, 1e-12)
}

const stdSqrtHalf = 0.7071067811865476

func TestMeshInteractionDisabled(t *testing.T) {
	c := newWalker(t, math.NewVec3(0, 5, 0), math.NewVec3(0, 6, -1), flatGround(t, 0))
	c.MeshInteraction = false
	for i := 0; i < 100; i++ {
		c.UpdatePhysics(frameMs)
	}
	assert.Equal(t, 5.0, c.From.Y)
	assert.True(t, c.Airborne())

	c.Advance(1)
	assert.Greater(t, c.From.Y, 5.0, "free flight follows the full forward vector")
}

func TestKnockback(t *testing.T) {
	c := newWalker(t, math.NewVec3(1, 0, 1), math.NewVec3(1, 0, 0), flatGround(t, 0))
	settle(t, c)

	c.ApplyKnockback(math.Vec3Right, 1)
	assert.True(t, c.Airborne())

	want, speed := 0.0, 1.0
	for speed > 0.1 {
		want += speed
		speed *= 0.85
	}
	for i := 0; i < 100; i++ {
		c.UpdateKnockback()
	}
	assert.InDelta(t, 1+want, c.From.X, 1e-9)
	assert.Equal(t, math.Vec3Zero, c.Knockback())

	god := newWalker(t, math.NewVec3(1, 0, 1), math.NewVec3(1, 0, 0), flatGround(t, 0))
	settle(t, god)
	god.GodMode = true
	god.ApplyKnockback(math.Vec3Right, 1)
	assert.False(t, god.Airborne())
	assert.Equal(t, math.Vec3Zero, god.Knockback())
}

func TestClampTo(t *testing.T) {
	c := newWalker(t, math.NewVec3(5, 1, -3), math.NewVec3(5, 1, -4), nil)
	bounds := raycast.Box{Min: math.NewVec3(0, 0, 0), Max: math.NewVec3(2, 0, 2)}

	assert.True(t, c.ClampTo(bounds))
	assert.Equal(t, math.NewVec3(2, 1, 0), c.From)
	assert.False(t, c.ClampTo(bounds))
}

func TestColliderBookkeeping(t *testing.T) {
	c := newWalker(t, math.Vec3Zero, math.NewVec3(0, 0, -1), nil)
	a := raycast.Box{Min: math.Vec3Zero, Max: math.Vec3One}
	b := raycast.Box{Min: math.Vec3One, Max: math.NewVec3(2, 2, 2)}

	c.AddCollider(a)
	c.AddCollider(b)
	assert.Equal(t, []raycast.Box{a, b}, c.Colliders())

	assert.True(t, c.RemoveCollider(a))
	assert.False(t, c.RemoveCollider(a))
	assert.Equal(t, []raycast.Box{b}, c.Colliders())

	c.ClearColliders()
	assert.Empty(t, c.Colliders())
}

func TestSnapshot(t *testing.T) {
	c := newWalker(t, math.NewVec3(0, 10, 0), math.NewVec3(0, 10, -1), nil)
	c.UpdatePhysics(frameMs)
	s := c.Snapshot()
	assert.Equal(t, c.From, s.From)
	assert.True(t, s.Airborne)
	assert.InDelta(t, -0.032, s.VerticalVelocity, 1e-12)
}
