package phys2d

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mkCircleShapeAt(t *testing.T, radius float64, pos Vector2) *Shape {
	t.Helper()
	body := NewBody(BodyDynamic)
	s, err := NewCircleShape(radius, Vector2{})
	require.NoError(t, err)
	require.NoError(t, body.AddShape(s))
	body.Position = pos
	body.updateShapes()
	return s
}

func mkBoxShapeAt(t *testing.T, hx, hy float64, pos Vector2, angle float64) *Shape {
	t.Helper()
	body := NewBody(BodyDynamic)
	s, err := NewBoxShape(hx, hy)
	require.NoError(t, err)
	require.NoError(t, body.AddShape(s))
	body.Position = pos
	body.Angle = angle
	body.updateShapes()
	return s
}

func TestCollideCirclesOverlapping(t *testing.T) {
	a := mkCircleShapeAt(t, 1, V(0, 0))
	b := mkCircleShapeAt(t, 1, V(1.5, 0))
	m, ok := Collide(a, b)
	require.True(t, ok)
	require.Len(t, m.Contacts, 1)
	require.InDelta(t, 0.5, m.Contacts[0].Depth, 1e-9)
	require.InDelta(t, 1, m.Contacts[0].Normal.X, 1e-9)
}

func TestCollideCirclesSeparated(t *testing.T) {
	a := mkCircleShapeAt(t, 1, V(0, 0))
	b := mkCircleShapeAt(t, 1, V(10, 0))
	_, ok := Collide(a, b)
	require.False(t, ok)
}

func TestCollideCircleBoxFace(t *testing.T) {
	circle := mkCircleShapeAt(t, 1, V(0, 1.5))
	box := mkBoxShapeAt(t, 1, 1, V(0, 0), 0)
	m, ok := Collide(circle, box)
	require.True(t, ok)
	require.Len(t, m.Contacts, 1)
	require.InDelta(t, 0.5, m.Contacts[0].Depth, 1e-9)
}

func TestCollideCircleBoxVertex(t *testing.T) {
	circle := mkCircleShapeAt(t, 0.5, V(1.3, 1.3))
	box := mkBoxShapeAt(t, 1, 1, V(0, 0), 0)
	m, ok := Collide(circle, box)
	require.True(t, ok)
	require.Len(t, m.Contacts, 1)
}

func TestCollidePolygonsFaceToFace(t *testing.T) {
	a := mkBoxShapeAt(t, 1, 1, V(0, 0), 0)
	b := mkBoxShapeAt(t, 1, 1, V(1.8, 0), 0)
	m, ok := Collide(a, b)
	require.True(t, ok)
	require.NotEmpty(t, m.Contacts)
	for _, c := range m.Contacts {
		require.InDelta(t, 0.2, c.Depth, 1e-6)
		require.InDelta(t, 1, c.Normal.X, 1e-6)
	}
}

func TestCollidePolygonsSeparated(t *testing.T) {
	a := mkBoxShapeAt(t, 1, 1, V(0, 0), 0)
	b := mkBoxShapeAt(t, 1, 1, V(10, 0), 0)
	_, ok := Collide(a, b)
	require.False(t, ok)
}

func TestCollidePolygonsNearTangentProducesAtMostOneContact(t *testing.T) {
	// Two boxes touching at a single corner: near-tangent configuration
	// must never produce a spurious 2-point manifold (spec §8).
	a := mkBoxShapeAt(t, 1, 1, V(0, 0), 0)
	b := mkBoxShapeAt(t, 1, 1, V(1.999, 1.999), 0)
	m, ok := Collide(a, b)
	if ok {
		require.LessOrEqual(t, len(m.Contacts), 1)
	}
}

func TestCollideOrderIndependenceCircleBox(t *testing.T) {
	circle := mkCircleShapeAt(t, 1, V(0, 1.5))
	box := mkBoxShapeAt(t, 1, 1, V(0, 0), 0)

	m1, ok1 := Collide(circle, box)
	m2, ok2 := Collide(box, circle)
	require.Equal(t, ok1, ok2)
	require.True(t, ok1)
	require.InDelta(t, m1.Contacts[0].Depth, m2.Contacts[0].Depth, 1e-9)
	require.InDelta(t, m1.Contacts[0].Normal.X, -m2.Contacts[0].Normal.X, 1e-9)
}
