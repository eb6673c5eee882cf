package debugdraw

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// GPU record strides in bytes. Each must match the corresponding record
// struct in the WGSL shaders under internal/gpu/shaders/.
const (
	// lineStride: endpoint A vec4, endpoint B vec4.
	lineStride = 32

	// arcStride: center+radius, normal+angleFrom, tangent+angleTo.
	arcStride = 48

	// boxStride: center, half extents, rotation quaternion.
	boxStride = 48

	// outlineGroupStride: three (A+radius, B) member pairs plus a
	// group-modifications word padded to vec4<u32>.
	outlineGroupStride = 112
)

func appendFloat32(dst []byte, v float32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	return append(dst, b[:]...)
}

func appendUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

// appendVec3 packs v and w as one 16-byte vec4.
func appendVec3(dst []byte, v mgl32.Vec3, w float32) []byte {
	dst = appendFloat32(dst, v.X())
	dst = appendFloat32(dst, v.Y())
	dst = appendFloat32(dst, v.Z())
	return appendFloat32(dst, w)
}

// Line is a world-space segment from A to B.
type Line struct {
	A, B mgl32.Vec3
}

// NewLine creates a line segment between two points.
func NewLine(a, b mgl32.Vec3) Line {
	return Line{A: a, B: b}
}

func (l Line) appendTo(dst []byte) []byte {
	dst = appendVec3(dst, l.A, 0)
	return appendVec3(dst, l.B, 0)
}

// Arc is a circular arc. The circle lies in the plane orthogonal to
// Normal, centered at Center with radius Radius. Tangent marks angle
// zero within that plane; the arc sweeps from AngleFrom to AngleTo in
// radians, counter-clockwise around Normal.
type Arc struct {
	Center    mgl32.Vec3
	Radius    float32
	Normal    mgl32.Vec3
	AngleFrom float32
	Tangent   mgl32.Vec3
	AngleTo   float32
}

// NewArc creates an arc. Normal and Tangent must be unit length and
// orthogonal; the constructors derive no frames on the caller's behalf.
func NewArc(center, normal, tangent mgl32.Vec3, radius, angleFrom, angleTo float32) Arc {
	return Arc{
		Center:    center,
		Radius:    radius,
		Normal:    normal,
		AngleFrom: angleFrom,
		Tangent:   tangent,
		AngleTo:   angleTo,
	}
}

// NewArcCircle creates a full circle around normal, deriving a stable
// tangent from the world axis least aligned with it.
func NewArcCircle(center, normal mgl32.Vec3, radius float32) Arc {
	return NewArc(center, normal, perpendicular(normal), radius, 0, 2*math32.Pi)
}

func (a Arc) appendTo(dst []byte) []byte {
	dst = appendVec3(dst, a.Center, a.Radius)
	dst = appendVec3(dst, a.Normal, a.AngleFrom)
	return appendVec3(dst, a.Tangent, a.AngleTo)
}

// perpendicular returns a unit vector orthogonal to v, crossing v with
// the world axis least aligned with it for numeric stability.
func perpendicular(v mgl32.Vec3) mgl32.Vec3 {
	ax, ay, az := math32.Abs(v.X()), math32.Abs(v.Y()), math32.Abs(v.Z())
	axis := mgl32.Vec3{1, 0, 0}
	switch {
	case ay <= ax && ay <= az:
		axis = mgl32.Vec3{0, 1, 0}
	case az <= ax && az <= ay:
		axis = mgl32.Vec3{0, 0, 1}
	}
	p := v.Cross(axis)
	if p.Len() < 1e-6 {
		return mgl32.Vec3{1, 0, 0}
	}
	return p.Normalize()
}

// Box is an oriented box given by its center, half extents along its
// local axes, and a rotation from local to world space.
type Box struct {
	Center      mgl32.Vec3
	HalfExtents mgl32.Vec3
	Rotation    mgl32.Quat
}

// NewBox creates an oriented box.
func NewBox(center, halfExtents mgl32.Vec3, rotation mgl32.Quat) Box {
	return Box{Center: center, HalfExtents: halfExtents, Rotation: rotation}
}

// NewBoxAxisAligned creates a box aligned with the world axes.
func NewBoxAxisAligned(center, halfExtents mgl32.Vec3) Box {
	return NewBox(center, halfExtents, mgl32.QuatIdent())
}

func (b Box) appendTo(dst []byte) []byte {
	dst = appendVec3(dst, b.Center, 0)
	dst = appendVec3(dst, b.HalfExtents, 0)
	dst = appendFloat32(dst, b.Rotation.V.X())
	dst = appendFloat32(dst, b.Rotation.V.Y())
	dst = appendFloat32(dst, b.Rotation.V.Z())
	return appendFloat32(dst, b.Rotation.W)
}

// Outline is one member of an outline group: a segment from A to B,
// offset sideways by Radius in the view-facing plane. Radius may be
// negative (opposite side) or zero (the center line).
type Outline struct {
	A, B   mgl32.Vec3
	Radius float32
}

// NewOutline creates an outline member.
func NewOutline(a, b mgl32.Vec3, radius float32) Outline {
	return Outline{A: a, B: b, Radius: radius}
}

// OutlineGroup bundles three outline members drawn as one instance, plus
// modification bits applied to the whole group in addition to the
// per-record flags.
type OutlineGroup struct {
	Members [3]Outline
	Mods    DrawModifications
}

// NewOutlineGroup creates an outline group from three members.
func NewOutlineGroup(m0, m1, m2 Outline, mods DrawModifications) OutlineGroup {
	return OutlineGroup{Members: [3]Outline{m0, m1, m2}, Mods: mods}
}

// NewOutlineCapsule creates the silhouette of a capsule from A to B with
// the given radius: both side lines and the center axis.
func NewOutlineCapsule(a, b mgl32.Vec3, radius float32) OutlineGroup {
	return NewOutlineGroup(
		NewOutline(a, b, radius),
		NewOutline(a, b, -radius),
		NewOutline(a, b, 0),
		ModNone,
	)
}

func (o OutlineGroup) appendTo(dst []byte) []byte {
	for _, m := range o.Members {
		dst = appendVec3(dst, m.A, m.Radius)
		dst = appendVec3(dst, m.B, 0)
	}
	dst = appendUint32(dst, uint32(o.Mods))
	dst = appendUint32(dst, 0)
	dst = appendUint32(dst, 0)
	return appendUint32(dst, 0)
}
