package types

import "math"

const floatCmpEpsilon = 1e-6

// An axis-aligned bounding box. An empty box has Min = +MaxFloat32 and
// Max = -MaxFloat32 so that it acts as the identity for Union.
type AABB struct {
	Min Vec3
	Max Vec3
}

// Create an empty bounding box.
func EmptyAABB() AABB {
	return AABB{
		Min: Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Returns true if the box does not enclose any point.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Get the smallest box enclosing both boxes.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: MinVec3(b.Min, other.Min),
		Max: MaxVec3(b.Max, other.Max),
	}
}

// Grow the box so that it also encloses p.
func (b AABB) Extend(p Vec3) AABB {
	return AABB{
		Min: MinVec3(b.Min, p),
		Max: MaxVec3(b.Max, p),
	}
}

// Expand the box by margin units along every axis. Empty boxes stay empty.
func (b AABB) Expand(margin float32) AABB {
	if b.IsEmpty() {
		return b
	}
	return AABB{
		Min: b.Min.AddScalar(-margin),
		Max: b.Max.AddScalar(margin),
	}
}

// Shift the box by d. Empty boxes stay empty.
func (b AABB) Translate(d Vec3) AABB {
	if b.IsEmpty() {
		return b
	}
	return AABB{
		Min: b.Min.Add(d),
		Max: b.Max.Add(d),
	}
}
