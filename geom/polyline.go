package geom

// Polyline is an ordered sequence of points connected by straight segments.
// It is the universal intermediate of the pipeline: flattened outlines, the
// merged drawing, and the transformed path are all polylines. Consecutive
// points are distinct.
type Polyline []Point

// Arclen returns the total arc length of the polyline, the sum of its
// consecutive segment lengths.
func (pl Polyline) Arclen() float64 {
	var sum float64
	for i := 1; i < len(pl); i++ {
		sum += pl[i].Distance(pl[i-1])
	}
	return sum
}

// Reverse returns a new polyline with the point order reversed.
func (pl Polyline) Reverse() Polyline {
	out := make(Polyline, len(pl))
	for i, pt := range pl {
		out[len(pl)-1-i] = pt
	}
	return out
}

// Transform returns a new polyline with an affine transformation applied to
// every point.
func (pl Polyline) Transform(aff Affine) Polyline {
	out := make(Polyline, len(pl))
	for i, pt := range pl {
		out[i] = pt.Transform(aff)
	}
	return out
}

// BoundingBox returns the smallest rectangle containing all points. The zero
// rectangle is returned for an empty polyline.
func (pl Polyline) BoundingBox() Rect {
	if len(pl) == 0 {
		return Rect{}
	}
	bbox := NewRectFromPoints(pl[0], pl[0])
	for _, pt := range pl[1:] {
		bbox = bbox.UnionPoint(pt)
	}
	return bbox
}

// Centroid returns the mean of all points.
func (pl Polyline) Centroid() Point {
	if len(pl) == 0 {
		return Point{}
	}
	var x, y float64
	for _, pt := range pl {
		x += pt.X
		y += pt.Y
	}
	n := float64(len(pl))
	return Point{X: x / n, Y: y / n}
}

// Start returns the first point.
func (pl Polyline) Start() Point {
	return pl[0]
}

// End returns the last point.
func (pl Polyline) End() Point {
	return pl[len(pl)-1]
}
