package domain

// Point is a 2D location in image pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Midpoint returns the point halfway between p and q.
func (p Point) Midpoint(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// MouthCorner holds the two lip samples that bracket one corner of the mouth.
// Detectors that expose the corner directly set both samples to the same point.
type MouthCorner struct {
	Upper *Point `json:"upper,omitempty"`
	Lower *Point `json:"lower,omitempty"`
}

// Complete reports whether both lip samples are present.
func (m *MouthCorner) Complete() bool {
	return m != nil && m.Upper != nil && m.Lower != nil
}

// Point returns the corner as the midpoint of its lip samples.
func (m *MouthCorner) Point() Point {
	return m.Upper.Midpoint(*m.Lower)
}

// LandmarkSet carries the named landmark roles of one face, as located by the
// detector. Any role may be missing (profile pose, occlusion).
type LandmarkSet struct {
	LeftEye    *Point       `json:"left_eye,omitempty"`
	RightEye   *Point       `json:"right_eye,omitempty"`
	NoseBridge *Point       `json:"nose_bridge,omitempty"`
	NoseBottom *Point       `json:"nose_bottom,omitempty"`
	LeftMouth  *MouthCorner `json:"left_mouth,omitempty"`
	RightMouth *MouthCorner `json:"right_mouth,omitempty"`
}

// Complete reports whether every role is present.
func (l LandmarkSet) Complete() bool {
	return l.LeftEye != nil &&
		l.RightEye != nil &&
		l.NoseBridge != nil &&
		l.NoseBottom != nil &&
		l.LeftMouth.Complete() &&
		l.RightMouth.Complete()
}

// Scale returns a copy of the set with every coordinate multiplied by k.
func (l LandmarkSet) Scale(k float64) LandmarkSet {
	scale := func(p *Point) *Point {
		if p == nil {
			return nil
		}
		return &Point{X: p.X * k, Y: p.Y * k}
	}
	scaleCorner := func(m *MouthCorner) *MouthCorner {
		if m == nil {
			return nil
		}
		return &MouthCorner{Upper: scale(m.Upper), Lower: scale(m.Lower)}
	}

	return LandmarkSet{
		LeftEye:    scale(l.LeftEye),
		RightEye:   scale(l.RightEye),
		NoseBridge: scale(l.NoseBridge),
		NoseBottom: scale(l.NoseBottom),
		LeftMouth:  scaleCorner(l.LeftMouth),
		RightMouth: scaleCorner(l.RightMouth),
	}
}

// BoundingBox is the face area in the frame. The core never reads it; it is
// handed back untouched to whoever renders the overlay.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Face is the primary face the detector found in a frame.
type Face struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Landmarks   LandmarkSet `json:"landmarks"`
}
