// Package signature turns facial landmarks into a scale-normalized fingerprint
// and compares fingerprints against the enrollment table.
package signature

import (
	"math"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
)

// Encode computes the signature of a landmark set. It returns false when the
// set is incomplete or the eyes coincide; both mean "not enough data in this
// frame" rather than an error.
func Encode(landmarks domain.LandmarkSet) (domain.Signature, bool) {
	var sig domain.Signature

	if !landmarks.Complete() {
		return sig, false
	}

	leftEye := *landmarks.LeftEye
	rightEye := *landmarks.RightEye
	noseBridge := *landmarks.NoseBridge
	noseBottom := *landmarks.NoseBottom
	leftMouth := landmarks.LeftMouth.Point()
	rightMouth := landmarks.RightMouth.Point()

	eyeDistance := distance(leftEye, rightEye)
	if eyeDistance == 0 {
		return sig, false
	}

	// Order defines what each coordinate means; changing it invalidates every
	// stored signature.
	pairs := [domain.SignatureLength][2]domain.Point{
		{noseBridge, leftEye},
		{noseBridge, rightEye},
		{noseBottom, leftMouth},
		{noseBottom, rightMouth},
		{leftMouth, rightMouth},
		{noseBridge, noseBottom},
		{leftEye, leftMouth},
		{rightEye, rightMouth},
	}

	for i, p := range pairs {
		sig[i] = distance(p[0], p[1]) / eyeDistance
	}

	return sig, true
}

// Centroid averages a detector contour into a single landmark point.
// Returns nil for an empty contour.
func Centroid(points []domain.Point) *domain.Point {
	if len(points) == 0 {
		return nil
	}

	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}

	n := float64(len(points))
	return &domain.Point{X: sumX / n, Y: sumY / n}
}

func distance(a, b domain.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
