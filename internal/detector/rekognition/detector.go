// Package rekognition locates faces and their landmarks with AWS Rekognition
// DetectFaces and converts them into domain landmark sets.
package rekognition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
	"github.com/saturnino-fabrica-de-software/chamada/internal/signature"
)

// Landmark types as returned by DetectFaces.
const (
	landmarkEyeLeft      = types.LandmarkType("eyeLeft")
	landmarkEyeRight     = types.LandmarkType("eyeRight")
	landmarkLeftEyeRight = types.LandmarkType("leftEyeRight")
	landmarkRightEyeLeft = types.LandmarkType("rightEyeLeft")
	landmarkNose         = types.LandmarkType("nose")
	landmarkNoseLeft     = types.LandmarkType("noseLeft")
	landmarkNoseRight    = types.LandmarkType("noseRight")
	landmarkMouthLeft    = types.LandmarkType("mouthLeft")
	landmarkMouthRight   = types.LandmarkType("mouthRight")
)

// API is the subset of the Rekognition client the detector calls.
type API interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
}

type Detector struct {
	api    API
	config Config
	logger *slog.Logger
}

// New creates a detector using the AWS default credential chain.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Detector, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewWithAPI(rekognition.NewFromConfig(awsCfg), cfg, logger), nil
}

func NewWithAPI(api API, cfg Config, logger *slog.Logger) *Detector {
	return &Detector{api: api, config: cfg, logger: logger}
}

// Detect returns the faces found in image, in pixel coordinates of the
// original image. An image without faces yields an empty slice.
func (d *Detector) Detect(ctx context.Context, image []byte) ([]domain.Face, error) {
	prepared, err := prepareImage(image)
	if err != nil {
		return nil, err
	}

	output, err := d.api.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      &types.Image{Bytes: prepared.payload},
		Attributes: []types.Attribute{types.AttributeDefault},
	})
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", parseAPIError(err))
	}

	width, height := float64(prepared.width), float64(prepared.height)

	faces := make([]domain.Face, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		if detail.Confidence != nil && aws.ToFloat32(detail.Confidence) < d.config.MinConfidence {
			d.logger.Debug("face below confidence threshold", "confidence", aws.ToFloat32(detail.Confidence))
			continue
		}
		faces = append(faces, toFace(detail, width, height))
	}

	return faces, nil
}

func toFace(detail types.FaceDetail, width, height float64) domain.Face {
	face := domain.Face{}

	if bb := detail.BoundingBox; bb != nil {
		face.BoundingBox = domain.BoundingBox{
			X:      float64(aws.ToFloat32(bb.Left)) * width,
			Y:      float64(aws.ToFloat32(bb.Top)) * height,
			Width:  float64(aws.ToFloat32(bb.Width)) * width,
			Height: float64(aws.ToFloat32(bb.Height)) * height,
		}
	}

	points := make(map[types.LandmarkType]domain.Point, len(detail.Landmarks))
	for _, lm := range detail.Landmarks {
		if lm.X == nil || lm.Y == nil {
			continue
		}
		points[lm.Type] = domain.Point{
			X: float64(*lm.X) * width,
			Y: float64(*lm.Y) * height,
		}
	}

	face.Landmarks = toLandmarks(points)
	return face
}

// toLandmarks derives the roles Rekognition does not report directly: the
// nose bridge sits between the inner eye corners and the nose bottom is the
// centroid of the nose tip and nostrils. Rekognition gives a single point per
// mouth corner, so it fills both lip samples.
func toLandmarks(points map[types.LandmarkType]domain.Point) domain.LandmarkSet {
	lookup := func(t types.LandmarkType) *domain.Point {
		p, ok := points[t]
		if !ok {
			return nil
		}
		return &p
	}

	set := domain.LandmarkSet{
		LeftEye:  lookup(landmarkEyeLeft),
		RightEye: lookup(landmarkEyeRight),
	}

	if inner, outer := lookup(landmarkLeftEyeRight), lookup(landmarkRightEyeLeft); inner != nil && outer != nil {
		mid := inner.Midpoint(*outer)
		set.NoseBridge = &mid
	}

	var nose []domain.Point
	for _, t := range []types.LandmarkType{landmarkNose, landmarkNoseLeft, landmarkNoseRight} {
		if p, ok := points[t]; ok {
			nose = append(nose, p)
		}
	}
	set.NoseBottom = signature.Centroid(nose)

	if p := lookup(landmarkMouthLeft); p != nil {
		set.LeftMouth = &domain.MouthCorner{Upper: p, Lower: p}
	}
	if p := lookup(landmarkMouthRight); p != nil {
		set.RightMouth = &domain.MouthCorner{Upper: p, Lower: p}
	}

	return set
}
