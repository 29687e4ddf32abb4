package rekognition

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100
	// maxUploadSide bounds the longest side of re-encoded images
	maxUploadSide = 1920
)

// preparedImage is what gets sent to Rekognition plus the pixel size of the
// original, used to turn Rekognition's ratios back into coordinates.
type preparedImage struct {
	payload []byte
	width   int
	height  int
}

// prepareImage validates raw and, when Rekognition cannot take it as is
// (format other than JPEG/PNG, or too large), re-encodes it as JPEG.
func prepareImage(raw []byte) (*preparedImage, error) {
	if len(raw) < minImageSize {
		return nil, fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(raw), minImageSize)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}

	prepared := &preparedImage{payload: raw, width: cfg.Width, height: cfg.Height}
	if (format == "jpeg" || format == "png") && len(raw) <= maxImageSize {
		return prepared, nil
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	payload, err := encodeJPEG(downscale(img, maxUploadSide))
	if err != nil {
		return nil, err
	}
	if len(payload) > maxImageSize {
		return nil, fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(payload), maxImageSize)
	}

	prepared.payload = payload
	return prepared, nil
}

func downscale(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}

	if w >= h {
		h = h * maxSide / w
		w = maxSide
	} else {
		w = w * maxSide / h
		h = maxSide
	}

	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
