// Package pipeline runs the per-frame recognition loop: encode the primary
// face, look it up, mark attendance and publish the overlay.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
	"github.com/saturnino-fabrica-de-software/chamada/internal/signature"
)

// Recognizer looks a signature up in the enrollment table.
type Recognizer interface {
	Recognize(candidate domain.Signature) (signature.Match, bool)
}

// Marker records attendance for a recognized identity.
type Marker interface {
	MarkIfDue(ctx context.Context, key, name string) bool
}

// OverlayPublisher receives the overlay of every processed frame.
type OverlayPublisher interface {
	PublishOverlay(overlays []domain.Overlay)
}

// Frame is the detector output for one video frame. The first face is the
// primary one; any others are ignored.
type Frame struct {
	Faces      []domain.Face `json:"faces"`
	ReceivedAt time.Time     `json:"received_at,omitempty"`
}

// Result describes what the pipeline did with a frame.
type Result struct {
	Overlays  []domain.Overlay  `json:"overlays"`
	Signature *domain.Signature `json:"-"`
	Name      string            `json:"name,omitempty"`
	Marked    bool              `json:"marked"`
}

type Pipeline struct {
	recognizer Recognizer
	marker     Marker
	publisher  OverlayPublisher
	logger     *slog.Logger

	slot chan Frame

	// processMu makes Process serial whether it is called by Run or inline by
	// a request, so the overlay and last signature always describe one frame.
	processMu sync.Mutex

	mu      sync.RWMutex
	last    *domain.Signature
	overlay []domain.Overlay
}

func New(recognizer Recognizer, marker Marker, publisher OverlayPublisher, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		recognizer: recognizer,
		marker:     marker,
		publisher:  publisher,
		logger:     logger,
		slot:       make(chan Frame, 1),
		overlay:    []domain.Overlay{},
	}
}

// Submit hands a frame to the worker. Only the newest pending frame is kept:
// an unconsumed older frame is discarded.
func (p *Pipeline) Submit(frame Frame) {
	for {
		select {
		case p.slot <- frame:
			return
		default:
		}

		select {
		case <-p.slot:
			p.logger.Debug("frame dropped, worker busy")
		default:
		}
	}
}

// Run processes submitted frames one at a time until ctx is done.
func (p *Pipeline) Run(ctx context.Context) {
	p.logger.Info("recognition pipeline started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("recognition pipeline stopped")
			return
		case frame := <-p.slot:
			p.Process(ctx, frame)
		}
	}
}

// Process handles one frame synchronously. Calls are serialized with the
// worker loop.
func (p *Pipeline) Process(ctx context.Context, frame Frame) Result {
	p.processMu.Lock()
	defer p.processMu.Unlock()

	if len(frame.Faces) == 0 {
		return p.commit(nil, Result{Overlays: []domain.Overlay{}})
	}

	face := frame.Faces[0]
	sig, ok := signature.Encode(face.Landmarks)
	if !ok {
		return p.commit(nil, Result{
			Overlays: []domain.Overlay{{BoundingBox: face.BoundingBox, Label: domain.LabelDetecting}},
		})
	}

	sig = sig.Canonical()
	result := Result{Signature: &sig}

	label := domain.LabelNewFace
	if match, found := p.recognizer.Recognize(sig); found {
		label = match.Name
		result.Name = match.Name
		result.Marked = p.marker.MarkIfDue(ctx, match.Key, match.Name)
	}

	result.Overlays = []domain.Overlay{{BoundingBox: face.BoundingBox, Label: label}}
	return p.commit(&sig, result)
}

// commit swaps in the last signature and overlay together, then publishes.
func (p *Pipeline) commit(sig *domain.Signature, result Result) Result {
	p.mu.Lock()
	p.last = sig
	p.overlay = result.Overlays
	p.mu.Unlock()

	if p.publisher != nil {
		p.publisher.PublishOverlay(result.Overlays)
	}
	return result
}

// LastSignature returns the most recently observed signature, or nil when the
// last frame had no encodable face.
func (p *Pipeline) LastSignature() *domain.Signature {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.last == nil {
		return nil
	}
	sig := *p.last
	return &sig
}

// Latest returns the overlay of the last processed frame.
func (p *Pipeline) Latest() []domain.Overlay {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.Overlay{}, p.overlay...)
}
