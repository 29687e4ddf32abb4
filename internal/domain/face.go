package domain

import (
	"time"

	"github.com/google/uuid"
)

// Overlay labels shown next to the face box.
const (
	LabelNewFace   = "New Face"
	LabelDetecting = "Detecting..."
)

// Enrollment representa uma identidade cadastrada: a chave canônica da
// assinatura e o nome exibido
type Enrollment struct {
	SignatureKey string    `json:"signature_key"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Attendance representa um registro de presença (append-only)
type Attendance struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	SignatureKey string    `json:"signature_key"`
	Timestamp    time.Time `json:"timestamp"`
}

// Overlay is one displayable entry for the renderer.
type Overlay struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Label       string      `json:"label,omitempty"`
}
