package ws

import (
	"encoding/json"
	"time"

	"pv_simulator/internal/model"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeRunRequest = "run:request"

	// Server -> Client
	TypeDataLoaded = "data:loaded"
	TypeRunStarted = "run:started"
	TypeRunResult  = "run:result"
	TypeRunError   = "run:error"
)

// Client -> Server messages

type RunRequestPayload struct {
	Building string `json:"building"`
}

// Server -> Client messages

type DataLoadedPayload struct {
	Buildings []string `json:"buildings"`
}

type RunStartedPayload struct {
	Building string `json:"building"`
}

type RunResultPayload struct {
	Building    string    `json:"building"`
	RunID       string    `json:"run_id"`
	GeneratedAt string    `json:"generated_at"`
	Groups      int       `json:"groups"`
	TotalAreaM2 float64   `json:"total_area_m2"`
	AnnualKWh   float64   `json:"annual_kwh"`
	PowerKW     []float64 `json:"power_kw"`
}

type RunErrorPayload struct {
	Building string `json:"building"`
	Error    string `json:"error"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

func RunResultFromModel(res model.GenerationResult) RunResultPayload {
	return RunResultPayload{
		Building:    res.Building,
		RunID:       res.RunID,
		GeneratedAt: res.GeneratedAt.Format(time.RFC3339),
		Groups:      res.Groups,
		TotalAreaM2: res.TotalAreaM2,
		AnnualKWh:   res.AnnualKWh(),
		PowerKW:     res.PowerKW,
	}
}
