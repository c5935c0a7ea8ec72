package domain

import "time"

// Outcome is how a submitted query ended.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
)

// OutcomeOf maps a Submit error to its outcome.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	if KindOf(err) == KindRequestRejected {
		return OutcomeRejected
	}
	return OutcomeFailed
}

// QueryArtifact is one submitted query persisted for later inspection.
type QueryArtifact struct {
	ID          string         `json:"id"`
	Query       string         `json:"query"`
	Environment string         `json:"environment,omitempty"`
	Endpoint    string         `json:"endpoint"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	Outcome     Outcome        `json:"outcome"`
	StatusCode  int            `json:"status_code,omitempty"`
	LatencyMS   int64          `json:"latency_ms"`
	MissingKeys []string       `json:"missing_keys,omitempty"`
	Response    map[string]any `json:"response,omitempty"`
	Error       *RunError      `json:"error,omitempty"`
}

// ArtifactRef is an entry of the history index.
type ArtifactRef struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	Query     string    `json:"query"`
	Outcome   Outcome   `json:"outcome"`
	StartedAt time.Time `json:"started_at"`
}
