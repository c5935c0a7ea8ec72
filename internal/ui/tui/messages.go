package tui

import "github.com/kumar-tinkesh/headless-api-call-with-model/internal/usecase"

type target int

const (
	targetAPIResponse target = iota
	targetEndpoint
	targetSummary
	targetMissingKeys
	targetResponse
)

type loadingMsg struct {
	visible bool
}

type targetWriteMsg struct {
	target target
	text   string
}

type submitDoneMsg struct {
	sub usecase.Submission
	err error
}
