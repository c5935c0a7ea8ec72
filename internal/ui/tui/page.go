package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ports"
)

// msgPage turns every target write into a message for the program loop.
// The model is the only place the targets are stored.
type msgPage struct {
	ch chan<- tea.Msg
}

func (p msgPage) SetLoading(visible bool) { p.ch <- loadingMsg{visible: visible} }

func (p msgPage) SetAPIResponse(text string) { p.write(targetAPIResponse, text) }

func (p msgPage) SetEndpoint(text string) { p.write(targetEndpoint, text) }

func (p msgPage) SetSummaryHTML(html string) { p.write(targetSummary, html) }

func (p msgPage) SetMissingKeysHTML(html string) { p.write(targetMissingKeys, html) }

func (p msgPage) SetResponseMessage(text string) { p.write(targetResponse, text) }

func (p msgPage) write(t target, text string) {
	p.ch <- targetWriteMsg{target: t, text: text}
}

var _ ports.Page = msgPage{}
