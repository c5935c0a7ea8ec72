package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// pageBuffer is large enough for one submission's writes.
const pageBuffer = 16

func listenPage(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return submitDoneMsg{err: errors.New("submission channel closed")}
		}
		return msg
	}
}

// startSubmit runs the query in the background. Target writes and the final
// submitDoneMsg arrive on the returned channel in order.
func startSubmit(ctx context.Context, deps Deps, query string) (<-chan tea.Msg, tea.Cmd) {
	ch := make(chan tea.Msg, pageBuffer)

	go func() {
		defer close(ch)
		defer func() {
			if r := recover(); r != nil {
				ch <- submitDoneMsg{err: fmt.Errorf("submit panicked: %v", r)}
			}
		}()

		if deps.Submit == nil {
			ch <- submitDoneMsg{err: errors.New("no submitter configured")}
			return
		}

		sub, err := deps.Submit.Execute(ctx, query, msgPage{ch: ch})
		ch <- submitDoneMsg{sub: sub, err: err}
	}()

	return ch, listenPage(ch)
}
