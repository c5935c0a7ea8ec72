package usecase

import (
	"context"
	"time"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ports"
	ucassert "github.com/kumar-tinkesh/headless-api-call-with-model/internal/usecase/assert"
)

// RunQueryBook submits every saved query of a book in order and evaluates
// its expectations.
type RunQueryBook struct {
	books  ports.QueryBookLoader
	submit *SubmitQuery
}

func NewRunQueryBook(bl ports.QueryBookLoader, submit *SubmitQuery) *RunQueryBook {
	return &RunQueryBook{books: bl, submit: submit}
}

func (uc *RunQueryBook) Execute(ctx context.Context, bookPath string) (domain.BookResult, error) {
	book, err := uc.books.LoadBook(bookPath)
	if err != nil {
		return domain.BookResult{}, err
	}

	res := domain.BookResult{
		BookName:  book.Name,
		BookPath:  bookPath,
		StartedAt: time.Now(),
		Results:   make([]domain.QueryResult, 0, len(book.Queries)),
	}

	for _, q := range book.Queries {
		if ctx.Err() != nil {
			break
		}

		page := &RecordingPage{}
		sub, subErr := uc.submit.Execute(ctx, q.Query, page)

		qr := domain.QueryResult{
			Name:       q.Name,
			Query:      q.Query,
			Outcome:    sub.Outcome,
			StatusCode: sub.StatusCode,
			LatencyMS:  sub.Elapsed.Milliseconds(),
			Message:    page.ResponseMessage,
			Page:       sub.Page,
		}

		var doc map[string]any
		if subErr == nil {
			doc = sub.Response.Doc
		}
		qr.Assertions = ucassert.Evaluate(q.Expect, qr.StatusCode, qr.LatencyMS, sub.Page.MissingKeys, doc)

		res.Results = append(res.Results, qr)
	}

	res.EndedAt = time.Now()
	return res, ctx.Err()
}
