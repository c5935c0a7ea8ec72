package usecase

import (
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/markup"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ports"
	ucextract "github.com/kumar-tinkesh/headless-api-call-with-model/internal/usecase/extract"
)

// BuildPageUpdate computes every output target from a decoded backend
// answer. Nothing is written to a page here; a missing model response or
// payload object fails the whole update.
func BuildPageUpdate(resp domain.QueryResponse) (domain.PageUpdate, error) {
	doc := resp.Doc

	external, extErr := ucextract.Lookup(doc, domain.PathExternalResponse)

	model, err := ucextract.Object(doc, domain.PathModelResponse)
	if err != nil {
		return domain.PageUpdate{}, &domain.OpError{Op: "usecase.page_update", Kind: domain.KindUnexpected, Err: err}
	}
	payload, err := ucextract.Object(model, "$.payload")
	if err != nil {
		return domain.PageUpdate{}, &domain.OpError{Op: "usecase.page_update", Kind: domain.KindUnexpected, Err: err}
	}

	missing := domain.MissingKeys(payload)

	return domain.PageUpdate{
		APIResponse:     ucextract.Pretty(external, extErr == nil),
		Endpoint:        domain.EndpointText(ucextract.Text(model, "$.endpoint_url")),
		SummaryHTML:     markup.FormatOrFallback(ucextract.OptionalString(doc, domain.PathSummaryText)),
		MissingKeysHTML: domain.MissingKeysHTML(missing),
		MissingKeys:     missing,
		Details:         resp.Details,
	}, nil
}

// ApplyPageUpdate writes a complete update to page and clears any earlier
// status message.
func ApplyPageUpdate(page ports.Page, u domain.PageUpdate) {
	page.SetAPIResponse(u.APIResponse)
	page.SetEndpoint(u.Endpoint)
	page.SetSummaryHTML(u.SummaryHTML)
	page.SetMissingKeysHTML(u.MissingKeysHTML)
	page.SetResponseMessage("")
}
