package ports

// Page is the set of output targets a query writes to. Front-ends pass
// their own handles instead of having the flow look targets up by name.
type Page interface {
	SetLoading(visible bool)
	SetAPIResponse(text string)
	SetEndpoint(text string)
	SetSummaryHTML(html string)
	SetMissingKeysHTML(html string)
	SetResponseMessage(text string)
}
