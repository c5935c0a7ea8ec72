package domain

import "time"

// QueryRequest is the body POSTed to the backend.
type QueryRequest struct {
	Query string
}

// QueryResponse is a successfully decoded backend answer.
// Doc is the generic JSON object; Details holds the typed extras.
type QueryResponse struct {
	StatusCode int
	Latency    time.Duration
	Doc        map[string]any
	Details    Details
}

// Details are the fields of the backend model that the page does not
// render but the CLI and TUI surface.
type Details struct {
	QueryIntent string
	Status      string
	Warnings    []string
	Errors      []string
	MissingKeys []string
	GivenValues []string
	EmptyValues []string
	HasSummary  bool
	HasExternal bool
}

// Well-known field paths of the backend answer.
const (
	PathExternalResponse = "$.external_api_response"
	PathModelResponse    = "$.updated_mdl_res_with_value"
	PathEndpointURL      = "$.updated_mdl_res_with_value.endpoint_url"
	PathPayload          = "$.updated_mdl_res_with_value.payload"
	PathSummaryText      = "$.summary.summary"
)
