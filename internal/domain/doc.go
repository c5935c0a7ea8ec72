// Package domain contains the core model for querydesk: the query sent to
// the backend, the decoded answer, the computed page contents and the errors
// shared by every front-end.
//
// The domain does not depend on net/http, YAML or the filesystem. Adapters in
// internal/infra map into and out of these types.
package domain
