package domain

import "time"

// JSONPathAssertion defines a JSONPath-based check on a backend answer.
type JSONPathAssertion struct {
	Exists   bool
	Eq       *string
	Contains *string
}

// ExpectSpec defines checks applied to one query of a book.
type ExpectSpec struct {
	// Status is the expected backend status code (optional).
	Status *int

	// MaxLatencyMS is a maximum allowed latency in milliseconds (optional).
	MaxLatencyMS *int

	// NoMissingKeys requires every payload value to be truthy.
	NoMissingKeys bool

	// JSONPath assertions keyed by expression, e.g. "$.summary.summary".
	JSONPath map[string]JSONPathAssertion
}

// QuerySpec is a saved query and its expectations.
type QuerySpec struct {
	Name   string
	Query  string
	Expect ExpectSpec
}

// QueryBook groups saved queries under one name (Git-friendly YAML).
type QueryBook struct {
	Name    string
	Queries []QuerySpec
}

// QueryBookRef is a lightweight reference to a query book on disk.
type QueryBookRef struct {
	Name string
	Path string
}

// AssertionResult is the output of a single expectation.
type AssertionResult struct {
	Name    string
	Passed  bool
	Message string
}

// QueryResult is the outcome of one query of a book.
type QueryResult struct {
	Name       string
	Query      string
	Outcome    Outcome
	StatusCode int
	LatencyMS  int64
	Message    string
	Page       PageUpdate
	Assertions []AssertionResult
}

// Failed reports whether the query did not succeed or an expectation failed.
func (r QueryResult) Failed() bool {
	if r.Outcome != OutcomeOK && r.Outcome != "" {
		return true
	}
	for _, a := range r.Assertions {
		if !a.Passed {
			return true
		}
	}
	return false
}

// BookResult is the outcome of running a query book.
type BookResult struct {
	BookName  string
	BookPath  string
	StartedAt time.Time
	EndedAt   time.Time
	Results   []QueryResult
}
