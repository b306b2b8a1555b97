package core

import "maps"

// Params is the free-form parameter bag a request builder consumes. Builders
// read from it; they never mutate the caller's copy.
type Params map[string]any

// Clone returns a shallow copy so builders can add fields without touching
// the caller's map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	maps.Copy(out, p)
	return out
}

// Request is one fully-built exchange call, ready for signing and dispatch.
// It is a value object: builders produce it, the transport consumes it,
// nothing mutates it afterwards.
type Request struct {
	// Method is the HTTP verb.
	Method string `json:"method"`
	// Route is the descriptor route this request resolves to.
	Route Route `json:"route"`
	// Query holds the query-string parameters.
	Query Params `json:"query,omitempty"`
	// Body is the request body for POST calls, when the venue wants one.
	Body Params `json:"body,omitempty"`
	// Headers holds extra request headers.
	Headers map[string]string `json:"headers,omitempty"`
	// Weight is the rate-limit cost from the descriptor's route table.
	Weight int `json:"weight"`
	// RequireAuth marks private endpoints that must be signed.
	RequireAuth bool `json:"require_auth"`
}

// NewRequest creates a request for the given verb and route.
func NewRequest(method string, route Route) *Request {
	return &Request{
		Method:  method,
		Route:   route,
		Query:   make(Params),
		Headers: make(map[string]string),
		Weight:  1,
	}
}

// SetQuery adds one query parameter and returns the request for chaining.
func (r *Request) SetQuery(key string, value any) *Request {
	if r.Query == nil {
		r.Query = make(Params)
	}
	r.Query[key] = value
	return r
}

// SetBody adds one body parameter and returns the request for chaining.
func (r *Request) SetBody(key string, value any) *Request {
	if r.Body == nil {
		r.Body = make(Params)
	}
	r.Body[key] = value
	return r
}

// SetHeader adds one header and returns the request for chaining.
func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

// SetWeight records the rate-limit cost and returns the request for chaining.
func (r *Request) SetWeight(weight int) *Request {
	r.Weight = weight
	return r
}

// SetRequireAuth marks the request as private and returns it for chaining.
func (r *Request) SetRequireAuth(require bool) *Request {
	r.RequireAuth = require
	return r
}
