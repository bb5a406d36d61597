package middleware

import (
	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

const requestIDAttribute = "request_id"

// RequestID tags every request with an ID, reusing the caller's X-Request-ID
// when one is sent and echoing it back in the response.
func RequestID(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	id := req.HeaderParameter(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}

	req.SetAttribute(requestIDAttribute, id)
	resp.AddHeader(RequestIDHeader, id)

	chain.ProcessFilter(req, resp)
}

// GetRequestID returns the ID set by the RequestID filter, or an empty string
// when the filter did not run.
func GetRequestID(req *restful.Request) string {
	if id, ok := req.Attribute(requestIDAttribute).(string); ok {
		return id
	}
	return ""
}
