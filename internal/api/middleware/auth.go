package middleware

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
)

const APIKeyHeader = "x-api-key"

// APIKeyAuth builds a filter checking the x-api-key header. With enabled set
// to false the filter passes everything through, so routes can always install
// it.
func APIKeyAuth(enabled bool, apiKey string) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		if !enabled {
			chain.ProcessFilter(req, resp)
			return
		}

		key := req.HeaderParameter(APIKeyHeader)
		if key == "" {
			resp.AddHeader("WWW-Authenticate", "ApiKey")
			HandleError(resp, errors.New("missing API key"), http.StatusUnauthorized)
			return
		}
		if key != apiKey {
			resp.AddHeader("WWW-Authenticate", "ApiKey")
			HandleError(resp, errors.New("invalid API key"), http.StatusUnauthorized)
			return
		}

		chain.ProcessFilter(req, resp)
	}
}
