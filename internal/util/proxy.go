// Package util holds the outbound-HTTP plumbing shared by the page
// fetcher: proxy resolution and robots.txt compliance.
package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds the proxy resolver for source-page fetches. Explicit
// proxy URLs win; with none configured the standard environment variables
// (HTTP_PROXY, HTTPS_PROXY, NO_PROXY) apply.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
