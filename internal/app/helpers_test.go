package service

import (
	"net/http"
	"net/http/httptest"
	"net/url"
)

func requestWith(lat, lon string) *http.Request {
	q := url.Values{"lat": {lat}, "lon": {lon}}
	return httptest.NewRequest(http.MethodGet, "/?"+q.Encode(), nil)
}
