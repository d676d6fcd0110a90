package fetch

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

type stubTransport struct {
	res  map[string]stubResponse
	seen *[]*http.Request
	err  error
}

type stubResponse struct {
	status int
	body   string
	header http.Header
}

func (s stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if s.seen != nil {
		*s.seen = append(*s.seen, req)
	}
	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.res[req.URL.String()]
	if !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Status:     fmt.Sprintf("%d %s", http.StatusNotFound, http.StatusText(http.StatusNotFound)),
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	}
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	hdr := r.header
	if hdr == nil {
		hdr = make(http.Header)
	}
	return &http.Response{
		StatusCode:    status,
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Body:          io.NopCloser(strings.NewReader(r.body)),
		Header:        hdr,
		Request:       req,
		ContentLength: int64(len(r.body)),
	}, nil
}

var testSource = Source{Owner: "acme", Repo: "templates", Ref: "main"}

func newTestClient(tr stubTransport) Client {
	cl, _ := NewClient(&http.Client{Transport: tr}, testSource)
	return cl
}
