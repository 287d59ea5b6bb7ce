package main

import (
	"io"

	http "github.com/bogdanfinn/fhttp"
)

// page is what a request ended on once redirects were followed.
type page struct {
	URL    string
	Status int
	Body   []byte
}

// readPage drains and closes resp, decoding any Content-Encoding.
func readPage(resp *http.Response) (page, error) {
	body := http.DecompressBody(resp)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return page{}, err
	}
	return page{URL: finalURL(resp), Status: resp.StatusCode, Body: data}, nil
}

// finalURL returns the URL of the last request made to produce resp, i.e. the
// address after any redirects were followed.
func finalURL(resp *http.Response) string {
	if resp == nil || resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	return resp.Request.URL.String()
}
