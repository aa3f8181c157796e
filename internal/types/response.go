package types

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
)

// Response holds a fetched page.
type Response struct {
	URL        string
	FinalURL   string
	StatusCode int
	Body       []byte

	doc *goquery.Document
}

// Document parses the body as HTML. The parsed document is cached.
func (r *Response) Document() (*goquery.Document, error) {
	if r.doc != nil {
		return r.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	if err != nil {
		return nil, &ParseError{URL: r.URL, Err: err}
	}
	r.doc = doc
	return doc, nil
}

// Text returns the body as a string.
func (r *Response) Text() string { return string(r.Body) }
