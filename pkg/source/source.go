// Package source reads document and stop word lines from local files or
// http(s) URLs.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/NivBraz/tagextractor/pkg/fetcher"
)

// ErrInvalidEncoding is returned when content is not valid UTF-8.
var ErrInvalidEncoding = errors.New("content is not valid UTF-8")

// ReadError reports that a location could not be read or decoded.
type ReadError struct {
	Location string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Location, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Reader loads text lines. Remote locations go through the fetcher.
type Reader struct {
	fetcher *fetcher.Fetcher
}

func NewReader(f *fetcher.Fetcher) *Reader {
	return &Reader{fetcher: f}
}

// IsRemote reports whether location is an http or https URL.
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ReadLines returns the text lines of location. HTML responses are reduced to
// their visible text first.
func (r *Reader) ReadLines(ctx context.Context, location string) ([]string, error) {
	var content []byte

	if IsRemote(location) {
		if r.fetcher == nil {
			return nil, &ReadError{Location: location, Err: errors.New("remote sources are not enabled")}
		}
		doc, err := r.fetcher.Fetch(ctx, location)
		if err != nil {
			return nil, &ReadError{Location: location, Err: err}
		}
		if isHTML(doc.ContentType) {
			lines, err := htmlLines(doc.Body)
			if err != nil {
				return nil, &ReadError{Location: location, Err: fmt.Errorf("error parsing HTML: %w", err)}
			}
			return lines, nil
		}
		content = doc.Body
	} else {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, &ReadError{Location: location, Err: err}
		}
		content = data
	}

	if !utf8.Valid(content) {
		return nil, &ReadError{Location: location, Err: ErrInvalidEncoding}
	}
	return SplitLines(string(content)), nil
}

// SplitLines splits text on \n, \r\n or \r line endings. A trailing line
// terminator does not produce an empty final line.
func SplitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	if text == "" {
		return []string{}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func isHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}

// htmlLines returns one line per non-blank text node, skipping scripts and
// styles. Text nodes are kept apart so words in adjacent elements never join.
func htmlLines(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	doc.Find("script, style, noscript, template").Remove()

	lines := make([]string, 0)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			for _, line := range SplitLines(n.Data) {
				if line = strings.TrimSpace(line); line != "" {
					lines = append(lines, line)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return lines, nil
}
