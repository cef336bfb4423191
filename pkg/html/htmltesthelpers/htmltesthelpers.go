package htmltesthelpers

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// Collection of helpers and fixtures used for HTML tests

type recordedFunc func(*httptest.ResponseRecorder)

func AssertHTTPResponseContains(t *testing.T, expectedContents []string, testFunc recordedFunc) {
	t.Helper()

	// Handlers write to an http.ResponseWriter, so we use an httptest.ResponseRecorder to read the
	// written response.
	recorder := httptest.NewRecorder()

	testFunc(recorder)

	result := recorder.Result()
	defer result.Body.Close()

	buf := bytes.NewBufferString("")

	if _, err := io.Copy(buf, result.Body); err != nil {
		t.Fatal(err)
	}

	AssertContains(t, buf.String(), expectedContents...)
}

func AssertContains(t *testing.T, contents string, expectedContents ...string) {
	t.Helper()

	for _, item := range expectedContents {
		if !strings.Contains(contents, item) {
			t.Errorf("expected result to contain: %s", item)
		}
	}
}

// ParseHTML parses a page or a fragment. Fragments are placed in a body element.
func ParseHTML(t *testing.T, contents string) *html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(contents))
	if err != nil {
		t.Fatalf("could not parse html: %v", err)
	}
	return doc
}

// FindAll returns every element named tag, in document order, that carries class when class is not
// empty.
func FindAll(root *html.Node, tag, class string) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag && (class == "" || HasClass(n, class)) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	sb := &strings.Builder{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
