package merit

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	rabprohttp "github.com/tzussman/rabpro/internal/http"
)

// Entry is one anchor from a directory listing: its visible text and
// its link target.
type Entry struct {
	Name string
	Href string
}

// Lister enumerates the downloadable files behind a listing URL.
type Lister interface {
	List(ctx context.Context, url string) ([]Entry, error)
}

// HTMLLister scrapes anchor elements from an HTML directory index.
type HTMLLister struct {
	client *rabprohttp.Client
}

// NewHTMLLister creates a Lister backed by the given HTTP client.
func NewHTMLLister(client *rabprohttp.Client) *HTMLLister {
	return &HTMLLister{client: client}
}

// List fetches url and returns every anchor that carries an href.
func (l *HTMLLister) List(ctx context.Context, url string) ([]Entry, error) {
	resp, err := l.client.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("listing %s returned status code %d", url, resp.StatusCode)
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	var entries []Entry
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := attr(n, "href"); ok {
				entries = append(entries, Entry{Name: anchorText(n), Href: href})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return entries, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// anchorText gathers the visible text of an anchor node.
func anchorText(n *html.Node) string {
	var sb strings.Builder
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
	return strings.TrimSpace(sb.String())
}
