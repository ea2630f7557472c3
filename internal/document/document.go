// Package document wraps a parsed HTML page and exposes the typed lookups the
// scrapers build on: cells addressed by their data-stat marker, item
// properties, text following a label, and tables hidden inside comments.
//
// Every lookup reports absence with a nil, false or Null result; pages from
// different eras omit different sections and that is not an error.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrInvalidArgument reports a lookup that asked for both an attribute and
// the first child element.
var ErrInvalidArgument = errors.New("document: attribute and first child are mutually exclusive")

// Document is a parsed page.
type Document struct {
	doc      *goquery.Document
	comments []*html.Node
	scanned  bool
}

// Parse builds a Document from raw bytes.
func Parse(body []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Root returns the document selection.
func (d *Document) Root() *goquery.Selection {
	return d.doc.Selection
}

// Find runs a CSS selector against the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// ItemProperty returns the trimmed attr (or text when attr is empty) of the
// first element carrying itemprop=name, optionally restricted to tag.
func (d *Document) ItemProperty(name, attr, tag string) (string, bool) {
	sel := d.doc.Find(fmt.Sprintf(`%s[itemprop=%q]`, tag, name)).First()
	if sel.Length() == 0 {
		return "", false
	}
	if attr != "" {
		v, ok := sel.Attr(attr)
		if !ok {
			return "", false
		}
		return strings.TrimSpace(v), true
	}
	return strings.TrimSpace(sel.Text()), true
}

// Label returns the first tag element whose text matches pattern.
func (d *Document) Label(tag string, pattern *regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection
	d.doc.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if pattern.MatchString(s.Text()) {
			found = s
			return false
		}
		return true
	})
	return found
}

// FirstTextAfterLabel finds the label element and returns the trimmed text of
// the first plain-text node among its following siblings.
func (d *Document) FirstTextAfterLabel(tag string, pattern *regexp.Regexp) (string, bool) {
	label := d.Label(tag, pattern)
	if label == nil {
		return "", false
	}
	return TextAfter(label.Get(0))
}

// TextAfter returns the trimmed data of the first text-node sibling after n.
func TextAfter(n *html.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type == html.TextNode {
			return strings.TrimSpace(sib.Data), true
		}
	}
	return "", false
}

// CanonicalURL returns the page's canonical link.
func (d *Document) CanonicalURL() (string, bool) {
	href, ok := d.doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", false
	}
	return strings.TrimSpace(href), true
}

// Table returns the table whose id fully matches idPattern, looking in the
// live document first and then inside comments.
func (d *Document) Table(idPattern string) *goquery.Selection {
	re, err := anchored(idPattern)
	if err != nil {
		return nil
	}
	if t := matchTable(d.doc.Selection, re); t != nil {
		return t
	}
	return d.CommentedTable(idPattern)
}

// CommentedTable finds a comment that serializes a table with an id matching
// idPattern, re-parses it and returns that table.
func (d *Document) CommentedTable(idPattern string) *goquery.Selection {
	marker, err := regexp.Compile(`id="(?:` + idPattern + `)"`)
	if err != nil {
		return nil
	}
	id, err := anchored(idPattern)
	if err != nil {
		return nil
	}
	for _, c := range d.commentNodes() {
		if !marker.MatchString(c.Data) {
			continue
		}
		frag, err := goquery.NewDocumentFromReader(strings.NewReader(c.Data))
		if err != nil {
			continue
		}
		if t := matchTable(frag.Selection, id); t != nil {
			return t
		}
	}
	return nil
}

func (d *Document) commentNodes() []*html.Node {
	if d.scanned {
		return d.comments
	}
	d.scanned = true
	for _, root := range d.doc.Nodes {
		walk(root, func(n *html.Node) {
			if n.Type == html.CommentNode {
				d.comments = append(d.comments, n)
			}
		})
	}
	return d.comments
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func anchored(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compile table id %q: %w", pattern, err)
	}
	return re, nil
}

func matchTable(root *goquery.Selection, id *regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection
	root.Find("table[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, _ := s.Attr("id"); id.MatchString(v) {
			found = s
			return false
		}
		return true
	})
	return found
}
