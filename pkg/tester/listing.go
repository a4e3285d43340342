package tester

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// entry is one child of a directory listing.
type entry struct {
	url  *url.URL
	name string
	dir  bool
}

// parseListing extracts the direct children of base from an HTML directory
// index. Parent links, sort links and anything outside base are ignored.
func parseListing(base *url.URL, body []byte) []entry {
	var entries []entry
	seen := make(map[string]bool)

	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return entries

		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			if token.Data != "a" {
				continue
			}
			for _, attr := range token.Attr {
				if attr.Key != "href" {
					continue
				}
				if e, ok := childEntry(base, attr.Val); ok && !seen[e.name] {
					seen[e.name] = true
					entries = append(entries, e)
				}
			}

		default:
		}
	}
}

func childEntry(base *url.URL, href string) (entry, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "?") || strings.HasPrefix(href, "#") {
		return entry{}, false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return entry{}, false
	}

	resolved := base.ResolveReference(ref)
	if resolved.Host != base.Host || !strings.HasPrefix(resolved.Path, base.Path) {
		return entry{}, false
	}

	rel := strings.TrimPrefix(resolved.Path, base.Path)
	dir := strings.HasSuffix(rel, "/")
	name := strings.TrimSuffix(rel, "/")

	if name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
		return entry{}, false
	}

	resolved.RawQuery = ""
	resolved.Fragment = ""

	return entry{url: resolved, name: name, dir: dir}, true
}
