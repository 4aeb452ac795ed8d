package matcher

import (
	"strings"

	"github.com/armon/go-radix"
)

// Matcher answers whether a URL is covered by a blocklist entry.
// An entry covers a URL when the URL equals it or continues it past
// a path, query, fragment or port boundary.
type Matcher struct {
	tree *radix.Tree
}

func New(urls []string) *Matcher {
	tree := radix.New()
	for _, url := range urls {
		tree.Insert(url, struct{}{})
	}
	return &Matcher{tree: tree}
}

// Match returns the most specific entry covering url.
func (m *Matcher) Match(url string) (string, bool) {
	var match string
	var found bool
	m.tree.WalkPath(url, func(entry string, _ interface{}) bool {
		if covers(entry, url) {
			match, found = entry, true
		}
		return false
	})
	return match, found
}

func (m *Matcher) Len() int {
	return m.tree.Len()
}

func covers(entry, url string) bool {
	if len(url) == len(entry) || strings.HasSuffix(entry, "/") {
		return true
	}

	switch url[len(entry)] {
	case '/', '?', '#', ':':
		return true
	}
	return false
}
