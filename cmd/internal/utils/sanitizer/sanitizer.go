// Package sanitizer cleans user supplied note bodies before they are stored.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	AllowedTags = []string{
		"a", "abbr", "b", "blockquote", "br", "code", "div", "em",
		"h1", "h2", "h3", "h4", "h5", "h6", "hr", "i", "img", "li", "ol",
		"p", "pre", "s", "span", "strong", "sub", "sup",
		"table", "tbody", "td", "th", "thead", "tr", "u", "ul",
	}

	AllowedStyles = []string{
		"color", "background-color", "text-align", "font-size", "font-weight", "text-decoration",
	}
)

var (
	policy *bluemonday.Policy
	once   sync.Once
)

// Policy returns the shared allow-list policy. bluemonday policies are safe
// for concurrent use once built.
func Policy() *bluemonday.Policy {
	once.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements(AllowedTags...)
		p.AllowAttrs("href", "title", "target").OnElements("a")
		p.AllowAttrs("src", "alt", "width", "height").OnElements("img")
		p.AllowStandardURLs()
		p.RequireNoFollowOnLinks(false)
		p.AllowStyles(AllowedStyles...).Globally()
		p.AllowComments()
		policy = p
	})
	return policy
}

// Clean strips every tag, attribute and style outside the allow-list.
// Script and style elements are dropped with their content; comments stay.
func Clean(html string) string {
	return Policy().Sanitize(html)
}
