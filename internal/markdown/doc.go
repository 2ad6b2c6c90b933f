// Package markdown renders Markdown bodies of localized content into HTML.
package markdown
