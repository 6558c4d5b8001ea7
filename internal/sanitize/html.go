package sanitize

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// StrictPolicy removes all HTML tags and attributes.
	StrictPolicy = bluemonday.StrictPolicy()

	// UGCPolicy allows safe user-generated content with basic formatting.
	// Permits: <p>, <b>, <i>, <em>, <strong>, <a>, <ul>, <ol>, <li>, <br>
	UGCPolicy = bluemonday.UGCPolicy()
)

// Text strips all HTML tags and returns plain text.
// Entities produced by the policy are decoded again, so "Rock & Roll" is
// stored as typed rather than as "Rock &amp; Roll".
// Use for: venue names, event names, organizers.
func Text(input string) string {
	return html.UnescapeString(StrictPolicy.Sanitize(input))
}

// HTML sanitizes HTML content, allowing safe formatting tags.
// Use for: event descriptions.
// Removes: <script>, <iframe>, onclick handlers, style attributes.
func HTML(input string) string {
	return UGCPolicy.Sanitize(input)
}
