package export

import (
	"regexp"
	"strings"
)

const (
	ExtHTML = ".html"
	ExtJSON = ".json"
	ExtText = ".txt"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename derives a download file name from a template name: the name is
// lower-cased and every whitespace run is replaced by "-". An empty name
// yields "template". ext is appended as given.
func Filename(name, ext string) string {
	base := whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
	if base == "" {
		base = "template"
	}
	return base + ext
}
