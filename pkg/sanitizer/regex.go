package sanitizer

import "regexp"

// Pre-compiled regular expressions for performance
var (
	dotRegex         = regexp.MustCompile(`\.+`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	ansiEscapeRegex  = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
	cssPropertyRegex = regexp.MustCompile(`^-{0,2}[a-z][a-z0-9-]*$`)
	unsafeFileRegex  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
)
