package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// mavenIDRegex matches valid Maven groupId and artifactId segments.
var mavenIDRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-]*$`)

// ValidateCoordinate validates a "groupId:artifactId" coordinate.
//
// The validation rules are intentionally conservative:
//   - Exactly two non-empty parts
//   - No control characters
//   - Only the characters Maven accepts in ids
//   - Maximum length of 256 characters
func ValidateCoordinate(coord string) error {
	if coord == "" {
		return New(ErrCodeInvalidCoordinate, "coordinate cannot be empty")
	}
	if len(coord) > 256 {
		return New(ErrCodeInvalidCoordinate, "coordinate too long (max 256 characters)")
	}
	for _, r := range coord {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCoordinate, "coordinate contains invalid control characters")
		}
	}

	parts := strings.Split(coord, ":")
	if len(parts) != 2 {
		return New(ErrCodeInvalidCoordinate, "invalid maven coordinate %q (expected groupId:artifactId)", coord)
	}
	for _, p := range parts {
		if !mavenIDRegex.MatchString(p) {
			return New(ErrCodeInvalidCoordinate, "invalid maven coordinate %q", coord)
		}
	}
	return nil
}

// ValidateModulePath validates a module path declared in a POM <modules> block.
// It rejects paths that could escape through absolute or control-character
// tricks. Relative ".." segments are legal in Maven reactors and allowed.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No backslashes (Windows-style paths)
func ValidateModulePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "module path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "module path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "module path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "module path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "module path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
