package pipeline

import (
	"path/filepath"
	"strings"
)

// OutputPath derives the artifact path for a format from the input path:
// same directory, same base name, the input's extension replaced with the
// format's. "survey.yaml" becomes "survey.png".
func OutputPath(input, format string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}
