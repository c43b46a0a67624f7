// Package schemas holds the JSON Schema documents shipped with the validator.
package schemas

import "embed"

// Schema file names
const (
	ProfileDocument  = "profile_document.schema.json"
	ValidationReport = "validation_report.schema.json"
)

//go:embed *.schema.json
var Files embed.FS
