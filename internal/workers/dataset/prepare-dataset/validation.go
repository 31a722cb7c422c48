package preparedataset

import "carprice/internal/common/validation"

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["inputPath"],
	"properties": {
		"inputPath":    {"type": "string", "minLength": 1, "description": "Source CSV path"},
		"outputPath":   {"type": "string", "description": "Cleaned CSV path; defaults to the sibling _processed file"},
		"targetColumn": {"type": "string", "description": "Target column name before normalization"}
	}
}`)

// ValidateVariables checks raw job variables before decoding.
func ValidateVariables(variables map[string]interface{}) *validation.ValidationResult {
	return inputSchema.Validate(variables)
}
