package predictprice

import "carprice/internal/common/validation"

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["carId", "brand", "year", "engineSize", "fuelType", "transmission", "mileage", "condition", "model"],
	"properties": {
		"carId":        {"type": ["string", "integer"]},
		"brand":        {"type": "string"},
		"year":         {"type": ["string", "integer"]},
		"engineSize":   {"type": ["string", "number"]},
		"fuelType":     {"type": "string"},
		"transmission": {"type": "string"},
		"mileage":      {"type": ["string", "number"]},
		"condition":    {"type": "string"},
		"model":        {"type": "string"}
	}
}`)

// ValidateVariables checks raw job variables before decoding.
func ValidateVariables(variables map[string]interface{}) *validation.ValidationResult {
	return inputSchema.Validate(variables)
}
