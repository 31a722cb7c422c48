package prediction

import (
	"fmt"
	"strconv"
	"strings"

	"carprice/internal/common/errors"
	"carprice/internal/common/validation"
)

// MsgCarIDNotNumeric is shown when the identifier does not parse as an integer.
const MsgCarIDNotNumeric = "CAR_ID must be a numeric value."

const instanceSchemaJSON = `{
	"type": "object",
	"additionalProperties": false,
	"required": ["CAR_ID", "BRAND", "YEAR", "ENGINE_SIZE", "FUEL_TYPE", "TRANSMISSION", "MILEAGE", "CONDITION", "MODEL"],
	"properties": {
		"CAR_ID":       {"type": "string", "pattern": "^-?[0-9]+$"},
		"BRAND":        {"type": "string", "minLength": 1},
		"YEAR":         {"type": "string", "minLength": 1},
		"ENGINE_SIZE":  {"type": "string", "minLength": 1},
		"FUEL_TYPE":    {"type": "string", "minLength": 1},
		"TRANSMISSION": {"type": "string", "minLength": 1},
		"MILEAGE":      {"type": "string", "minLength": 1},
		"CONDITION":    {"type": "string", "minLength": 1},
		"MODEL":        {"type": "string", "minLength": 1}
	}
}`

var instanceSchema = validation.MustCompile(instanceSchemaJSON)

// BuildRequest checks the identifier, then that every field is filled, and
// packs the vector into a single-instance batch. CAR_ID is sent as the
// decimal string of the parsed integer; other fields go verbatim.
func BuildRequest(fv FeatureVector) (*Request, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(fv.CarID), 10, 64)
	if err != nil {
		return nil, errors.NewValidationError(ColumnCarID, MsgCarIDNotNumeric)
	}

	values := fv.Values()
	for _, col := range Columns {
		if strings.TrimSpace(values[col]) == "" {
			return nil, errors.NewValidationError(col, fmt.Sprintf("%s is required.", col))
		}
	}

	instance := make(map[string]interface{}, len(Columns))
	for _, col := range Columns {
		instance[col] = values[col]
	}
	instance[ColumnCarID] = strconv.FormatInt(id, 10)

	if result := instanceSchema.Validate(instance); !result.Valid {
		return nil, errors.NewValidationError(result.Errors[0].Field, strings.Join(result.GetErrorMessages(), "; "))
	}

	return &Request{Instances: []map[string]interface{}{instance}}, nil
}
