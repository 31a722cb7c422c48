package prediction

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"carprice/internal/common/errors"
)

// featureKeys maps the JSON names of FeatureVector to their columns.
var featureKeys = map[string]string{
	"carId":        ColumnCarID,
	"brand":        ColumnBrand,
	"year":         ColumnYear,
	"engineSize":   ColumnEngineSize,
	"fuelType":     ColumnFuelType,
	"transmission": ColumnTransmission,
	"mileage":      ColumnMileage,
	"condition":    ColumnCondition,
	"model":        ColumnModel,
}

// DecodeFeatures reads a JSON object whose fields are strings or numbers.
// Numbers are kept as json.Number so large identifiers survive intact.
func DecodeFeatures(r io.Reader) (FeatureVector, error) {
	var raw map[string]interface{}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return FeatureVector{}, errors.NewValidationError("body", err.Error())
	}
	return FeaturesFromMap(raw)
}

// DecodeFeatureMap parses a JSON object into a generic map, keeping numbers
// as json.Number.
func DecodeFeatureMap(data string) (map[string]interface{}, error) {
	var raw map[string]interface{}
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// FeaturesFromMap builds a vector from loosely typed values. Absent keys
// stay empty; anything other than a string or number is rejected.
func FeaturesFromMap(raw map[string]interface{}) (FeatureVector, error) {
	values := make(map[string]string, len(featureKeys))
	for key, col := range featureKeys {
		v, err := stringify(raw[key])
		if err != nil {
			return FeatureVector{}, errors.NewValidationError(col, fmt.Sprintf("%s must be a string or a number.", key))
		}
		values[col] = v
	}
	return FeatureVector{
		CarID:        values[ColumnCarID],
		Brand:        values[ColumnBrand],
		Year:         values[ColumnYear],
		EngineSize:   values[ColumnEngineSize],
		FuelType:     values[ColumnFuelType],
		Transmission: values[ColumnTransmission],
		Mileage:      values[ColumnMileage],
		Condition:    values[ColumnCondition],
		Model:        values[ColumnModel],
	}, nil
}

// stringify spells numbers the way a form would carry them. Integer
// literals are kept verbatim; other numbers get their shortest decimal form.
func stringify(v interface{}) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			return s, nil
		}
		f, err := t.Float64()
		if err != nil {
			return s, nil
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}
