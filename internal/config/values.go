package config

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// DecodeJSONValues decodes a JSON object into one value per key. The types
// are implied from the JSON itself: numbers become cty.Number, arrays become
// tuples and nested objects become objects.
func DecodeJSONValues(data []byte) (map[string]cty.Value, error) {
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}
	if !ty.IsObjectType() {
		return nil, fmt.Errorf("values must be an object of name to value, got %s", ty.FriendlyName())
	}
	obj, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return nil, fmt.Errorf("failed to decode values: %w", err)
	}

	values := make(map[string]cty.Value, len(ty.AttributeTypes()))
	for name, v := range obj.AsValueMap() {
		values[name] = v
	}
	return values, nil
}
