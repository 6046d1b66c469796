package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/vk/attrgrid/internal/config"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// LoadValuesFile reads a YAML mapping of attribute name to value. An empty
// document yields no values.
func LoadValuesFile(path string) (map[string]cty.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read values file: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse values file %s: %w", path, err)
	}
	if doc == nil {
		return map[string]cty.Value{}, nil
	}

	// Round-trip through JSON so the value types are implied the same way as
	// for HTTP assignments.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("values file %s: %w", path, err)
	}
	values, err := config.DecodeJSONValues(raw)
	if err != nil {
		return nil, fmt.Errorf("values file %s: %w", path, err)
	}
	return values, nil
}

// ParseAssignment splits "name=value". The value is read as JSON when it is
// valid JSON and as a plain string otherwise, so a=10 assigns a number and
// a=hello assigns a string.
func ParseAssignment(raw string) (string, cty.Value, error) {
	name, text, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", cty.NilVal, fmt.Errorf("invalid assignment %q: expected name=value", raw)
	}

	ty, err := ctyjson.ImpliedType([]byte(text))
	if err != nil {
		return name, cty.StringVal(text), nil
	}
	v, err := ctyjson.Unmarshal([]byte(text), ty)
	if err != nil {
		return name, cty.StringVal(text), nil
	}
	return name, v, nil
}
