package server

import (
	"encoding/json"
	"fmt"

	"github.com/vk/attrgrid/internal/store"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// AttributeView is the JSON shape of one store entry.
type AttributeView struct {
	Name  string          `json:"name"`
	State string          `json:"state"`
	Value json.RawMessage `json:"value,omitempty"`
}

// NewAttributeView renders a status. Only present entries carry a value.
func NewAttributeView(name string, st store.Status) (AttributeView, error) {
	view := AttributeView{Name: name, State: st.State.String()}
	if !st.IsPresent() {
		return view, nil
	}
	raw, err := EncodeValue(st.Value)
	if err != nil {
		return view, fmt.Errorf("attribute '%s': %w", name, err)
	}
	view.Value = raw
	return view, nil
}

// EncodeValue renders a value as plain JSON. Nulls of any type become null.
func EncodeValue(v cty.Value) (json.RawMessage, error) {
	if v.IsNull() {
		return json.RawMessage("null"), nil
	}
	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return raw, nil
}
