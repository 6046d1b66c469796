package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/attrgrid/internal/attrerr"
	"github.com/vk/attrgrid/internal/registry"
	"github.com/vk/attrgrid/internal/step"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

func apply(t *testing.T, fn function.Function, value cty.Value, args ...cty.Value) (cty.Value, error) {
	t.Helper()
	s, err := step.FromFunction("test", fn, nil, args...)
	require.NoError(t, err)
	return s.Apply(value, nil)
}

func TestIsBetween(t *testing.T) {
	n := cty.NumberIntVal
	testCases := []struct {
		name   string
		value  cty.Value
		strict []cty.Value
		reason string
	}{
		{name: "inside strict", value: n(5)},
		{name: "on min strict", value: n(0), reason: "le than min"},
		{name: "below min strict", value: n(-1), reason: "le than min"},
		{name: "on max strict", value: n(10), reason: "ge than max"},
		{name: "explicit strict", value: n(10), strict: []cty.Value{cty.True}, reason: "ge than max"},
		{name: "on min non strict", value: n(0), strict: []cty.Value{cty.False}},
		{name: "on max non strict", value: n(10), strict: []cty.Value{cty.False}},
		{name: "below min non strict", value: n(-1), strict: []cty.Value{cty.False}, reason: "lt than min"},
		{name: "above max non strict", value: n(11), strict: []cty.Value{cty.False}, reason: "gt than max"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]cty.Value{n(0), n(10)}, tc.strict...)
			got, err := apply(t, IsBetweenFunc, tc.value, args...)
			if tc.reason == "" {
				require.NoError(t, err)
				assert.True(t, got.RawEquals(tc.value))
				return
			}
			require.ErrorIs(t, err, attrerr.ErrInvalidValue)
			var aerr *attrerr.Error
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, tc.reason, aerr.Reason)
		})
	}
}

func TestIsBetween_TooManyFlags(t *testing.T) {
	_, err := apply(t, IsBetweenFunc, cty.NumberIntVal(1), cty.NumberIntVal(0), cty.NumberIntVal(2), cty.True, cty.True)
	assert.ErrorContains(t, err, "at most one strict flag")
}

func TestIsNumber(t *testing.T) {
	got, err := apply(t, IsNumberFunc, cty.NumberIntVal(3))
	require.NoError(t, err)
	assert.Equal(t, cty.NumberIntVal(3), got)

	_, err = apply(t, IsNumberFunc, cty.StringVal("3"))
	require.ErrorIs(t, err, attrerr.ErrInvalidValue)
	assert.ErrorContains(t, err, "is not number")
}

func TestIsInteger(t *testing.T) {
	_, err := apply(t, IsIntegerFunc, cty.NumberIntVal(3))
	require.NoError(t, err)

	_, err = apply(t, IsIntegerFunc, cty.NumberFloatVal(3.5))
	require.ErrorIs(t, err, attrerr.ErrInvalidValue)
}

func TestIsNonEmpty(t *testing.T) {
	testCases := []struct {
		name    string
		value   cty.Value
		wantErr bool
	}{
		{name: "string", value: cty.StringVal("x")},
		{name: "empty string", value: cty.StringVal(""), wantErr: true},
		{name: "empty list", value: cty.ListValEmpty(cty.String), wantErr: true},
		{name: "empty tuple", value: cty.EmptyTupleVal, wantErr: true},
		{name: "list", value: cty.ListVal([]cty.Value{cty.True})},
		{name: "number", value: cty.Zero},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := apply(t, IsNonEmptyFunc, tc.value)
			if tc.wantErr {
				require.ErrorIs(t, err, attrerr.ErrInvalidValue)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidatorsRejectNull(t *testing.T) {
	testCases := []struct {
		name   string
		fn     function.Function
		args   []cty.Value
		reason string
	}{
		{name: "is_number", fn: IsNumberFunc, reason: "is not number"},
		{name: "is_integer", fn: IsIntegerFunc, reason: "is not number"},
		{name: "is_between", fn: IsBetweenFunc, args: []cty.Value{cty.Zero, cty.NumberIntVal(100)}, reason: "is not number"},
		{name: "is_non_empty", fn: IsNonEmptyFunc, reason: "is empty"},
	}

	for _, tc := range testCases {
		for _, null := range []cty.Value{cty.NullVal(cty.DynamicPseudoType), cty.NullVal(cty.Number)} {
			t.Run(tc.name+"/"+null.Type().FriendlyName(), func(t *testing.T) {
				_, err := apply(t, tc.fn, null, tc.args...)
				require.ErrorIs(t, err, attrerr.ErrInvalidValue)
				var aerr *attrerr.Error
				require.ErrorAs(t, err, &aerr)
				assert.Equal(t, tc.reason, aerr.Reason)
			})
		}
	}
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	assert.Equal(t, []string{"is_between", "is_integer", "is_non_empty", "is_number"}, r.Functions())
}
