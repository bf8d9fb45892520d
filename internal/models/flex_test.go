package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplysift/supplysift/internal/models"
)

type flexWrapper struct {
	Days models.FlexInt `json:"days"`
}

func TestFlexIntUnmarshalNumber(t *testing.T) {
	var w flexWrapper
	require.NoError(t, json.Unmarshal([]byte(`{"days": 10}`), &w))

	assert.True(t, w.Days.Defined())
	assert.False(t, w.Days.IsZero())

	n, err := w.Days.Int()
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, "10", w.Days.String())
}

func TestFlexIntUnmarshalString(t *testing.T) {
	var w flexWrapper
	require.NoError(t, json.Unmarshal([]byte(`{"days": " 7 "}`), &w))

	n, err := w.Days.Int()
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestFlexIntUnmarshalNull(t *testing.T) {
	var w flexWrapper
	require.NoError(t, json.Unmarshal([]byte(`{"days": null}`), &w))

	assert.True(t, w.Days.Defined())
	assert.True(t, w.Days.IsZero())

	_, err := w.Days.Int()
	assert.Error(t, err)
}

func TestFlexIntAbsent(t *testing.T) {
	var w flexWrapper
	require.NoError(t, json.Unmarshal([]byte(`{}`), &w))

	assert.False(t, w.Days.Defined())
	assert.True(t, w.Days.IsZero())

	_, err := w.Days.Int()
	assert.Error(t, err)
}

func TestFlexIntStringZeroIsPresent(t *testing.T) {
	// The string "0" is a present value; the number 0 is not.
	var fromString, fromNumber flexWrapper
	require.NoError(t, json.Unmarshal([]byte(`{"days": "0"}`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`{"days": 0}`), &fromNumber))

	assert.False(t, fromString.Days.IsZero())
	assert.True(t, fromNumber.Days.IsZero())
}

func TestFlexIntNonNumericString(t *testing.T) {
	var w flexWrapper
	require.NoError(t, json.Unmarshal([]byte(`{"days": "abc"}`), &w))

	assert.False(t, w.Days.IsZero())
	_, err := w.Days.Int()
	assert.Error(t, err)
}

func TestFlexIntNumberTruncates(t *testing.T) {
	var w flexWrapper
	require.NoError(t, json.Unmarshal([]byte(`{"days": 12.9}`), &w))

	n, err := w.Days.Int()
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestFlexIntMarshal(t *testing.T) {
	out, err := json.Marshal(flexWrapper{Days: models.FlexFromInt(5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"days": 5}`, string(out))

	out, err = json.Marshal(flexWrapper{Days: models.FlexFromString("tbd")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"days": "tbd"}`, string(out))

	// Absent serializes as null; the record shape always keeps the key.
	out, err = json.Marshal(flexWrapper{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"days": null}`, string(out))
}
