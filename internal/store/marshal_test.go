package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalRules_Shape(t *testing.T) {
	got, err := marshalRules(tieredItem())
	require.NoError(t, err)

	want := `[{"max_sell_in":-1,"adjust":"SetToMin"},` +
		`{"min_sell_in":0,"max_sell_in":5,"adjust":"Increase","rate":3},` +
		`{"min_sell_in":6,"max_sell_in":10,"adjust":"Increase","rate":2},` +
		`{"min_sell_in":11,"adjust":"Increase","rate":1}]`
	assert.Equal(t, want, got)
}

func TestUnmarshalItem_BadJSON(t *testing.T) {
	_, err := unmarshalItem("x", "Fixed", 0, 0, "{not json")
	assert.Error(t, err)
}

func TestUnmarshalItem_BadType(t *testing.T) {
	_, err := unmarshalItem("x", "Legendary", 0, 0, "[]")
	assert.Error(t, err)
}
