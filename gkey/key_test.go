package gkey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/focusgc/focusgc/gkey"
)

func TestKey_Predicates(t *testing.T) {
	generic := gkey.New("a")
	witness := gkey.NewFileState("b")
	nested := gkey.NewNestedArtifactSet("c")

	assert.False(t, generic.IsWitnessEligible())
	assert.False(t, generic.IsNestedArtifactSet())

	assert.True(t, witness.IsWitnessEligible())
	assert.False(t, witness.IsNestedArtifactSet())

	assert.False(t, nested.IsWitnessEligible())
	assert.True(t, nested.IsNestedArtifactSet())

	assert.Equal(t, gkey.KindGeneric, generic.Kind())
	assert.Equal(t, gkey.KindFileState, witness.Kind())
	assert.Equal(t, gkey.KindNestedArtifactSet, nested.Kind())
}

func TestKey_Less(t *testing.T) {
	a := gkey.New("a")
	b := gkey.New("b")
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func TestKey_Equality(t *testing.T) {
	// Two keys with the same canonical name but different kinds are not
	// equal: kind participates in struct equality even though it doesn't
	// affect ordering.
	plain := gkey.New("x")
	witness := gkey.NewFileState("x")
	assert.NotEqual(t, plain, witness)
	assert.Equal(t, gkey.New("x"), gkey.New("x"))
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "foo/bar", gkey.New("foo/bar").String())
}
