package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allTypes() []Type {
	return []Type{
		Any, None, Int, Float, Bool, String,
		&Func{Args: []Type{Int, Int}, Out: Int},
		&Func{Args: nil, Out: None},
		&Record{Name: "P", Fields: []Type{Int, Int}},
		&Struct{Name: "S", Fields: []StructField{{"a", Int}, {"b", Bool}}},
	}
}

func TestCompareAnyWildcard(t *testing.T) {
	for _, ty := range allTypes() {
		assert.True(t, Compare(Any, ty), ty.String())
		assert.True(t, Compare(ty, Any), ty.String())
	}
}

func TestEqualStructural(t *testing.T) {
	for i, a := range allTypes() {
		for j, b := range allTypes() {
			if i == j {
				assert.True(t, Equal(a, b), a.String())
			} else {
				assert.False(t, Equal(a, b), "%s vs %s", a, b)
			}
		}
	}

	// structural, not identity
	assert.True(t, Equal(
		&Func{Args: []Type{Int, Int}, Out: Int},
		&Func{Args: []Type{Int, Int}, Out: Int},
	))
	assert.False(t, Equal(
		&Func{Args: []Type{Int, Int}, Out: Int},
		&Func{Args: []Type{Int, Float}, Out: Int},
	))
	assert.False(t, Equal(
		&Record{Name: "P", Fields: []Type{Int}},
		&Record{Name: "Q", Fields: []Type{Int}},
	))
	assert.False(t, Equal(
		&Struct{Name: "S", Fields: []StructField{{"a", Int}}},
		&Struct{Name: "S", Fields: []StructField{{"b", Int}}},
	))
}

func TestLookup(t *testing.T) {
	require.Equal(t, Int, Lookup("int"))
	require.Equal(t, Float, Lookup("float"))
	require.Equal(t, Bool, Lookup("bool"))
	require.Equal(t, String, Lookup("string"))
	require.Nil(t, Lookup("any"))
	require.Nil(t, Lookup("none"))
	require.Nil(t, Lookup("x"))
}

func TestString(t *testing.T) {
	assert.Equal(t, "func(int, int): int", (&Func{Args: []Type{Int, Int}, Out: Int}).String())
	assert.Equal(t, "record P", (&Record{Name: "P"}).String())
	assert.Equal(t, "struct S", (&Struct{Name: "S"}).String())
}

func TestFieldIndex(t *testing.T) {
	s := &Struct{Name: "S", Fields: []StructField{{"a", Int}, {"b", Bool}}}
	assert.Equal(t, 0, s.FieldIndex("a"))
	assert.Equal(t, 1, s.FieldIndex("b"))
	assert.Equal(t, -1, s.FieldIndex("c"))
}
