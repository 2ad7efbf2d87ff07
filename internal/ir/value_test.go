package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRValueSealed(t *testing.T) {
	var _ IRValue = IRNull{}
	var _ IRValue = IRString("test")
	var _ IRValue = IRInt(42)
	var _ IRValue = IRBool(true)
	var _ IRValue = IRArray{IRString("a"), IRInt(1)}
	var _ IRValue = IRObject{"key": IRString("value")}
}

func TestIRObjectSortedKeys(t *testing.T) {
	obj := IRObject{
		"zebra":  IRString("z"),
		"apple":  IRString("a"),
		"banana": IRString("b"),
	}
	assert.Equal(t, []string{"apple", "banana", "zebra"}, obj.SortedKeys())
	assert.Empty(t, IRObject{}.SortedKeys())
}

func TestCompareKeysRFC8785(t *testing.T) {
	assert.Equal(t, 0, compareKeysRFC8785("a", "a"))
	assert.Equal(t, -1, compareKeysRFC8785("a", "b"))
	assert.Equal(t, -1, compareKeysRFC8785("a", "ab"), "prefix sorts first")
	assert.Equal(t, -1, compareKeysRFC8785("\U00010000", "\uE000"), "surrogate pair sorts before U+E000")
}

func TestStrings(t *testing.T) {
	assert.Equal(t, IRArray{IRString("b"), IRString("a")}, Strings("b", "a"))

	empty := Strings()
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)
}

func TestStringsOf(t *testing.T) {
	got, ok := StringsOf(Strings("x", "y"))
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, got)

	_, ok = StringsOf(IRArray{IRInt(1)})
	assert.False(t, ok)
	_, ok = StringsOf(IRString("x"))
	assert.False(t, ok)
}

func TestStringMap(t *testing.T) {
	obj := StringMap(map[string]string{"/a.go": "+x"})
	assert.Equal(t, IRObject{"/a.go": IRString("+x")}, obj)
}

func TestMarshalIRValueRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value IRValue
	}{
		{"string", IRString("hello")},
		{"int", IRInt(-7)},
		{"bool", IRBool(true)},
		{"null", IRNull{}},
		{"array", Strings("a", "b")},
		{"object", IRObject{"/src/a.go": IRString("line"), "n": IRInt(2)}},
		{"nested", IRObject{"list": IRArray{IRObject{"k": IRNull{}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalIRValue(tt.value)
			require.NoError(t, err)

			back, err := UnmarshalIRValue(data)
			require.NoError(t, err)
			assert.Equal(t, tt.value, back)
		})
	}
}

func TestIRObjectMarshalJSONKeyOrder(t *testing.T) {
	data, err := json.Marshal(IRObject{"b": IRInt(1), "a": IRInt(2)})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1}`, string(data))
}

func TestUnmarshalRejectsFloats(t *testing.T) {
	_, err := UnmarshalIRValue([]byte(`1.5`))
	require.Error(t, err)

	var obj IRObject
	err = json.Unmarshal([]byte(`{"x": 2.5}`), &obj)
	require.Error(t, err)
}

func TestUnmarshalEmpty(t *testing.T) {
	_, err := UnmarshalIRValue([]byte("  "))
	require.Error(t, err)
}
