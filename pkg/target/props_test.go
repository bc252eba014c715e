package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "a b", "a b"},
		{"tokens", []string{"a", "", " b "}, "a b"},
		{"any tokens", []any{"a", 1}, "a 1"},
		{"map", map[string]bool{"z": true, "a": true, "off": false}, "a z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassString(tt.in))
		})
	}
}

func TestStyleString(t *testing.T) {
	assert.Equal(t, "color: red;", StyleString("color: red;"))
	assert.Equal(t, "color: red; margin: 0;", StyleString(map[string]string{
		"margin": "0",
		"color":  "red",
	}))
	assert.Equal(t, "", StyleString(nil))
}

func TestEvents(t *testing.T) {
	click := func() {}
	input := func() {}
	events := Events(Props{
		"onClick": click,
		"on":      map[string]any{"Input": input},
		"id":      "x",
	})
	assert.Len(t, events, 2)
	assert.Contains(t, events, "click")
	assert.Contains(t, events, "input")

	assert.True(t, IsEventProp("onclick"))
	assert.False(t, IsEventProp("on"))
	assert.False(t, IsAttribute("onClick"))
	assert.False(t, IsAttribute(KeyTextContent))
	assert.True(t, IsAttribute("href"))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "5", Stringify(5))
	assert.Equal(t, "1.5", Stringify(1.5))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "[1 2]", Stringify([]int{1, 2}))
}
