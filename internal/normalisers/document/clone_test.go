package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepClone_JSONLikeTree(t *testing.T) {
	in := map[string]any{
		"a": []any{"x", 1.0, map[string]any{"b": true}},
		"s": []string{"p"},
	}

	out := DeepClone(in).(map[string]any)
	out["a"].([]any)[2].(map[string]any)["b"] = false

	assert.Equal(t, true, in["a"].([]any)[2].(map[string]any)["b"])
	assert.Equal(t, []any{"p"}, out["s"])
}

func TestDeepClone_FallsBackToJSON(t *testing.T) {
	type point struct {
		X int `json:"x"`
	}

	out := DeepClone(map[string]any{"p": point{X: 3}, "n": 2})

	assert.Equal(t, map[string]any{"p": map[string]any{"x": 3.0}, "n": 2.0}, out)
}

func TestDeepClone_FallsBackToShallow(t *testing.T) {
	ch := make(chan int)
	in := map[string]any{"ch": ch, "k": "v"}

	out := DeepClone(in).(map[string]any)

	assert.Equal(t, "v", out["k"])
	assert.Equal(t, ch, out["ch"])
	out["k"] = "changed"
	assert.Equal(t, "v", in["k"])
}

func TestCloner_StagesAreGuarded(t *testing.T) {
	var calls []string
	c := &Cloner{
		Structural: func(any) (any, error) {
			calls = append(calls, "structural")
			panic("boom")
		},
		JSON: func(any) (any, error) {
			calls = append(calls, "json")
			return nil, errors.New("unserialisable")
		},
		Shallow: func(v any) any {
			calls = append(calls, "shallow")
			return "shallow:" + v.(string)
		},
	}

	var out any
	require.NotPanics(t, func() { out = c.Clone("v") })
	assert.Equal(t, "shallow:v", out)
	assert.Equal(t, []string{"structural", "json", "shallow"}, calls)
}

func TestCloner_PanickingShallowReturnsInput(t *testing.T) {
	c := &Cloner{Shallow: func(any) any { panic("boom") }}

	assert.Equal(t, "v", c.Clone("v"))
	assert.Equal(t, "v", (&Cloner{}).Clone("v"))
}

func TestCloner_StopsAtFirstSuccess(t *testing.T) {
	c := &Cloner{
		Structural: func(v any) (any, error) { return "structural", nil },
		JSON: func(any) (any, error) {
			t.Fatal("json stage must not run")
			return nil, nil
		},
	}
	assert.Equal(t, "structural", c.Clone("v"))
}
