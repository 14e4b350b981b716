package main

import (
	"os"
	"path/filepath"
	"testing"

	u "github.com/araddon/gou"
	"github.com/rfielding/des-sct/des"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	u.SetupLogging("debug")
	u.SetColorOutput()
}

func TestConfig(t *testing.T) {
	var configData = `
log_level : debug
workers : 4
operation : kstep-opacity
steps : 2
target : M
unobservable : [ u ]
secret : [ "1" ]
secret_pairs : [
  { initial : "0", final : "1" }
]

automata : [
  {
    name : M
    initial : "0"
    marked : [ "0" ]
    uncontrollable : [ b ]
    states : [ spare ]
    transitions : [
      { from : "0", event : a, to : "1" },
      { from : "1", event : b, to : "0" }
    ]
  }
]
`
	c, err := LoadConfig(configData)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, "kstep-opacity", c.Operation)
	assert.Equal(t, 2, c.Steps)
	assert.Equal(t, []string{"u"}, c.Unobservable)
	require.Len(t, c.SecretPairs, 1)
	assert.Equal(t, "1", c.SecretPairs[0].Final)
	require.Len(t, c.Automata, 1)
	assert.Len(t, c.Automata[0].Transitions, 2)

	automata, err := c.Build()
	require.NoError(t, err)
	m := automata["M"]
	require.NotNil(t, m)
	assert.Equal(t, 3, m.Size())
	assert.Equal(t, des.NewState("0", des.Marked), m.InitialState())
	assert.Equal(t, []des.Event{des.NewEvent("b", des.Uncontrollable)}, m.UncontrollableEvents())
	assert.True(t, m.HasState(des.NewState("spare", des.Unmarked)))
}

func TestConfigBuildErrors(t *testing.T) {
	c := &Config{Automata: []*AutomatonConfig{{Name: "A"}}}
	_, err := c.Build()
	assert.ErrorIs(t, err, errNoInitial)

	c = &Config{Automata: []*AutomatonConfig{
		{Name: "A", Initial: "x"},
		{Name: "A", Initial: "y"},
	}}
	_, err = c.Build()
	assert.Error(t, err)

	c = &Config{Automata: []*AutomatonConfig{{
		Name:    "N",
		Initial: "x",
		Transitions: []*TransitionConfig{
			{From: "x", Event: "e", To: "y"},
			{From: "x", Event: "e", To: "z"},
		},
	}}}
	_, err = c.Build()
	assert.ErrorIs(t, err, des.ErrNondeterministic)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factory.conf")
	require.NoError(t, os.WriteFile(path, []byte(smallFactoryModel), 0o644))
	c, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"M1", "M2"}, c.Plants)
	assert.Len(t, c.Automata, 3)

	_, err = LoadConfigFromFile(filepath.Join(t.TempDir(), "missing.conf"))
	assert.Error(t, err)
}

func TestAliasLookups(t *testing.T) {
	a := machineAutomaton()
	assert.Equal(t, []des.Event{des.NewEvent("finish", des.Uncontrollable)}, eventsByAlias(a, []string{"finish", "nope"}))
	assert.Equal(t, []des.State{des.NewState("idle", des.Marked)}, statesByAlias(a, []string{"idle"}))

	_, err := lookup(map[string]*des.Automaton{"M": a}, []string{"M", "X"})
	assert.ErrorIs(t, err, errUnknownAutomaton)
}

func TestExamplesLoad(t *testing.T) {
	for _, name := range ExampleNames() {
		c, err := LoadExample(name)
		require.NoError(t, err, name)
		_, err = c.Build()
		require.NoError(t, err, name)
	}
	_, err := LoadExample("nope")
	assert.Error(t, err)
}
