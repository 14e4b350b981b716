package main

import (
	"errors"
	"fmt"
	"os"

	u "github.com/araddon/gou"
	"github.com/lytics/confl"
	"github.com/rfielding/des-sct/des"
)

var (
	errUnknownAutomaton = errors.New("unknown automaton")
	errNoInitial        = errors.New("automaton has no initial state")
)

// Config is a model file: the automata plus the operation to run on them.
type Config struct {
	LogLevel     string             `json:"log_level"`    // [debug,info,warn,error]
	Workers      int                `json:"workers"`      // exploration workers, <= 0 means one per cpu
	Operation    string             `json:"operation"`    // see operations
	Minimize     bool               `json:"minimize"`     // minimize synthesized supervisors
	Plants       []string           `json:"plants"`       // names of plant automata
	Specs        []string           `json:"specs"`        // names of specification automata
	Target       string             `json:"target"`       // automaton analyzed by single-operand operations
	Unobservable []string           `json:"unobservable"` // event aliases the observer cannot see
	Faults       []string           `json:"faults"`       // fault event aliases
	Secret       []string           `json:"secret"`       // secret state aliases
	SecretPairs  []*PairConfig      `json:"secret_pairs"` // secret (initial, final) pairs
	Initials     []string           `json:"initials"`     // candidate initial states, empty means all
	Steps        int                `json:"steps"`        // K for kstep-opacity
	Automata     []*AutomatonConfig `json:"automata"`
}

type AutomatonConfig struct {
	Name           string              `json:"name"`
	Initial        string              `json:"initial"`
	Marked         []string            `json:"marked"`
	Uncontrollable []string            `json:"uncontrollable"`
	States         []string            `json:"states"` // isolated states
	Transitions    []*TransitionConfig `json:"transitions"`
}

type TransitionConfig struct {
	From  string `json:"from"`
	Event string `json:"event"`
	To    string `json:"to"`
}

type PairConfig struct {
	Initial string `json:"initial"`
	Final   string `json:"final"`
}

func (m *AutomatonConfig) String() string {
	return fmt.Sprintf(`<automaton name="%s" initial="%s" transitions=%d />`, m.Name, m.Initial, len(m.Transitions))
}

// LoadConfigFromFile reads a confl model file.
func LoadConfigFromFile(filename string) (*Config, error) {
	confBytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return LoadConfig(string(confBytes))
}

func LoadConfig(conf string) (*Config, error) {
	var c Config
	if _, err := confl.Decode(conf, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Build turns every automaton declaration into a des.Automaton, keyed by
// name. Declarations must be deterministic.
func (c *Config) Build() (map[string]*des.Automaton, error) {
	out := make(map[string]*des.Automaton, len(c.Automata))
	for _, ac := range c.Automata {
		if _, dup := out[ac.Name]; dup {
			return nil, fmt.Errorf("automaton %q declared twice", ac.Name)
		}
		a, err := ac.Build()
		if err != nil {
			return nil, err
		}
		out[ac.Name] = a
	}
	return out, nil
}

func (m *AutomatonConfig) Build() (*des.Automaton, error) {
	if m.Initial == "" {
		return nil, fmt.Errorf("%s: %w", m.Name, errNoInitial)
	}
	marked := make(map[string]bool, len(m.Marked))
	for _, s := range m.Marked {
		marked[s] = true
	}
	uncontrollable := make(map[string]bool, len(m.Uncontrollable))
	for _, e := range m.Uncontrollable {
		uncontrollable[e] = true
	}
	state := func(alias string) des.State {
		if marked[alias] {
			return des.NewState(alias, des.Marked)
		}
		return des.NewState(alias, des.Unmarked)
	}
	event := func(alias string) des.Event {
		if uncontrollable[alias] {
			return des.NewEvent(alias, des.Uncontrollable)
		}
		return des.NewEvent(alias, des.Controllable)
	}

	transitions := make([]des.Transition, 0, len(m.Transitions))
	for _, t := range m.Transitions {
		transitions = append(transitions, des.NewTransition(state(t.From), event(t.Event), state(t.To)))
	}
	var extra []des.State
	for _, s := range m.States {
		extra = append(extra, state(s))
	}
	a := des.New(m.Name, state(m.Initial), transitions, des.WithStates(extra...))
	if err := a.Validate(); err != nil {
		return nil, err
	}
	u.Debugf("built %v: %d states", m, a.Size())
	return a, nil
}

// lookup resolves automaton names in declaration order.
func lookup(automata map[string]*des.Automaton, names []string) ([]*des.Automaton, error) {
	out := make([]*des.Automaton, 0, len(names))
	for _, n := range names {
		a, ok := automata[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q", errUnknownAutomaton, n)
		}
		out = append(out, a)
	}
	return out, nil
}

// eventsByAlias picks the events of a's alphabet with the given aliases,
// whatever their controllability.
func eventsByAlias(a *des.Automaton, aliases []string) []des.Event {
	want := make(map[string]bool, len(aliases))
	for _, s := range aliases {
		want[s] = true
	}
	var out []des.Event
	for _, e := range a.Events() {
		if want[e.Alias()] {
			out = append(out, e)
		}
	}
	return out
}

// statesByAlias picks the states of a with the given aliases, whatever
// their marking.
func statesByAlias(a *des.Automaton, aliases []string) []des.State {
	want := make(map[string]bool, len(aliases))
	for _, s := range aliases {
		want[s] = true
	}
	var out []des.State
	for _, s := range a.States() {
		if want[s.Alias()] {
			out = append(out, s)
		}
	}
	return out
}
