package main

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	u "github.com/araddon/gou"
	"github.com/rfielding/des-sct/des"
)

// Report is the outcome of one operation.
type Report struct {
	Operation string
	Verdict   *bool                     // for checks
	Results   []*des.Automaton          // computed automata, if any
	Events    []des.Event               // events the operation singled out
	Disabled  map[des.State][]des.Event // disabled events per supervisor state
}

func verdict(ok bool) *bool { return &ok }

type operation func(c *Config, automata map[string]*des.Automaton, opts []des.Option) (*Report, error)

var operations = map[string]operation{
	"compose":               runCompose,
	"product":               runProduct,
	"trim":                  runTrim,
	"minimize":              runMinimize,
	"controllable":          runControllable,
	"monolithic":            runMonolithic,
	"modular":               runModular,
	"reduced":               runModular,
	"projection":            runProjection,
	"observer":              runObserver,
	"observer-property":     runObserverProperty,
	"current-opacity":       runOpacity,
	"initial-opacity":       runOpacity,
	"initial-final-opacity": runOpacity,
	"kstep-opacity":         runOpacity,
	"diagnosability":        runDiagnosability,
}

// OperationNames lists the supported operations, sorted.
func OperationNames() []string {
	names := make([]string, 0, len(operations))
	for n := range operations {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Run builds the automata of c and runs its operation.
func Run(c *Config, opts ...des.Option) (*Report, error) {
	op, ok := operations[c.Operation]
	if !ok {
		return nil, fmt.Errorf("unknown operation %q, want one of %s", c.Operation, strings.Join(OperationNames(), ", "))
	}
	automata, err := c.Build()
	if err != nil {
		return nil, err
	}
	if c.Minimize {
		opts = append(opts, des.Minimized())
	}
	u.Infof("running %s over %d automata", c.Operation, len(automata))
	r, err := op(c, automata, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Operation, err)
	}
	r.Operation = c.Operation
	return r, nil
}

// operands returns the plants followed by the specifications, or every
// declared automaton when neither list is given.
func (c *Config) operands(automata map[string]*des.Automaton) ([]*des.Automaton, error) {
	names := slices.Concat(c.Plants, c.Specs)
	if len(names) == 0 {
		for _, ac := range c.Automata {
			names = append(names, ac.Name)
		}
	}
	return lookup(automata, names)
}

// target is the automaton analyzed by single-operand operations: the
// named target, else the first declared automaton.
func (c *Config) target(automata map[string]*des.Automaton) (*des.Automaton, error) {
	name := c.Target
	if name == "" {
		if len(c.Automata) == 0 {
			return nil, des.ErrNoAutomata
		}
		name = c.Automata[0].Name
	}
	a, ok := automata[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnknownAutomaton, name)
	}
	return a, nil
}

func (c *Config) plantsAndSpecs(automata map[string]*des.Automaton) (plants, specs []*des.Automaton, err error) {
	if plants, err = lookup(automata, c.Plants); err != nil {
		return nil, nil, err
	}
	if specs, err = lookup(automata, c.Specs); err != nil {
		return nil, nil, err
	}
	return plants, specs, nil
}

func runCompose(c *Config, automata map[string]*des.Automaton, opts []des.Option) (*Report, error) {
	parts, err := c.operands(automata)
	if err != nil {
		return nil, err
	}
	res, err := des.ParallelComposition(parts, opts...)
	if err != nil {
		return nil, err
	}
	return &Report{Results: []*des.Automaton{res}}, nil
}

func runProduct(c *Config, automata map[string]*des.Automaton, opts []des.Option) (*Report, error) {
	parts, err := c.operands(automata)
	if err != nil {
		return nil, err
	}
	res, err := des.Product(parts, opts...)
	if err != nil {
		return nil, err
	}
	return &Report{Results: []*des.Automaton{res}}, nil
}

func runTrim(c *Config, automata map[string]*des.Automaton, _ []des.Option) (*Report, error) {
	a, err := c.target(automata)
	if err != nil {
		return nil, err
	}
	return &Report{Results: []*des.Automaton{a.Trim()}, Verdict: verdict(a.IsNonblocking())}, nil
}

func runMinimize(c *Config, automata map[string]*des.Automaton, _ []des.Option) (*Report, error) {
	a, err := c.target(automata)
	if err != nil {
		return nil, err
	}
	return &Report{Results: []*des.Automaton{a.Minimal()}}, nil
}

// runControllable checks the composed specifications against the
// composed plants.
func runControllable(c *Config, automata map[string]*des.Automaton, opts []des.Option) (*Report, error) {
	plants, specs, err := c.plantsAndSpecs(automata)
	if err != nil {
		return nil, err
	}
	plant, err := des.ParallelComposition(plants, opts...)
	if err != nil {
		return nil, err
	}
	spec, err := des.ParallelComposition(specs, opts...)
	if err != nil {
		return nil, err
	}
	return &Report{
		Verdict:  verdict(spec.IsControllable(plant, opts...)),
		Disabled: spec.DisabledEvents(plant, opts...),
	}, nil
}

func runMonolithic(c *Config, automata map[string]*des.Automaton, opts []des.Option) (*Report, error) {
	plants, specs, err := c.plantsAndSpecs(automata)
	if err != nil {
		return nil, err
	}
	sup, err := des.MonolithicSupervisor(plants, specs, opts...)
	if err != nil {
		return nil, err
	}
	plant, err := des.ParallelComposition(plants, opts...)
	if err != nil {
		return nil, err
	}
	return &Report{Results: []*des.Automaton{sup}, Disabled: sup.DisabledEvents(plant, opts...)}, nil
}

// runModular synthesizes local supervisors and reports whether they are
// jointly nonblocking with the plants.
func runModular(c *Config, automata map[string]*des.Automaton, opts []des.Option) (*Report, error) {
	plants, specs, err := c.plantsAndSpecs(automata)
	if err != nil {
		return nil, err
	}
	synth := des.LocalModularSupervisor
	if c.Operation == "reduced" {
		synth = des.LocalModularReducedSupervisor
	}
	sups, err := synth(plants, specs, opts...)
	if err != nil {
		return nil, err
	}
	ok, err := des.IsNonconflicting(slices.Concat(plants, sups), opts...)
	if err != nil {
		return nil, err
	}
	return &Report{Results: sups, Verdict: verdict(ok)}, nil
}

func runProjection(c *Config, automata map[string]*des.Automaton, opts []des.Option) (*Report, error) {
	a, err := c.target(automata)
	if err != nil {
		return nil, err
	}
	return &Report{Results: []*des.Automaton{a.Projection(eventsByAlias(a, c.Unobservable), opts...)}}, nil
}

func runObserver(c *Config, automata map[string]*des.Automaton, opts []des.Option) (*Report, error) {
	a, err := c.target(automata)
	if err != nil {
		return nil, err
	}
	obs := des.Observer(a, eventsByAlias(a, c.Unobservable), opts...)
	for _, s := range obs.States() {
		u.Debugf("%s stands for %v", s, obs.Members(s))
	}
	return &Report{Results: []*des.Automaton{obs.Automaton}}, nil
}

// runObserverProperty verifies the projection erasing the unobservable
// events; the reported events are those that would have to be observed.
func runObserverProperty(c *Config, automata map[string]*des.Automaton, opts []des.Option) (*Report, error) {
	a, err := c.target(automata)
	if err != nil {
		return nil, err
	}
	erased := eventsByAlias(a, c.Unobservable)
	ok := des.ObserverPropertyVerify(a, erased, opts...)
	r := &Report{Verdict: verdict(ok)}
	if !ok {
		r.Events = des.ObserverPropertySearch(a, erased, opts...)
	}
	return r, nil
}

func runOpacity(c *Config, automata map[string]*des.Automaton, opts []des.Option) (*Report, error) {
	a, err := c.target(automata)
	if err != nil {
		return nil, err
	}
	unobs := eventsByAlias(a, c.Unobservable)
	secret := statesByAlias(a, c.Secret)
	initials := statesByAlias(a, c.Initials)

	var (
		ok  bool
		est *des.Automaton
	)
	switch c.Operation {
	case "current-opacity":
		ok, est = des.CurrentStepOpacity(a, secret, unobs, opts...)
	case "initial-opacity":
		ok, est = des.InitialStateOpacity(a, secret, initials, unobs, opts...)
	case "initial-final-opacity":
		var pairs []des.StatePair
		for _, p := range c.SecretPairs {
			for _, i := range statesByAlias(a, []string{p.Initial}) {
				for _, f := range statesByAlias(a, []string{p.Final}) {
					pairs = append(pairs, des.StatePair{Initial: i, Final: f})
				}
			}
		}
		ok, est = des.InitialFinalStateOpacity(a, pairs, initials, unobs, opts...)
	case "kstep-opacity":
		if ok, est, err = des.KStepsOpacity(a, secret, unobs, c.Steps, opts...); err != nil {
			return nil, err
		}
	}
	return &Report{Results: []*des.Automaton{est}, Verdict: verdict(ok)}, nil
}

func runDiagnosability(c *Config, automata map[string]*des.Automaton, opts []des.Option) (*Report, error) {
	a, err := c.target(automata)
	if err != nil {
		return nil, err
	}
	ok, err := des.IsDiagnosable(a, eventsByAlias(a, c.Unobservable), eventsByAlias(a, c.Faults), opts...)
	if err != nil {
		return nil, err
	}
	return &Report{Verdict: verdict(ok)}, nil
}

// WriteTo prints the report in a human readable form.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s ===\n", r.Operation)
	if r.Verdict != nil {
		fmt.Fprintf(&sb, "Result: %v\n", *r.Verdict)
	}
	if len(r.Events) > 0 {
		fmt.Fprintf(&sb, "Events: %v\n", r.Events)
	}
	if len(r.Disabled) > 0 {
		states := make([]des.State, 0, len(r.Disabled))
		for s := range r.Disabled {
			states = append(states, s)
		}
		sort.Slice(states, func(i, j int) bool { return states[i].Alias() < states[j].Alias() })
		sb.WriteString("Disabled events:\n")
		for _, s := range states {
			fmt.Fprintf(&sb, "  %s: %v\n", s, r.Disabled[s])
		}
	}
	for _, a := range r.Results {
		fmt.Fprintf(&sb, "\n%s", a)
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
