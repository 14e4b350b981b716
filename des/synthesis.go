package des

import (
	"fmt"
	"slices"

	u "github.com/araddon/gou"
	"golang.org/x/sync/errgroup"
)

// MonolithicSupervisor computes the supremal controllable and
// nonblocking sublanguage of the specifications with respect to the
// plants (Ramadge-Wonham synthesis).
//
// The plants and specifications are composed on the fly. A composite
// state is bad when the plants can execute an uncontrollable event there
// that the specifications block. Bad states are removed together with
// every state reaching them through uncontrollable events, then the
// states that can no longer reach a marked state; the two steps repeat
// until nothing changes. If the initial state is removed the result is
// the empty supervisor: its initial state alone, unmarked.
func MonolithicSupervisor(plants, specs []*Automaton, opts ...Option) (*Automaton, error) {
	if len(plants) == 0 || len(specs) == 0 {
		return nil, fmt.Errorf("%w: synthesis needs plants and specifications", ErrNoAutomata)
	}
	cfg := newConfig(opts)
	parts := slices.Concat(plants, specs)
	c := newParallelComposer(parts)
	sp := explore(cfg, c.root(), c.expand)
	full := c.automaton("Sup", sp)
	n := sp.size()

	isPlant := func(comp int) bool { return comp < len(plants) }
	var unc []int
	isUnc := make([]bool, len(c.events))
	for ei, e := range c.events {
		if !e.IsControllable() && slices.ContainsFunc(c.owners[ei], func(o owner) bool { return isPlant(o.comp) }) {
			unc = append(unc, ei)
			isUnc[ei] = true
		}
	}

	pred := make([][]int, n)
	uncPred := make([][]int, n)
	for src, es := range sp.edges {
		for _, e := range es {
			pred[e.dst] = append(pred[e.dst], src)
			if isUnc[e.event] {
				uncPred[e.dst] = append(uncPred[e.dst], src)
			}
		}
	}

	dead := make([]bool, n)
	var queue []int
	for i, t := range sp.tuples {
		for _, ei := range unc {
			if c.enabledBy(t, ei, isPlant) && !hasEvent(sp.edges[i], ei) {
				dead[i] = true
				queue = append(queue, i)
				break
			}
		}
	}
	removed := len(queue)

	passes := 0
	for {
		passes++
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, p := range uncPred[v] {
				if !dead[p] {
					dead[p] = true
					removed++
					queue = append(queue, p)
				}
			}
		}

		coacc := coreachAlive(pred, dead, func(i int) bool { return full.states[i].IsMarked() })
		blocking := 0
		for i := range dead {
			if !dead[i] && !coacc[i] {
				dead[i] = true
				queue = append(queue, i)
				blocking++
			}
		}
		removed += blocking
		u.Debugf("synthesis pass %d: %d blocking states removed", passes, blocking)
		if blocking == 0 {
			break
		}
	}
	cfg.count(MetricStatesRemoved, removed)
	cfg.count(MetricSynthesisPasses, passes)

	if dead[0] {
		u.Warnf("supervisor for %s is empty", c.name("||"))
		return build("Sup", []State{full.states[0].ToUnmarked()}, c.events, make([][]edge, 1)), nil
	}
	alive := make([]bool, n)
	for i := range alive {
		alive[i] = !dead[i]
	}
	sup := full.restrict(alive).AccessiblePart()
	u.Debugf("supervisor: %d of %d states kept", sup.Size(), n)
	if cfg.minimize {
		sup = sup.Minimal()
	}
	return sup, nil
}

func hasEvent(edges []edge, ev int) bool {
	_, found := slices.BinarySearchFunc(edges, ev, func(e edge, target int) int {
		return e.event - target
	})
	return found
}

// coreachAlive marks the live states that reach a live marked state
// through live states only.
func coreachAlive(pred [][]int, dead []bool, marked func(int) bool) []bool {
	seen := make([]bool, len(dead))
	var queue []int
	for i := range seen {
		if !dead[i] && marked(i) {
			seen[i] = true
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, p := range pred[v] {
			if !dead[p] && !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
	}
	return seen
}

// localPlants selects the plants sharing at least one event with spec.
func localPlants(plants []*Automaton, spec *Automaton) []*Automaton {
	var out []*Automaton
	for _, p := range plants {
		if slices.ContainsFunc(p.events, spec.HasEvent) {
			out = append(out, p)
		}
	}
	return out
}

// LocalModularSupervisor synthesizes one supervisor per specification,
// each against the composition of only the plants sharing events with
// that specification. The local supervisors are independent; with the
// Parallel option they are computed concurrently. Whether they are
// jointly nonblocking is checked with IsNonconflicting.
func LocalModularSupervisor(plants, specs []*Automaton, opts ...Option) ([]*Automaton, error) {
	return localModular(plants, specs, false, opts)
}

// LocalModularReducedSupervisor is LocalModularSupervisor followed by
// ReduceSupervisor on each local supervisor against its local plant.
func LocalModularReducedSupervisor(plants, specs []*Automaton, opts ...Option) ([]*Automaton, error) {
	return localModular(plants, specs, true, opts)
}

func localModular(plants, specs []*Automaton, reduce bool, opts []Option) ([]*Automaton, error) {
	if len(plants) == 0 || len(specs) == 0 {
		return nil, fmt.Errorf("%w: synthesis needs plants and specifications", ErrNoAutomata)
	}
	cfg := newConfig(opts)
	locals := make([][]*Automaton, len(specs))
	for i, spec := range specs {
		locals[i] = localPlants(plants, spec)
		if len(locals[i]) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrDisjointSpecification, spec.Name())
		}
	}

	// each local synthesis explores its own state space sequentially;
	// the workers are spent across specifications instead
	inner := append(slices.Clone(opts), Parallel(1))
	sups := make([]*Automaton, len(specs))
	var g errgroup.Group
	g.SetLimit(cfg.workers)
	for i, spec := range specs {
		g.Go(func() error {
			sup, err := MonolithicSupervisor(locals[i], []*Automaton{spec}, inner...)
			if err != nil {
				return fmt.Errorf("local supervisor for %s: %w", spec.Name(), err)
			}
			if reduce {
				plant, err := ParallelComposition(locals[i], inner...)
				if err != nil {
					return err
				}
				sup = ReduceSupervisor(plant, sup, inner...)
			}
			sups[i] = sup.Rename(fmt.Sprintf("Sup(%s)", spec.Name()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sups, nil
}
