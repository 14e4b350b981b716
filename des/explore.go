package des

import (
	"encoding/binary"

	u "github.com/araddon/gou"
	"golang.org/x/sync/errgroup"
)

// successor is one outgoing move of a composite state: the event index
// in the caller's event table and the target tuple.
type successor struct {
	event  int
	target []int
}

// expandFunc computes the moves of one composite state. It must not
// mutate its argument or any shared data, because frontiers may be
// expanded by several goroutines at once.
type expandFunc func(tuple []int) []successor

// stateSpace is the reachable part of an on-the-fly construction. Tuple
// i is composite state i; tuple 0 is the root. Edges are ordered as the
// expansion produced them.
type stateSpace struct {
	tuples [][]int
	edges  [][]edge
}

func (sp *stateSpace) size() int { return len(sp.tuples) }

// tupleKey encodes a tuple as a map key: four bytes per component.
func tupleKey(t []int) string {
	buf := make([]byte, 4*len(t))
	for i, v := range t {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(int32(v)))
	}
	return string(buf)
}

// explore builds the state space reachable from root breadth first, one
// frontier at a time. Expansion of a frontier is fanned out over the
// configured workers; the results are merged in frontier order, so state
// numbering is the same for any number of workers.
func explore(cfg *config, root []int, expand expandFunc) *stateSpace {
	sp := &stateSpace{}
	index := make(map[string]int)
	add := func(t []int) (int, bool) {
		k := tupleKey(t)
		if i, ok := index[k]; ok {
			return i, false
		}
		i := len(sp.tuples)
		index[k] = i
		sp.tuples = append(sp.tuples, t)
		sp.edges = append(sp.edges, nil)
		return i, true
	}

	add(root)
	frontier := []int{0}
	levels := 0
	for len(frontier) > 0 {
		levels++
		moves := expandFrontier(cfg, sp.tuples, frontier, expand)
		var next []int
		for fi, src := range frontier {
			for _, m := range moves[fi] {
				dst, fresh := add(m.target)
				if fresh {
					next = append(next, dst)
				}
				sp.edges[src] = append(sp.edges[src], edge{event: m.event, dst: dst})
			}
		}
		frontier = next
	}

	transitions := 0
	for _, es := range sp.edges {
		transitions += len(es)
	}
	cfg.count(MetricStatesExplored, sp.size())
	cfg.count(MetricTransitionsExplored, transitions)
	cfg.count(MetricFrontierLevels, levels)
	u.Debugf("explored %d states, %d transitions in %d levels", sp.size(), transitions, levels)
	return sp
}

// minParallelFrontier is the frontier size below which fanning out costs
// more than it saves.
const minParallelFrontier = 64

func expandFrontier(cfg *config, tuples [][]int, frontier []int, expand expandFunc) [][]successor {
	moves := make([][]successor, len(frontier))
	if cfg.workers <= 1 || len(frontier) < minParallelFrontier {
		for i, s := range frontier {
			moves[i] = expand(tuples[s])
		}
		return moves
	}

	chunk := (len(frontier) + cfg.workers - 1) / cfg.workers
	var g errgroup.Group
	g.SetLimit(cfg.workers)
	for lo := 0; lo < len(frontier); lo += chunk {
		hi := min(lo+chunk, len(frontier))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				moves[i] = expand(tuples[frontier[i]])
			}
			return nil
		})
	}
	// expand cannot fail; Wait only joins the workers.
	_ = g.Wait()
	return moves
}
