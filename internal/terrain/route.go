package terrain

import (
	"container/heap"
	"fmt"
)

// --- A* route search over ListAccessibleNeighbours ---

type routeNode struct {
	move   MoveData // destination and the cost of the step into it
	g, h   int
	parent *routeNode
	index  int // heap index
}

type routeQueue []*routeNode

func (q routeQueue) Len() int { return len(q) }
func (q routeQueue) Less(i, j int) bool {
	fi, fj := q[i].g+q[i].h, q[j].g+q[j].h
	if fi != fj {
		return fi < fj
	}
	return q[i].h < q[j].h
}
func (q routeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index = i; q[j].index = j }
func (q *routeQueue) Push(x interface{}) { n := x.(*routeNode); n.index = len(*q); *q = append(*q, n) }
func (q *routeQueue) Pop() interface{} {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

// routeHeuristic is the cheapest horizontal cost between two cells. Levels
// are ignored because a single step may drop several of them.
func routeHeuristic(a, b Point) int {
	dx := absInt(a.X - b.X)
	dz := absInt(a.Z - b.Z)
	lo, hi := min(dx, dz), max(dx, dz)
	return DiagonalMoveCost*lo + HorizontalMoveCost*(hi-lo)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// FindRoute returns the cheapest sequence of steps from one cell to another.
// Each MoveData carries the cost of its own step; total is their sum. ok is
// false when the goal cannot be reached.
func (t *Terrain) FindRoute(from, to Point, canFly bool) (route []MoveData, total int, ok bool) {
	t.assertOnTerrain(from.X, from.Y, from.Z)
	t.assertOnTerrain(to.X, to.Y, to.Z)
	if from == to {
		return nil, 0, true
	}

	goal := NewMoveData(to.X, to.Y, to.Z, 0)
	start := &routeNode{move: NewMoveData(from.X, from.Y, from.Z, 0), h: routeHeuristic(from, to)}
	open := &routeQueue{start}
	heap.Init(open)

	closed := make(map[uint32]bool)
	best := map[uint32]*routeNode{start.move.Key(): start}
	var neighbours []MoveData

	for open.Len() > 0 {
		cur := heap.Pop(open).(*routeNode)
		if cur.move.Equal(goal) {
			route = buildRoute(cur)
			return route, cur.g, true
		}
		if closed[cur.move.Key()] {
			continue
		}
		closed[cur.move.Key()] = true

		neighbours = t.ListAccessibleNeighbours(cur.move.X(), cur.move.Y(), cur.move.Z(), canFly, neighbours[:0])
		for _, n := range neighbours {
			if closed[n.Key()] {
				continue
			}
			g := cur.g + n.Cost()
			if prev, seen := best[n.Key()]; seen && g >= prev.g {
				continue
			}
			node := &routeNode{move: n, g: g, h: routeHeuristic(n.Point(), to), parent: cur}
			best[n.Key()] = node
			heap.Push(open, node)
		}
	}
	return nil, 0, false
}

func buildRoute(end *routeNode) []MoveData {
	var steps []MoveData
	for n := end; n.parent != nil; n = n.parent {
		steps = append(steps, n.move)
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}

// Reachable returns every cell reachable from `from` within budget time
// units, keyed by MoveData.Key. Each value carries the cumulative cost of the
// cheapest way there. The start cell is included at cost 0.
func (t *Terrain) Reachable(from Point, canFly bool, budget int) map[uint32]MoveData {
	t.assertOnTerrain(from.X, from.Y, from.Z)
	if budget < 0 || budget > MaxMoveCost {
		panic(fmt.Sprintf("terrain: reach budget %d outside 0..%d", budget, MaxMoveCost))
	}
	start := NewMoveData(from.X, from.Y, from.Z, 0)
	reached := map[uint32]MoveData{start.Key(): start}
	open := &routeQueue{&routeNode{move: start}}
	heap.Init(open)
	var neighbours []MoveData

	for open.Len() > 0 {
		cur := heap.Pop(open).(*routeNode)
		if known := reached[cur.move.Key()]; known.Cost() < cur.g {
			continue
		}
		neighbours = t.ListAccessibleNeighbours(cur.move.X(), cur.move.Y(), cur.move.Z(), canFly, neighbours[:0])
		for _, n := range neighbours {
			g := cur.g + n.Cost()
			if g > budget {
				continue
			}
			if known, seen := reached[n.Key()]; seen && known.Cost() <= g {
				continue
			}
			reached[n.Key()] = n.WithCost(g)
			heap.Push(open, &routeNode{move: n, g: g})
		}
	}
	return reached
}
