package layout

import (
	"math"
	"math/rand"

	"github.com/cloudweave/cloudweave/pkg/diagram"
)

// Force simulation tuning. Repulsion follows an inverse-square law between
// all pairs, springs pull linearly along edges, and each step folds the new
// force into a damped velocity. The equilibrium distance of a unit-weight
// edge is (repulsionStrength/springStrength)^(1/3), about 160px here.
const (
	repulsionStrength = 80000.0
	springStrength    = 0.02
	velocityDamping   = 0.8
	forceGain         = 0.2
	scatterRadius     = 120.0
)

// applyForce runs one simulation per sibling group, in the group's local
// coordinate space. Containers participate as rigid bodies of their own
// parent's group; their children are simulated separately inside them, and
// the resize pass afterwards reconciles container sizes. A single seeded
// generator drives every scatter, so identical inputs produce identical
// layouts.
func applyForce(g *diagram.Graph, opts Options) {
	rng := rand.New(rand.NewSource(opts.Seed))
	children := childIndex(g)
	edges := scopeEdges(g)

	scopes := []string{""}
	for i := range g.Nodes {
		if g.Nodes[i].Container {
			scopes = append(scopes, g.Nodes[i].ID)
		}
	}
	for _, scope := range scopes {
		simulateScope(children[scope], edges[scope], rng, opts)
	}
}

// scopedEdge is one diagram edge projected onto the sibling group where its
// endpoints' containment paths diverge.
type scopedEdge struct {
	a, b   string
	weight float64
}

// scopeEdges assigns every edge to exactly one sibling group: the deepest
// container that is a proper ancestor of both endpoints. Edges between a
// container and its own descendant project onto the same sibling twice and
// are dropped, so containment edges never distort the simulation.
func scopeEdges(g *diagram.Graph) map[string][]scopedEdge {
	parent := make(map[string]string, len(g.Nodes))
	for i := range g.Nodes {
		parent[g.Nodes[i].ID] = g.Nodes[i].ParentID
	}

	out := make(map[string][]scopedEdge)
	for _, e := range g.Edges {
		pa := pathToRoot(parent, e.Source)
		pb := pathToRoot(parent, e.Target)
		if pa == nil || pb == nil {
			continue
		}

		bIndex := make(map[string]int, len(pb))
		for j, id := range pb {
			bIndex[id] = j
		}
		for i := 1; i < len(pa); i++ {
			j, ok := bIndex[pa[i]]
			if !ok || j == 0 {
				continue
			}
			scope := pa[i]
			a, b := pa[i-1], pb[j-1]
			if a != b {
				out[scope] = append(out[scope], scopedEdge{a: a, b: b, weight: categoryWeight(e.Category)})
			}
			break
		}
	}
	return out
}

// pathToRoot lists ids from the node up to the synthetic root "". Returns
// nil for ids absent from the graph.
func pathToRoot(parent map[string]string, id string) []string {
	if _, ok := parent[id]; !ok {
		return nil
	}
	path := []string{id}
	cur := id
	for cur != "" && len(path) <= len(parent) {
		p, ok := parent[cur]
		if !ok {
			return nil
		}
		path = append(path, p)
		cur = p
	}
	return path
}

type forceBody struct {
	x, y   float64
	vx, vy float64
	fx, fy float64
}

func simulateScope(nodes []*diagram.Node, edges []scopedEdge, rng *rand.Rand, opts Options) {
	if len(nodes) == 0 {
		return
	}

	bodies := make([]forceBody, len(nodes))
	index := make(map[string]int, len(nodes))
	radius := scatterRadius * math.Sqrt(float64(len(nodes)))
	for i, n := range nodes {
		index[n.ID] = i
		if n.Position.X == 0 && n.Position.Y == 0 {
			bodies[i].x = rng.Float64() * radius
			bodies[i].y = rng.Float64() * radius
		} else {
			// Relayout refines existing arrangements instead of
			// scattering them.
			bodies[i].x = n.Position.X
			bodies[i].y = n.Position.Y
		}
	}

	for it := 0; it < opts.ForceIterations; it++ {
		for i := range bodies {
			bodies[i].fx, bodies[i].fy = 0, 0
		}

		for i := 0; i < len(bodies); i++ {
			for j := i + 1; j < len(bodies); j++ {
				dx := bodies[i].x - bodies[j].x
				dy := bodies[i].y - bodies[j].y
				d2 := dx*dx + dy*dy
				if d2 < 1 {
					// Coincident bodies get a deterministic nudge apart.
					dx, dy = float64(j-i), 1
					d2 = dx*dx + dy*dy
				}
				d := math.Sqrt(d2)
				f := repulsionStrength / d2
				fx, fy := f*dx/d, f*dy/d
				bodies[i].fx += fx
				bodies[i].fy += fy
				bodies[j].fx -= fx
				bodies[j].fy -= fy
			}
		}

		for _, e := range edges {
			i, ok := index[e.a]
			j, ok2 := index[e.b]
			if !ok || !ok2 {
				continue
			}
			dx := bodies[j].x - bodies[i].x
			dy := bodies[j].y - bodies[i].y
			fx := springStrength * e.weight * dx
			fy := springStrength * e.weight * dy
			bodies[i].fx += fx
			bodies[i].fy += fy
			bodies[j].fx -= fx
			bodies[j].fy -= fy
		}

		for i := range bodies {
			b := &bodies[i]
			b.vx = velocityDamping*b.vx + forceGain*b.fx
			b.vy = velocityDamping*b.vy + forceGain*b.fy
			b.x += b.vx
			b.y += b.vy
		}
	}

	// Shift the group so its bounding box starts at the local origin.
	minX, minY := math.Inf(1), math.Inf(1)
	for i := range bodies {
		minX = math.Min(minX, bodies[i].x)
		minY = math.Min(minY, bodies[i].y)
	}
	for i, n := range nodes {
		n.Position = diagram.Point{X: bodies[i].x - minX, Y: bodies[i].y - minY}
	}
}
