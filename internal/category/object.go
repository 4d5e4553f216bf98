// Package category implements the recursion-level tree: nodes that compose
// agents and substrates into higher tiers (Void through Cell), drive them
// recursively, and synthesize level-specific interpretations.
package category

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nvandessel/signloop/internal/agent"
	"github.com/nvandessel/signloop/internal/sign"
	"github.com/nvandessel/signloop/internal/substrate"
)

// tickDecayRate is the fixed per-tick decay applied to every owned agent's
// memory and every node's substrate.
const tickDecayRate = 0.05

// mutationPattern is the fixed pattern stamped on propagated mutation signs.
var mutationPattern = sign.Pattern("111")

// Object is a node in the category tree. It exclusively owns its substrate,
// its agents, and its subobjects; ownership forms a forest, so subtree
// operations never alias mutable state across branches.
//
// Callers must not invoke two mutating operations on the same Object
// concurrently; the recursive operations below provide the only sanctioned
// fan-out.
type Object struct {
	// Level is the node's recursion level.
	Level Level
	// ID identifies the node.
	ID string
	// Substrate is the node's own activation field.
	Substrate *substrate.Substrate
	// Subobjects are the exclusively owned children, in creation order.
	Subobjects []*Object
	// Agents are the exclusively owned agents, in creation order.
	Agents []*agent.Agent
}

// New creates a leaf node with an empty substrate and no children or agents.
func New(level Level, id string) *Object {
	return &Object{
		Level:     level,
		ID:        id,
		Substrate: substrate.New(),
	}
}

// Promote wraps the object as the sole child of a fresh node one level up
// and returns the new parent. The receiver is consumed: callers must treat
// the returned node as the subtree's new root and stop using the receiver
// as a root. Returns nil when the object is already at Cell, the terminal
// level.
func (o *Object) Promote() *Object {
	next, ok := o.Level.Next()
	if !ok {
		return nil
	}
	return &Object{
		Level:      next,
		ID:         fmt.Sprintf("%d-%s", int(next), o.ID),
		Substrate:  substrate.New(),
		Subobjects: []*Object{o},
	}
}

// TickRecursive advances the whole subtree by one step: every child is
// ticked recursively, every owned agent's memory decays, and the node's own
// substrate decays. Each node is visited exactly once. Children and agents
// are processed concurrently; the call blocks until the subtree is done.
func (o *Object) TickRecursive() {
	var g errgroup.Group
	for _, sub := range o.Subobjects {
		g.Go(func() error {
			sub.TickRecursive()
			return nil
		})
	}
	for _, a := range o.Agents {
		g.Go(func() error {
			a.DecayMemory(tickDecayRate)
			return nil
		})
	}
	_ = g.Wait() // branches never return errors

	o.Substrate.Decay(tickDecayRate)
}

// PropagateMutation pushes a mutation message down the subtree: every
// directly owned agent expresses a "mutation:<message>" sign with the fixed
// mutation pattern, and the message is propagated unchanged to every child.
// The recursion index is always 0; the core has no notion of a current
// simulated time.
func (o *Object) PropagateMutation(message string) {
	var g errgroup.Group
	for _, a := range o.Agents {
		g.Go(func() error {
			a.ExpressSymbol("mutation:"+message, mutationPattern, 0)
			return nil
		})
	}
	for _, sub := range o.Subobjects {
		g.Go(func() error {
			sub.PropagateMutation(message)
			return nil
		})
	}
	_ = g.Wait()
}

// AggregateStability sums the stability of every agent trace in the
// subtree. The reduction is associative: per-branch partial sums are
// computed concurrently and folded in child order, so parallel and
// sequential execution agree up to floating-point summation order.
func (o *Object) AggregateStability() float64 {
	partials := make([]float64, len(o.Subobjects))
	var g errgroup.Group
	for i, sub := range o.Subobjects {
		g.Go(func() error {
			partials[i] = sub.AggregateStability()
			return nil
		})
	}
	_ = g.Wait()

	var total float64
	for _, p := range partials {
		total += p
	}
	for _, a := range o.Agents {
		total += a.Memory.StabilitySum()
	}
	return total
}

// AddAgent attaches an agent to this node. The node takes exclusive
// ownership.
func (o *Object) AddAgent(a *agent.Agent) {
	o.Agents = append(o.Agents, a)
}

// AddSubobject attaches a child node. The node takes exclusive ownership;
// the child must not be owned by any other node.
func (o *Object) AddSubobject(sub *Object) {
	o.Subobjects = append(o.Subobjects, sub)
}

// Depth returns the length of the longest ownership chain rooted at this
// node. A leaf has depth 1.
func (o *Object) Depth() int {
	max := 0
	for _, sub := range o.Subobjects {
		if d := sub.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}
