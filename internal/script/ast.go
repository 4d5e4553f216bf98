// Package script implements the block-structured narrative scripting
// language: an indentation-sensitive DSL with macros, loops, and
// conditionals that drives agents through the sign cycle.
package script

// Block is a top-level script construct.
type Block interface {
	block()
}

// AtTau pins the runner's recursion index before executing its actions.
type AtTau struct {
	Tau     uint64
	Actions []Action
}

// Repeat executes its actions a fixed number of times.
type Repeat struct {
	Times   int
	Actions []Action
}

// While executes its actions as long as the condition holds, subject to the
// runner's iteration cap.
type While struct {
	Cond    string
	Actions []Action
}

// Parallel groups actions whose effects are order-independent. The runner
// executes them on a single goroutine; the grouping documents intent, it
// does not change semantics.
type Parallel struct {
	Actions []Action
}

// MacroDef declares a named, parameterized action sequence. Macro bodies are
// registered in a first pass and executed only when called.
type MacroDef struct {
	Name   string
	Params []string
	Body   []Action
}

func (AtTau) block()    {}
func (Repeat) block()   {}
func (While) block()    {}
func (Parallel) block() {}
func (MacroDef) block() {}

// Action is a single script step.
type Action interface {
	action()
}

// Conditional executes its actions only when the condition holds.
type Conditional struct {
	Cond    string
	Actions []Action
}

// CreateAgent registers a named agent with the given memory capacity and
// coherence threshold.
type CreateAgent struct {
	Name               string
	MemoryCapacity     int
	CoherenceThreshold float64
}

// MacroCall invokes a registered macro with arguments bound to its
// parameters for the duration of the call.
type MacroCall struct {
	Name string
	Args []string
}

// Assign sets a script variable; `$name` references expand to its value.
type Assign struct {
	Name  string
	Value string
}

// Say makes an agent express a token bound to a pattern at the current
// recursion index.
type Say struct {
	Agent   string
	Token   string
	Pattern string
}

// Interpret makes an agent interpret its current binding for a token.
type Interpret struct {
	Agent string
	Token string
}

// Project makes an agent project its current binding for a token into the
// run's shared substrate.
type Project struct {
	Agent string
	Token string
}

// Tick advances the recursion index by N, decaying every agent's memory and
// the shared substrate once per step.
type Tick struct {
	N int
}

// Assert evaluates a condition; failures are collected and reported when
// the run completes.
type Assert struct {
	Cond string
}

func (Conditional) action() {}
func (CreateAgent) action() {}
func (MacroCall) action()   {}
func (Assign) action()      {}
func (Say) action()         {}
func (Interpret) action()   {}
func (Project) action()     {}
func (Tick) action()        {}
func (Assert) action()      {}
