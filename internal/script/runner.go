package script

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nvandessel/signloop/internal/agent"
	"github.com/nvandessel/signloop/internal/config"
	"github.com/nvandessel/signloop/internal/logging"
	"github.com/nvandessel/signloop/internal/sign"
	"github.com/nvandessel/signloop/internal/substrate"
)

// macroEntry is a registered macro body.
type macroEntry struct {
	params []string
	body   []Action
}

// Runner executes narrative scripts against real agents. It maintains the
// name→agent registry on behalf of the core (per the engine's boundary
// contract), a shared substrate projections land in, and the current
// recursion index.
//
// A Runner is single-run state; create a fresh one per script.
type Runner struct {
	cfg    config.SimulationConfig
	log    *slog.Logger
	events *logging.EventLogger
	runID  string

	vars      map[string]string
	macros    map[string]macroEntry
	agents    map[string]*agent.Agent
	substrate *substrate.Substrate
	tau       uint64

	failures []string
}

// NewRunner creates a runner with an empty registry. logger must be
// non-nil; events may be nil (event logging disabled).
func NewRunner(cfg config.SimulationConfig, logger *slog.Logger, events *logging.EventLogger) *Runner {
	return &Runner{
		cfg:       cfg,
		log:       logger,
		events:    events,
		runID:     uuid.NewString(),
		vars:      make(map[string]string),
		macros:    make(map[string]macroEntry),
		agents:    make(map[string]*agent.Agent),
		substrate: substrate.New(),
	}
}

// RunID returns the unique identifier of this run, stamped on every event.
func (r *Runner) RunID() string { return r.runID }

// Tau returns the current recursion index.
func (r *Runner) Tau() uint64 { return r.tau }

// Agent returns the named agent, or nil if the script never touched it.
func (r *Runner) Agent(name string) *agent.Agent { return r.agents[name] }

// Substrate returns the run's shared substrate.
func (r *Runner) Substrate() *substrate.Substrate { return r.substrate }

// Run executes the script. Macros are registered in a first pass, then the
// remaining blocks execute in order. Script-level failures (failed asserts,
// bad macro calls) are collected and returned as a single error after the
// whole script has run; engine-level no-ops (failed interpretation,
// rejected admission) are not failures.
func (r *Runner) Run(blocks []Block) error {
	for _, b := range blocks {
		if def, ok := b.(MacroDef); ok {
			r.macros[def.Name] = macroEntry{params: def.Params, body: def.Body}
		}
	}
	for _, b := range blocks {
		if _, ok := b.(MacroDef); ok {
			continue
		}
		r.runBlock(b)
	}

	if len(r.failures) > 0 {
		return fmt.Errorf("script failed %d check(s):\n  %s",
			len(r.failures), strings.Join(r.failures, "\n  "))
	}
	return nil
}

func (r *Runner) runBlock(b Block) {
	switch blk := b.(type) {
	case AtTau:
		r.tau = blk.Tau
		r.log.Debug("entering block", "run", r.runID, "tau", blk.Tau)
		r.runActions(blk.Actions)
	case Repeat:
		for i := 0; i < blk.Times; i++ {
			r.log.Debug("repeat iteration", "run", r.runID, "iteration", i+1, "of", blk.Times)
			r.runActions(blk.Actions)
		}
	case While:
		count := 0
		for r.evalCond(blk.Cond) {
			r.runActions(blk.Actions)
			count++
			if count >= r.cfg.WhileCap {
				r.failf("while %q exceeded the %d-iteration cap", blk.Cond, r.cfg.WhileCap)
				break
			}
		}
	case Parallel:
		// Actions in a parallel block are declared order-independent, but
		// the registry is unsynchronized, so they run on one goroutine.
		r.runActions(blk.Actions)
	}
}

func (r *Runner) runActions(actions []Action) {
	for _, a := range actions {
		r.runAction(a)
	}
}

func (r *Runner) runAction(a Action) {
	switch act := a.(type) {
	case Conditional:
		if r.evalCond(act.Cond) {
			r.runActions(act.Actions)
		} else {
			r.log.Debug("condition failed", "run", r.runID, "cond", act.Cond)
		}

	case CreateAgent:
		r.agents[act.Name] = agent.New(act.Name, act.MemoryCapacity, act.CoherenceThreshold)
		r.logEvent("create", "agent", act.Name,
			"mem", act.MemoryCapacity, "coh", act.CoherenceThreshold)

	case Assign:
		value := r.expand(act.Value)
		r.vars[act.Name] = value
		r.log.Debug("set variable", "run", r.runID, "name", act.Name, "value", value)

	case Say:
		token := r.expand(act.Token)
		pattern := sign.Pattern(r.expand(act.Pattern))
		ag := r.getOrCreateAgent(act.Agent)
		ag.ExpressSymbol(token, pattern, r.tau)
		r.logEvent("say", "agent", act.Agent, "token", token, "pattern", string(pattern), "tau", r.tau)

	case Interpret:
		token := r.expand(act.Token)
		ag := r.getOrCreateAgent(act.Agent)
		pattern, bound := ag.SymbolTable[token]
		if !bound {
			// Not a failure: interpreting an unexpressed sign is a no-op.
			r.log.Debug("interpret of unbound token", "run", r.runID, "agent", act.Agent, "token", token)
			return
		}
		m := ag.InterpretSymbol(sign.NewSymbol(token, pattern), r.tau)
		if m != nil {
			r.logEvent("interpret", "agent", act.Agent, "token", token, "meaning", m.Description)
		}

	case Project:
		token := r.expand(act.Token)
		ag := r.getOrCreateAgent(act.Agent)
		pattern, bound := ag.SymbolTable[token]
		if !bound {
			r.log.Debug("project of unbound token", "run", r.runID, "agent", act.Agent, "token", token)
			return
		}
		ag.ProjectSymbol(sign.NewSymbol(token, pattern), r.substrate)
		r.logEvent("project", "agent", act.Agent, "token", token)

	case Tick:
		for i := 0; i < act.N; i++ {
			for _, ag := range r.agents {
				ag.DecayMemory(r.cfg.TickDecayRate)
			}
			r.substrate.Decay(r.cfg.TickDecayRate)
			r.tau++
		}
		r.logEvent("tick", "steps", act.N, "tau", r.tau)

	case Assert:
		if !r.evalCond(act.Cond) {
			r.failf("assert %q failed at τ=%d", act.Cond, r.tau)
		}

	case MacroCall:
		r.callMacro(act)
	}
}

func (r *Runner) callMacro(call MacroCall) {
	m, ok := r.macros[call.Name]
	if !ok {
		r.failf("macro %q not defined", call.Name)
		return
	}
	if len(m.params) != len(call.Args) {
		r.failf("macro %q expects %d argument(s), got %d", call.Name, len(m.params), len(call.Args))
		return
	}

	// Bind arguments as shadowing variables for the duration of the call.
	saved := make(map[string]string, len(r.vars))
	for k, v := range r.vars {
		saved[k] = v
	}
	for i, p := range m.params {
		r.vars[p] = r.expand(call.Args[i])
	}
	r.runActions(m.body)
	r.vars = saved
}

// getOrCreateAgent returns the named agent, creating it with the configured
// defaults if the script never declared it.
func (r *Runner) getOrCreateAgent(name string) *agent.Agent {
	if ag, ok := r.agents[name]; ok {
		return ag
	}
	ag := agent.New(name, r.cfg.MemoryCapacity, r.cfg.CoherenceThreshold)
	r.agents[name] = ag
	r.log.Debug("implicitly created agent", "run", r.runID, "agent", name)
	return ag
}

// evalCond evaluates a script condition. Unrecognized conditions are
// recorded as failures and evaluate to false.
//
// Supported forms:
//
//	always
//	<agent> knows <token>
//	<agent> memory contains <token>
//	<agent> attractor <window>
func (r *Runner) evalCond(cond string) bool {
	cond = r.expand(cond)
	if cond == "always" {
		return true
	}

	fields := strings.Fields(cond)
	if len(fields) == 3 && fields[1] == "knows" {
		ag := r.agents[fields[0]]
		if ag == nil {
			return false
		}
		_, bound := ag.SymbolTable[fields[2]]
		return bound
	}
	if len(fields) == 4 && fields[1] == "memory" && fields[2] == "contains" {
		ag := r.agents[fields[0]]
		if ag == nil {
			return false
		}
		for _, tr := range ag.Memory.Traces() {
			if tr.Symbol.Token == fields[3] {
				return true
			}
		}
		return false
	}
	if len(fields) == 3 && fields[1] == "attractor" {
		ag := r.agents[fields[0]]
		if ag == nil {
			return false
		}
		var window int
		if _, err := fmt.Sscanf(fields[2], "%d", &window); err != nil {
			r.failf("bad attractor window in condition %q", cond)
			return false
		}
		return ag.IsAttractorState(window)
	}

	r.failf("condition %q not recognized", cond)
	return false
}

// expand replaces $name references with script variable values. Unknown
// references are left intact.
func (r *Runner) expand(text string) string {
	if !strings.ContainsRune(text, '$') {
		return text
	}
	var out strings.Builder
	for i := 0; i < len(text); {
		if text[i] != '$' {
			out.WriteByte(text[i])
			i++
			continue
		}
		j := i + 1
		for j < len(text) && (isWordByte(text[j])) {
			j++
		}
		name := text[i+1 : j]
		if v, ok := r.vars[name]; ok {
			out.WriteString(v)
		} else {
			out.WriteString(text[i:j])
		}
		i = j
	}
	return out.String()
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9')
}

func (r *Runner) failf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.failures = append(r.failures, msg)
	r.log.Warn("script check failed", "run", r.runID, "reason", msg)
}

// logEvent records an action on the structured event log (nil-safe) and at
// trace level on the operational logger.
func (r *Runner) logEvent(action string, kv ...any) {
	r.log.Log(context.Background(), logging.LevelTrace, "script action", append([]any{"run", r.runID, "action", action}, kv...)...)
	if r.events == nil {
		return
	}
	event := map[string]any{"run": r.runID, "action": action}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			event[k] = kv[i+1]
		}
	}
	r.events.Log(event)
}
