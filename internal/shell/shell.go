// Package shell implements the interactive command shell: a line-oriented
// surface over category objects and agents, with named patterns, symbolic
// variables, and user macros. Input comes from any io.Reader so the shell
// is drivable from tests as well as a terminal.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nvandessel/signloop/internal/agent"
	"github.com/nvandessel/signloop/internal/category"
	"github.com/nvandessel/signloop/internal/config"
	"github.com/nvandessel/signloop/internal/sign"
	"github.com/nvandessel/signloop/internal/visualization"
)

// Shell holds the session state: registered category objects, standalone
// agents, the three lookup tables, and the session clock.
type Shell struct {
	cfg config.SimulationConfig
	log *slog.Logger
	out io.Writer

	categories map[string]*category.Object
	agents     map[string]*agent.Agent
	patterns   *PatternTable
	vars       *VariableTable
	macros     *MacroTable

	tau uint64
}

// New creates an empty shell session writing responses to out.
func New(cfg config.SimulationConfig, logger *slog.Logger, out io.Writer) *Shell {
	return &Shell{
		cfg:        cfg,
		log:        logger,
		out:        out,
		categories: make(map[string]*category.Object),
		agents:     make(map[string]*agent.Agent),
		patterns:   NewPatternTable(),
		vars:       NewVariableTable(),
		macros:     NewMacroTable(),
	}
}

// Tau returns the session clock, advanced by the tick command.
func (s *Shell) Tau() uint64 { return s.tau }

// Object returns a registered category object by id.
func (s *Shell) Object(id string) (*category.Object, bool) {
	o, ok := s.categories[id]
	return o, ok
}

// Agent returns a registered agent by id.
func (s *Shell) Agent(id string) (*agent.Agent, bool) {
	a, ok := s.agents[id]
	return a, ok
}

// Run reads commands line by line until EOF or quit.
func (s *Shell) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		quit, err := s.Execute(sc.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return sc.Err()
}

// Execute runs one input line. It reports whether the session should end.
func (s *Shell) Execute(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	line = s.patterns.Expand(line)

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]
	for i, a := range args {
		args[i] = s.vars.ExpandToken(a)
	}
	s.log.Debug("shell command", "cmd", cmd, "args", args)

	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		s.printHelp()
	case "create":
		err = s.handleCreate(args)
	case "agent":
		err = s.handleAgent(args)
	case "promote":
		err = s.handlePromote(args)
	case "tick":
		err = s.handleTick(args)
	case "mutate":
		err = s.handleMutate(args)
	case "aggregate":
		err = s.handleAggregate(args)
	case "interpret":
		s.handleInterpret(args)
	case "show":
		err = s.handleRender(args, visualization.RenderTree)
	case "dot":
		err = s.handleRender(args, visualization.RenderDOT)
	case "say":
		err = s.handleSay(args)
	case "hear":
		err = s.handleHear(args)
	case "attractor":
		err = s.handleSymmetry(args, "attractor")
	case "differentiation":
		err = s.handleSymmetry(args, "differentiation")
	case "pattern":
		err = s.handlePattern(args)
	case "let":
		err = s.handleLet(args)
	case "macro":
		err = s.handleMacroDef(line)
	default:
		if mac, ok := s.macros.Get(cmd); ok {
			return s.runMacro(cmd, mac, args)
		}
		err = fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return false, err
}

func (s *Shell) handleCreate(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: create <level> <id>")
	}
	level, ok := category.ParseLevel(args[0])
	if !ok {
		return fmt.Errorf("unknown level %q", args[0])
	}
	id := args[1]
	if _, exists := s.categories[id]; exists {
		return fmt.Errorf("category object %q already exists", id)
	}
	s.categories[id] = category.New(level, id)
	fmt.Fprintf(s.out, "Created %s %s\n", level, id)
	return nil
}

// handleAgent creates an agent, optionally attaching it to a category object.
func (s *Shell) handleAgent(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: agent <id> [object]")
	}
	id := args[0]
	if _, exists := s.agents[id]; exists {
		return fmt.Errorf("agent %q already exists", id)
	}
	a := agent.New(id, s.cfg.MemoryCapacity, s.cfg.CoherenceThreshold)
	s.agents[id] = a
	if len(args) == 2 {
		obj, ok := s.categories[args[1]]
		if !ok {
			return fmt.Errorf("category object %q not found", args[1])
		}
		obj.AddAgent(a)
		fmt.Fprintf(s.out, "Created agent %s in %s\n", id, args[1])
		return nil
	}
	fmt.Fprintf(s.out, "Created agent %s\n", id)
	return nil
}

func (s *Shell) handlePromote(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: promote <id>")
	}
	obj, ok := s.categories[args[0]]
	if !ok {
		return fmt.Errorf("category object %q not found", args[0])
	}
	promoted := obj.Promote()
	if promoted == nil {
		fmt.Fprintf(s.out, "%s is already at the terminal level %s\n", obj.ID, obj.Level)
		return nil
	}
	// The promoted root owns the old object as a child now; dropping the
	// old id keeps tick from driving the subtree twice.
	delete(s.categories, obj.ID)
	s.categories[promoted.ID] = promoted
	fmt.Fprintf(s.out, "Promoted %s to %s %s\n", obj.ID, promoted.Level, promoted.ID)
	return nil
}

// handleTick advances the session clock, decaying one object or everything.
func (s *Shell) handleTick(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: tick [id]")
	}
	s.tau++
	if len(args) == 1 {
		obj, ok := s.categories[args[0]]
		if !ok {
			return fmt.Errorf("category object %q not found", args[0])
		}
		obj.TickRecursive()
		fmt.Fprintf(s.out, "Ticked %s (τ=%d)\n", obj.ID, s.tau)
		return nil
	}
	for _, obj := range s.categories {
		obj.TickRecursive()
	}
	for _, a := range s.agents {
		a.DecayMemory(s.cfg.TickDecayRate)
	}
	fmt.Fprintf(s.out, "Ticked all (τ=%d)\n", s.tau)
	return nil
}

func (s *Shell) handleMutate(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: mutate <id> <message...>")
	}
	obj, ok := s.categories[args[0]]
	if !ok {
		return fmt.Errorf("category object %q not found", args[0])
	}
	message := strings.Join(args[1:], " ")
	obj.PropagateMutation(message)
	fmt.Fprintf(s.out, "Propagated mutation %q through %s\n", message, obj.ID)
	return nil
}

func (s *Shell) handleAggregate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: aggregate <id>")
	}
	obj, ok := s.categories[args[0]]
	if !ok {
		return fmt.Errorf("category object %q not found", args[0])
	}
	fmt.Fprintf(s.out, "Aggregate stability of %s = %.4f\n", obj.ID, obj.AggregateStability())
	return nil
}

func (s *Shell) handleInterpret(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: interpret <id>")
		return
	}
	id := args[0]
	obj, ok := s.categories[id]
	if !ok {
		fmt.Fprintf(s.out, "Category object '%s' not found.\n", id)
		return
	}
	if interp := obj.Interpret(); interp != nil {
		fmt.Fprintf(s.out, "Interpretation at level %s for %s:\n%s\n", obj.Level, id, interp)
	} else {
		fmt.Fprintf(s.out, "No interpretation available for %s at level %s\n", id, obj.Level)
	}
}

func (s *Shell) handleRender(args []string, render func(*category.Object) string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show|dot <id>")
	}
	obj, ok := s.categories[args[0]]
	if !ok {
		return fmt.Errorf("category object %q not found", args[0])
	}
	fmt.Fprint(s.out, render(obj))
	return nil
}

func (s *Shell) handleSay(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: say <agent> <token> <pattern>")
	}
	a := s.getOrCreateAgent(args[0])
	sym := a.ExpressSymbol(args[1], sign.Pattern(args[2]), s.tau)
	fmt.Fprintf(s.out, "%s says %s → %s at τ=%d\n", a.ID, sym.Token, sym.Pattern, s.tau)
	return nil
}

func (s *Shell) handleHear(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: hear <agent> <token> <pattern>")
	}
	a := s.getOrCreateAgent(args[0])
	sym := sign.Symbol{Token: args[1], Pattern: sign.Pattern(args[2])}
	meaning := a.InterpretSymbol(sym, s.tau)
	if meaning == nil {
		fmt.Fprintf(s.out, "%s finds no coherent interpretation for %s\n", a.ID, sym.Token)
		return nil
	}
	fmt.Fprintf(s.out, "%s hears %s: %s\n", a.ID, sym.Token, meaning.Description)
	return nil
}

func (s *Shell) handleSymmetry(args []string, kind string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s <agent> <window>", kind)
	}
	a, ok := s.agents[args[0]]
	if !ok {
		return fmt.Errorf("agent %q not found", args[0])
	}
	window, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad window %q", args[1])
	}
	var result bool
	if kind == "attractor" {
		result = a.IsAttractorState(window)
	} else {
		result = a.IsDifferentiating(window)
	}
	fmt.Fprintf(s.out, "%s %s(%d) = %t\n", a.ID, kind, window, result)
	return nil
}

func (s *Shell) handlePattern(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: pattern <name> <value>")
	}
	s.patterns.Define(args[0], args[1])
	fmt.Fprintf(s.out, "Pattern [%s] = %s\n", args[0], args[1])
	return nil
}

func (s *Shell) handleLet(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: let <name> <value>")
	}
	s.vars.Set(args[0], args[1])
	return nil
}

// handleMacroDef parses `macro name(p1,p2) = body`; the body is a
// ';'-separated command sequence with $param placeholders.
func (s *Shell) handleMacroDef(line string) error {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "macro"))
	open := strings.IndexByte(rest, '(')
	end := strings.IndexByte(rest, ')')
	if open < 0 || end < open {
		return fmt.Errorf("usage: macro <name>(<params>) = <body>")
	}
	name := strings.TrimSpace(rest[:open])
	var params []string
	for _, p := range strings.Split(rest[open+1:end], ",") {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}
	body := strings.TrimSpace(rest[end+1:])
	body = strings.TrimSpace(strings.TrimPrefix(body, "="))
	if name == "" || body == "" {
		return fmt.Errorf("usage: macro <name>(<params>) = <body>")
	}
	s.macros.Define(name, params, body)
	fmt.Fprintf(s.out, "Macro %s(%s) defined\n", name, strings.Join(params, ","))
	return nil
}

func (s *Shell) runMacro(name string, mac Macro, args []string) (bool, error) {
	if len(args) != len(mac.Params) {
		return false, fmt.Errorf("macro %s expects %d args, got %d", name, len(mac.Params), len(args))
	}
	body := mac.Body
	for i, p := range mac.Params {
		body = strings.ReplaceAll(body, "$"+p, args[i])
	}
	for _, stmt := range strings.Split(body, ";") {
		quit, err := s.Execute(stmt)
		if err != nil {
			return false, fmt.Errorf("macro %s: %w", name, err)
		}
		if quit {
			return true, nil
		}
	}
	return false, nil
}

func (s *Shell) getOrCreateAgent(id string) *agent.Agent {
	if a, ok := s.agents[id]; ok {
		return a
	}
	a := agent.New(id, s.cfg.MemoryCapacity, s.cfg.CoherenceThreshold)
	s.agents[id] = a
	return a
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Commands:
  create <level> <id>          create a category object (void|particle|atom|molecule|cell)
  agent <id> [object]          create an agent, optionally inside an object
  promote <id>                 promote an object one level up
  tick [id]                    advance time, decaying one object or everything
  mutate <id> <message...>     propagate a mutation through an object tree
  aggregate <id>               report an object's aggregate stability
  interpret <id>               show an object's level interpretation
  show <id>                    render an object tree as text
  dot <id>                     render an object tree as Graphviz DOT
  say <agent> <token> <pat>    agent expresses a symbol
  hear <agent> <token> <pat>   agent interprets a symbol
  attractor <agent> <window>   check for an attractor state
  differentiation <agent> <w>  check for interpretive differentiation
  pattern <name> <value>       define [name] for expansion in later input
  let <name> <value>           bind $name for expansion in later input
  macro <name>(<params>) = <body>  define a macro; invoke as <name> <args...>
  help                         show this help
  quit                         leave the shell
`)
}
