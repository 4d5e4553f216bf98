package script

import (
	"fmt"
	"strconv"
	"strings"
)

// line is a non-blank, non-comment script line with its indentation depth.
type line struct {
	num    int // 1-based source line number
	indent int
	text   string
}

// cursor walks script lines in order.
type cursor struct {
	lines []line
	pos   int
}

func newCursor(src string) *cursor {
	var lines []line
	for i, raw := range strings.Split(src, "\n") {
		trimmed := strings.TrimLeft(raw, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		trimmed = strings.TrimRight(trimmed, " \t\r")
		lines = append(lines, line{
			num:    i + 1,
			indent: len(raw) - len(strings.TrimLeft(raw, " \t")),
			text:   trimmed,
		})
	}
	return &cursor{lines: lines}
}

func (c *cursor) peek() (line, bool) {
	if c.pos >= len(c.lines) {
		return line{}, false
	}
	return c.lines[c.pos], true
}

func (c *cursor) next() (line, bool) {
	l, ok := c.peek()
	if ok {
		c.pos++
	}
	return l, ok
}

// Parse parses a narrative script into its top-level blocks.
// A top-level line that is not a recognized block header starts an implicit
// at-τ block pinned at the header's index.
func Parse(src string) ([]Block, error) {
	c := newCursor(src)
	var blocks []Block
	for {
		l, ok := c.peek()
		if !ok {
			break
		}
		var (
			b   Block
			err error
		)
		switch {
		case strings.HasPrefix(l.text, "macro "):
			b, err = parseMacroDef(c)
		case strings.HasPrefix(l.text, "at τ=") || strings.HasPrefix(l.text, "at tau="):
			b, err = parseAtTau(c)
		case strings.HasPrefix(l.text, "repeat "):
			b, err = parseRepeat(c)
		case strings.HasPrefix(l.text, "while "):
			b, err = parseWhile(c)
		case l.text == "parallel:":
			b, err = parseParallel(c)
		default:
			b, err = parseAtTau(c)
		}
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// parseBody collects the consecutive actions indented deeper than base.
func parseBody(c *cursor, base int) ([]Action, error) {
	var actions []Action
	for {
		l, ok := c.peek()
		if !ok || l.indent <= base {
			return actions, nil
		}
		acts, err := parseActionBlock(c)
		if err != nil {
			return nil, err
		}
		actions = append(actions, acts...)
	}
}

func parseMacroDef(c *cursor) (Block, error) {
	l, _ := c.next()
	header := strings.TrimSpace(strings.TrimPrefix(l.text, "macro"))
	header = strings.TrimSuffix(header, ":")
	open := strings.Index(header, "(")
	end := strings.Index(header, ")")
	if open < 0 || end < open {
		return nil, fmt.Errorf("line %d: malformed macro header %q", l.num, l.text)
	}
	name := strings.TrimSpace(header[:open])
	if name == "" {
		return nil, fmt.Errorf("line %d: macro without a name", l.num)
	}
	var params []string
	for _, p := range strings.Split(header[open+1:end], ",") {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}
	body, err := parseBody(c, l.indent)
	if err != nil {
		return nil, err
	}
	return MacroDef{Name: name, Params: params, Body: body}, nil
}

func parseAtTau(c *cursor) (Block, error) {
	l, _ := c.next()
	header := strings.TrimPrefix(l.text, "at τ=")
	header = strings.TrimPrefix(header, "at tau=")
	header, _, _ = strings.Cut(header, ":")
	tau, err := strconv.ParseUint(strings.TrimSpace(header), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("line %d: bad τ index in %q", l.num, l.text)
	}
	actions, err := parseBody(c, l.indent)
	if err != nil {
		return nil, err
	}
	return AtTau{Tau: tau, Actions: actions}, nil
}

func parseRepeat(c *cursor) (Block, error) {
	l, _ := c.next()
	header := strings.TrimPrefix(l.text, "repeat")
	header, _, _ = strings.Cut(header, "times")
	n, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil {
		return nil, fmt.Errorf("line %d: bad repeat count in %q", l.num, l.text)
	}
	actions, err := parseBody(c, l.indent)
	if err != nil {
		return nil, err
	}
	return Repeat{Times: n, Actions: actions}, nil
}

func parseWhile(c *cursor) (Block, error) {
	l, _ := c.next()
	cond := strings.TrimPrefix(l.text, "while")
	cond = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cond), ":"))
	if cond == "" {
		return nil, fmt.Errorf("line %d: while without a condition", l.num)
	}
	actions, err := parseBody(c, l.indent)
	if err != nil {
		return nil, err
	}
	return While{Cond: cond, Actions: actions}, nil
}

func parseParallel(c *cursor) (Block, error) {
	l, _ := c.next()
	actions, err := parseBody(c, l.indent)
	if err != nil {
		return nil, err
	}
	return Parallel{Actions: actions}, nil
}

// parseActionBlock parses one action, consuming a nested body when the
// action is a conditional.
func parseActionBlock(c *cursor) ([]Action, error) {
	l, _ := c.next()
	if strings.HasPrefix(l.text, "if ") && strings.HasSuffix(l.text, ":") {
		cond := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(l.text, "if"), ":"))
		sub, err := parseBody(c, l.indent)
		if err != nil {
			return nil, err
		}
		return []Action{Conditional{Cond: cond, Actions: sub}}, nil
	}
	a, err := parseAction(l)
	if err != nil {
		return nil, err
	}
	return []Action{a}, nil
}

func parseAction(l line) (Action, error) {
	text := l.text
	switch {
	case strings.HasPrefix(text, "create agent "):
		parts := strings.Fields(strings.TrimPrefix(text, "create agent "))
		if len(parts) != 3 {
			return nil, fmt.Errorf("line %d: want 'create agent <name> <mem> <coh>', got %q", l.num, text)
		}
		mem, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad memory capacity %q", l.num, parts[1])
		}
		coh, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad coherence threshold %q", l.num, parts[2])
		}
		return CreateAgent{Name: parts[0], MemoryCapacity: mem, CoherenceThreshold: coh}, nil

	case strings.HasPrefix(text, "let "):
		name, value, found := strings.Cut(strings.TrimPrefix(text, "let "), "=")
		if !found {
			return nil, fmt.Errorf("line %d: want 'let <name> = <value>', got %q", l.num, text)
		}
		return Assign{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)}, nil

	case strings.HasPrefix(text, "tick "):
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(text, "tick ")))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad tick count in %q", l.num, text)
		}
		return Tick{N: n}, nil

	case strings.HasPrefix(text, "assert "):
		return Assert{Cond: strings.TrimSpace(strings.TrimPrefix(text, "assert "))}, nil
	}

	if agent, rest, found := strings.Cut(text, " says: "); found {
		token, pattern, ok := cutArrow(rest)
		if !ok {
			return nil, fmt.Errorf("line %d: want '<agent> says: <token> → <pattern>', got %q", l.num, text)
		}
		return Say{Agent: strings.TrimSpace(agent), Token: token, Pattern: pattern}, nil
	}
	if agent, rest, found := strings.Cut(text, " hears: "); found {
		token, _, ok := cutArrow(rest)
		if !ok {
			token = strings.TrimSpace(rest)
		}
		return Interpret{Agent: strings.TrimSpace(agent), Token: token}, nil
	}
	if agent, rest, found := strings.Cut(text, " interprets: "); found {
		return Interpret{Agent: strings.TrimSpace(agent), Token: strings.TrimSpace(rest)}, nil
	}
	if agent, rest, found := strings.Cut(text, " projects: "); found {
		return Project{Agent: strings.TrimSpace(agent), Token: strings.TrimSpace(rest)}, nil
	}

	if open := strings.Index(text, "("); open > 0 && strings.HasSuffix(text, ")") {
		name := strings.TrimSpace(text[:open])
		argstr := text[open+1 : len(text)-1]
		var args []string
		for _, a := range strings.Split(argstr, ",") {
			if a = strings.TrimSpace(a); a != "" {
				args = append(args, a)
			}
		}
		return MacroCall{Name: name, Args: args}, nil
	}

	return nil, fmt.Errorf("line %d: unrecognized action %q", l.num, text)
}

// cutArrow splits "token → pattern" (ASCII "->" also accepted).
func cutArrow(s string) (left, right string, ok bool) {
	for _, arrow := range []string{" → ", " -> "} {
		if l, r, found := strings.Cut(s, arrow); found {
			return strings.TrimSpace(l), strings.TrimSpace(r), true
		}
	}
	return "", "", false
}
