package fieldlang

import (
	"fmt"
	"strconv"
	"strings"
)

// Statement is one executable statement of the expression language.
type Statement interface {
	statement()
}

// FieldDecl declares a named zeroed field of a given size.
type FieldDecl struct {
	Name string
	Size int
}

// InterpDecl declares a named interpretation vector.
type InterpDecl struct {
	Name   string
	Values []float64
}

// ProjectStmt projects an interpretation into a field for a number of
// steps with blending factor alpha and per-element noise.
type ProjectStmt struct {
	Target string
	Interp string
	Alpha  float64
	Noise  float64
	Steps  int
}

// TraceStmt computes and names the distance between a field and an
// interpretation.
type TraceStmt struct {
	Name   string
	Field  string
	Interp string
}

// MeaningStmt declares a meaning that holds when a named trace value is
// below a threshold.
type MeaningStmt struct {
	Name      string
	Trace     string
	Threshold float64
}

// NarrateReturn emits quoted narrative tokens verbatim.
type NarrateReturn struct {
	Tokens []string
}

// LogCoherence prints a field's state vector.
type LogCoherence struct {
	Field string
}

// LogMeaning reports a declared meaning and whether it held.
type LogMeaning struct {
	Name string
}

// ExpressSymbol records a symbolic expression event against a field.
type ExpressSymbol struct {
	Token string
	Field string
}

// Modulate records an intensity adjustment for a token.
type Modulate struct {
	Token     string
	Intensity float64
}

func (FieldDecl) statement()     {}
func (InterpDecl) statement()    {}
func (ProjectStmt) statement()   {}
func (TraceStmt) statement()     {}
func (MeaningStmt) statement()   {}
func (NarrateReturn) statement() {}
func (LogCoherence) statement()  {}
func (LogMeaning) statement()    {}
func (ExpressSymbol) statement() {}
func (Modulate) statement()      {}

// Tokenize splits source into tokens: brackets, braces, and parentheses
// stand alone; commas are dropped; double quotes mark narrative tokens and
// are kept as a prefix marker.
func Tokenize(src string) []string {
	var tokens []string
	for _, raw := range strings.Fields(src) {
		tokens = append(tokens, splitToken(raw)...)
	}
	return tokens
}

func splitToken(raw string) []string {
	var tokens []string
	cur := strings.Builder{}
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, c := range raw {
		switch c {
		case '[', ']', '{', '}', '(', ')':
			flush()
			tokens = append(tokens, string(c))
		case ',':
			flush()
		case '"':
			// Keep a marker so the parser can recognize narrative tokens.
			cur.WriteRune('"')
		default:
			cur.WriteRune(c)
		}
	}
	flush()
	return tokens
}

// parser is a cursor over the token stream.
type parser struct {
	tokens []string
	pos    int
}

// Parse tokenizes and parses a whole program.
func Parse(src string) ([]Statement, error) {
	p := &parser{tokens: Tokenize(src)}
	var stmts []Statement
	for p.pos < len(p.tokens) {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *parser) parseStatement() (Statement, error) {
	head, err := p.next()
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(head) {
	case "field":
		name, err := p.next()
		if err != nil {
			return nil, err
		}
		size, err := p.nextInt()
		if err != nil {
			return nil, err
		}
		return FieldDecl{Name: name, Size: size}, nil

	case "interpretation":
		name, err := p.next()
		if err != nil {
			return nil, err
		}
		if err := p.expect("="); err != nil {
			return nil, err
		}
		if err := p.expect("["); err != nil {
			return nil, err
		}
		var values []float64
		for {
			tok, err := p.next()
			if err != nil {
				return nil, err
			}
			if tok == "]" {
				break
			}
			v, convErr := strconv.ParseFloat(tok, 64)
			if convErr != nil {
				return nil, fmt.Errorf("interpretation %s: bad value %q", name, tok)
			}
			values = append(values, v)
		}
		return InterpDecl{Name: name, Values: values}, nil

	case "project":
		target, err := p.next()
		if err != nil {
			return nil, err
		}
		if err := p.expect("<-"); err != nil {
			return nil, err
		}
		interp, err := p.next()
		if err != nil {
			return nil, err
		}
		if err := p.expect("{"); err != nil {
			return nil, err
		}
		alpha, err := p.labeledFloat("alpha:")
		if err != nil {
			return nil, err
		}
		noise, err := p.labeledFloat("noise:")
		if err != nil {
			return nil, err
		}
		steps, err := p.labeledFloat("steps:")
		if err != nil {
			return nil, err
		}
		if err := p.expect("}"); err != nil {
			return nil, err
		}
		return ProjectStmt{
			Target: target,
			Interp: interp,
			Alpha:  alpha,
			Noise:  noise,
			Steps:  int(steps),
		}, nil

	case "trace":
		name, err := p.next()
		if err != nil {
			return nil, err
		}
		if err := p.expect("="); err != nil {
			return nil, err
		}
		if _, err := p.next(); err != nil { // function name, always distance
			return nil, err
		}
		if err := p.expect("("); err != nil {
			return nil, err
		}
		field, err := p.next()
		if err != nil {
			return nil, err
		}
		interp, err := p.next()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return TraceStmt{Name: name, Field: field, Interp: interp}, nil

	case "meaning":
		name, err := p.next()
		if err != nil {
			return nil, err
		}
		if err := p.expect("="); err != nil {
			return nil, err
		}
		if _, err := p.next(); err != nil { // function name, always compare
			return nil, err
		}
		if err := p.expect("("); err != nil {
			return nil, err
		}
		trace, err := p.next()
		if err != nil {
			return nil, err
		}
		threshold, err := p.nextFloat()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return MeaningStmt{Name: name, Trace: trace, Threshold: threshold}, nil

	case "narratereturn":
		var tokens []string
		for p.pos < len(p.tokens) && strings.HasPrefix(p.tokens[p.pos], `"`) {
			tokens = append(tokens, strings.Trim(p.tokens[p.pos], `"`))
			p.pos++
		}
		return NarrateReturn{Tokens: tokens}, nil

	case "logcoherence":
		field, err := p.next()
		if err != nil {
			return nil, err
		}
		return LogCoherence{Field: field}, nil

	case "logmeaning":
		name, err := p.next()
		if err != nil {
			return nil, err
		}
		return LogMeaning{Name: name}, nil

	case "expresssymbol":
		token, err := p.next()
		if err != nil {
			return nil, err
		}
		if err := p.expect("into"); err != nil {
			return nil, err
		}
		field, err := p.next()
		if err != nil {
			return nil, err
		}
		return ExpressSymbol{Token: token, Field: field}, nil

	case "modulate":
		token, err := p.next()
		if err != nil {
			return nil, err
		}
		if err := p.expect("intensity"); err != nil {
			return nil, err
		}
		intensity, err := p.nextFloat()
		if err != nil {
			return nil, err
		}
		return Modulate{Token: token, Intensity: intensity}, nil
	}
	return nil, fmt.Errorf("unknown statement %q", head)
}

func (p *parser) next() (string, error) {
	if p.pos >= len(p.tokens) {
		return "", fmt.Errorf("unexpected end of program")
	}
	t := p.tokens[p.pos]
	p.pos++
	return t, nil
}

func (p *parser) expect(want string) error {
	got, err := p.next()
	if err != nil {
		return err
	}
	if !strings.EqualFold(got, want) {
		return fmt.Errorf("expected %q, got %q", want, got)
	}
	return nil
}

func (p *parser) nextInt() (int, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(tok)
	if convErr != nil {
		return 0, fmt.Errorf("expected integer, got %q", tok)
	}
	return n, nil
}

func (p *parser) nextFloat() (float64, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	v, convErr := strconv.ParseFloat(tok, 64)
	if convErr != nil {
		return 0, fmt.Errorf("expected number, got %q", tok)
	}
	return v, nil
}

func (p *parser) labeledFloat(label string) (float64, error) {
	if err := p.expect(label); err != nil {
		return 0, err
	}
	return p.nextFloat()
}
