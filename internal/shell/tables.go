package shell

import "strings"

// PatternTable holds named patterns for symbolic reuse. Input lines may
// reference a pattern as [name]; Expand substitutes the definition in place
// and leaves unknown references untouched.
type PatternTable struct {
	table map[string]string
}

func NewPatternTable() *PatternTable {
	return &PatternTable{table: make(map[string]string)}
}

// Define adds or updates a named pattern.
func (p *PatternTable) Define(name, value string) {
	p.table[name] = value
}

// Get returns the named pattern definition.
func (p *PatternTable) Get(name string) (string, bool) {
	v, ok := p.table[name]
	return v, ok
}

// Expand replaces every [name] in text with its pattern definition.
// Undefined references are kept verbatim, brackets included.
func (p *PatternTable) Expand(text string) string {
	var out strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] != '[' {
			out.WriteByte(text[i])
			continue
		}
		end := strings.IndexByte(text[i+1:], ']')
		if end < 0 {
			out.WriteString(text[i:])
			break
		}
		name := text[i+1 : i+1+end]
		if val, ok := p.table[name]; ok {
			out.WriteString(val)
		} else {
			out.WriteString("[" + name + "]")
		}
		i += end + 1
	}
	return out.String()
}

// VariableTable holds symbolic values referenced in input lines as $name.
type VariableTable struct {
	table map[string]string
}

func NewVariableTable() *VariableTable {
	return &VariableTable{table: make(map[string]string)}
}

func (v *VariableTable) Set(name, value string) {
	v.table[name] = value
}

func (v *VariableTable) Get(name string) (string, bool) {
	val, ok := v.table[name]
	return val, ok
}

// ExpandToken resolves a $name token to its value. Non-variable tokens and
// unknown variables pass through unchanged.
func (v *VariableTable) ExpandToken(tok string) string {
	if !strings.HasPrefix(tok, "$") {
		return tok
	}
	if val, ok := v.table[tok[1:]]; ok {
		return val
	}
	return tok
}

// Macro is a parameterized sequence of shell commands, ';'-separated.
type Macro struct {
	Params []string
	Body   string
}

// MacroTable holds user-defined macros by name.
type MacroTable struct {
	table map[string]Macro
}

func NewMacroTable() *MacroTable {
	return &MacroTable{table: make(map[string]Macro)}
}

func (m *MacroTable) Define(name string, params []string, body string) {
	m.table[name] = Macro{Params: params, Body: body}
}

func (m *MacroTable) Get(name string) (Macro, bool) {
	mac, ok := m.table[name]
	return mac, ok
}
