// Package emulator executes the x86-64 subset produced by the code generator.
//
// It is not a general assembler: it understands the directives, instructions
// and operand forms the generator emits, plus a printf stand-in, which is
// enough to run compiled programs in tests and from the driver without an
// assembler or linker.
package emulator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/token"
)

type operandKind int

const (
	regOperand operandKind = iota
	immOperand
	memOperand
	labelOperand
)

// Operand is one parsed instruction argument.
type Operand struct {
	Kind   operandKind
	Reg    string // full 64-bit register name for regOperand
	Byte   bool   // low byte of Reg (al, bl, ...)
	Imm    int64
	Base   string // register or data label for memOperand
	Offset int64
	Label  string // jump or call target
}

// Instr is one instruction with the assembly line it came from.
type Instr struct {
	Op   string
	Args []Operand
	Line int
	Text string
}

// Program is a loaded assembly listing.
type Program struct {
	Code    []Instr
	labels  map[string]int // text label -> instruction index
	externs map[string]bool
	data    []datum // rodata and bss, in declaration order
}

type datum struct {
	label string
	bytes []byte // initialised data
	size  int64  // reserved bytes for bss
}

var registers64 = map[string]bool{
	"rax": true, "rbx": true, "rcx": true, "rdx": true,
	"rsi": true, "rdi": true, "rbp": true, "rsp": true,
	"r8": true, "r9": true, "r10": true, "r11": true,
	"r12": true, "r13": true, "r14": true, "r15": true,
}

var registers8 = map[string]string{
	"al": "rax", "bl": "rbx", "cl": "rcx", "dl": "rdx",
	"sil": "rsi", "dil": "rdi",
}

var reserveSizes = map[string]int64{"resb": 1, "resw": 2, "resd": 4, "resq": 8}

// Load parses assembly lines.
func Load(lines []string) (*Program, error) {
	prog := &Program{
		labels:  make(map[string]int),
		externs: make(map[string]bool),
	}
	section := ".text"

	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}
		fail := func(format string, args ...interface{}) error {
			return loadError(lineNo, raw, fmt.Sprintf(format, args...))
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "default", "global":
			continue
		case "extern":
			for _, name := range fields[1:] {
				prog.externs[strings.TrimSuffix(name, ",")] = true
			}
			continue
		case "section", "segment":
			if len(fields) < 2 {
				return nil, fail("section name missing")
			}
			section = fields[1]
			continue
		}

		label, rest := splitLabel(line)
		switch section {
		case ".text":
			if label != "" {
				if _, dup := prog.labels[label]; dup {
					return nil, fail("label %s defined twice", label)
				}
				prog.labels[label] = len(prog.Code)
			}
			if rest == "" {
				continue
			}
			instr, err := parseInstr(rest)
			if err != nil {
				return nil, fail("%v", err)
			}
			instr.Line = lineNo
			instr.Text = strings.TrimSpace(raw)
			prog.Code = append(prog.Code, instr)

		case ".rodata", ".data":
			if label == "" {
				return nil, fail("data without a label")
			}
			d, err := parseData(label, rest)
			if err != nil {
				return nil, fail("%v", err)
			}
			prog.data = append(prog.data, d)

		case ".bss":
			// NASM accepts `name resq 1` without a colon.
			words := strings.Fields(rest)
			if label == "" && len(words) == 3 {
				label, words = words[0], words[1:]
			}
			if label == "" || len(words) != 2 {
				return nil, fail("expected `<label> res<size> <count>`")
			}
			unit, ok := reserveSizes[words[0]]
			if !ok {
				return nil, fail("unknown reservation %s", words[0])
			}
			count, err := strconv.ParseInt(words[1], 0, 64)
			if err != nil || count < 0 {
				return nil, fail("bad count %s", words[1])
			}
			prog.data = append(prog.data, datum{label: label, size: unit * count})

		default:
			return nil, fail("unsupported section %s", section)
		}
	}

	if err := prog.checkTargets(); err != nil {
		return nil, err
	}
	return prog, nil
}

func loadError(line int, text, msg string) *diagnostics.DiagnosticError {
	return diagnostics.NewError(diagnostics.ErrR001, token.Token{Line: line, Column: 1, Lexeme: strings.TrimSpace(text)}, msg)
}

// checkTargets rejects jumps and calls to labels that do not exist.
func (p *Program) checkTargets() error {
	for _, in := range p.Code {
		for _, arg := range in.Args {
			if arg.Kind != labelOperand {
				continue
			}
			if _, ok := p.labels[arg.Label]; ok {
				continue
			}
			if in.Op == "call" && p.externs[arg.Label] {
				continue
			}
			return loadError(in.Line, in.Text, "unknown label "+arg.Label)
		}
	}
	return nil
}

// stripComment removes a `;` comment that is not inside a quoted string.
func stripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == ';':
			return line[:i]
		}
	}
	return line
}

// splitLabel separates a leading `label:` from the rest of the line.
func splitLabel(line string) (string, string) {
	idx := strings.IndexByte(line, ':')
	if idx <= 0 {
		return "", line
	}
	name := line[:idx]
	if strings.ContainsAny(name, " \t\"'[") {
		return "", line
	}
	return name, strings.TrimSpace(line[idx+1:])
}

func parseInstr(text string) (Instr, error) {
	op, rest, _ := strings.Cut(text, " ")
	in := Instr{Op: strings.ToLower(op)}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return in, nil
	}
	for _, part := range strings.Split(rest, ",") {
		arg, err := parseOperand(strings.TrimSpace(part), in.Op)
		if err != nil {
			return in, err
		}
		in.Args = append(in.Args, arg)
	}
	return in, nil
}

func parseOperand(s string, op string) (Operand, error) {
	for _, size := range []string{"qword ", "dword ", "byte ", "word "} {
		s = strings.TrimSpace(strings.TrimPrefix(s, size))
	}
	if s == "" {
		return Operand{}, fmt.Errorf("empty operand")
	}

	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return Operand{}, fmt.Errorf("unclosed memory operand %s", s)
		}
		return parseMemory(strings.TrimSpace(s[1 : len(s)-1]))
	}

	name := strings.ToLower(s)
	if registers64[name] {
		return Operand{Kind: regOperand, Reg: name}, nil
	}
	if full, ok := registers8[name]; ok {
		return Operand{Kind: regOperand, Reg: full, Byte: true}, nil
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return Operand{Kind: immOperand, Imm: v}, nil
	}
	if isJump(op) || op == "call" {
		// `call printf wrt ..plt` names the same routine.
		target, _, _ := strings.Cut(s, " ")
		return Operand{Kind: labelOperand, Label: target}, nil
	}
	return Operand{}, fmt.Errorf("cannot parse operand %s", s)
}

// parseMemory handles `base`, `base+off` and `base-off` where base is a
// register or a data label.
func parseMemory(expr string) (Operand, error) {
	expr = strings.ReplaceAll(expr, " ", "")
	base, offset := expr, int64(0)
	if idx := strings.LastIndexAny(expr, "+-"); idx > 0 {
		n, err := strconv.ParseInt(expr[idx:], 0, 64)
		if err != nil {
			return Operand{}, fmt.Errorf("bad offset in [%s]", expr)
		}
		base, offset = expr[:idx], n
	}
	if base == "" {
		return Operand{}, fmt.Errorf("empty memory operand")
	}
	return Operand{Kind: memOperand, Base: base, Offset: offset}, nil
}

// parseData decodes `db "text",10,0` and `dq 1,2`.
func parseData(label, rest string) (datum, error) {
	directive, list, _ := strings.Cut(rest, " ")
	width := map[string]int{"db": 1, "dw": 2, "dd": 4, "dq": 8}[directive]
	if width == 0 {
		return datum{}, fmt.Errorf("unsupported data directive %q", directive)
	}

	d := datum{label: label}
	for _, item := range splitDataItems(list) {
		if item == "" {
			return datum{}, fmt.Errorf("empty data item")
		}
		if q := item[0]; q == '"' || q == '\'' || q == '`' {
			if len(item) < 2 || item[len(item)-1] != q {
				return datum{}, fmt.Errorf("unterminated string %s", item)
			}
			d.bytes = append(d.bytes, item[1:len(item)-1]...)
			continue
		}
		v, err := strconv.ParseInt(item, 0, 64)
		if err != nil {
			return datum{}, fmt.Errorf("bad data item %s", item)
		}
		for i := 0; i < width; i++ {
			d.bytes = append(d.bytes, byte(v>>(8*i)))
		}
	}
	return d, nil
}

func splitDataItems(list string) []string {
	var items []string
	var cur strings.Builder
	var quote byte
	for i := 0; i < len(list); i++ {
		c := list[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			cur.WriteByte(c)
		case c == '"' || c == '\'' || c == '`':
			quote = c
			cur.WriteByte(c)
		case c == ',':
			items = append(items, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	items = append(items, strings.TrimSpace(cur.String()))
	return items
}
