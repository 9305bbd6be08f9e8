package emulator

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/funvibe/tourte/internal/diagnostics"
	"github.com/funvibe/tourte/internal/token"
)

const (
	// DefaultMaxSteps bounds a run when no limit is configured.
	DefaultMaxSteps = 1_000_000

	EntryLabel = "main"

	dataBase  int64 = 0x0040_0000
	codeBase  int64 = 0x0010_0000
	stackTop  int64 = 0x7fff_fff0
	exitToken int64 = -1 // return address that ends the run

	// clobbered marks caller-saved registers after an external call.
	clobbered int64 = 0x5a5a_5a5a_5a5a_5a5a
)

var callerSaved = []string{"rcx", "rdx", "rsi", "rdi", "r8", "r9", "r10", "r11"}

// Options configure a Machine.
type Options struct {
	Stdout   io.Writer
	MaxSteps int // 0 selects DefaultMaxSteps, negative disables the limit
}

type flags struct {
	zf, sf, of bool
}

// Machine runs one Program. Create a new Machine per run.
type Machine struct {
	prog *Program
	out  io.Writer

	regs  map[string]int64
	flags flags
	mem   map[int64]int64 // qword-addressed writable memory and stack
	rom   map[int64]byte  // initialised data
	addrs map[string]int64

	pc       int
	steps    int
	maxSteps int
}

func NewMachine(prog *Program, opts Options) *Machine {
	out := opts.Stdout
	if out == nil {
		out = io.Discard
	}
	maxSteps := opts.MaxSteps
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}
	m := &Machine{
		prog:     prog,
		out:      out,
		regs:     make(map[string]int64),
		mem:      make(map[int64]int64),
		rom:      make(map[int64]byte),
		addrs:    make(map[string]int64),
		maxSteps: maxSteps,
	}
	m.layout()
	return m
}

// Run loads and executes assembly lines, returning main's exit code.
func Run(lines []string, opts Options) (int64, error) {
	prog, err := Load(lines)
	if err != nil {
		return 0, err
	}
	return NewMachine(prog, opts).Run()
}

// layout assigns addresses to data labels, 16-byte aligned.
func (m *Machine) layout() {
	addr := dataBase
	for _, d := range m.prog.data {
		m.addrs[d.label] = addr
		for i, b := range d.bytes {
			m.rom[addr+int64(i)] = b
		}
		size := d.size
		if n := int64(len(d.bytes)); n > size {
			size = n
		}
		addr += (size + 15) &^ 15
		if size == 0 {
			addr += 16
		}
	}
}

// Steps reports how many instructions ran.
func (m *Machine) Steps() int {
	return m.steps
}

// Register returns the current value of a 64-bit register.
func (m *Machine) Register(name string) int64 {
	return m.regs[name]
}

// Load64 reads the qword stored at a data label, for inspection after a run.
func (m *Machine) Load64(label string) (int64, bool) {
	addr, ok := m.addrs[label]
	if !ok {
		return 0, false
	}
	return m.mem[addr], true
}

// Run executes from the entry label until main returns.
func (m *Machine) Run() (int64, error) {
	entry, ok := m.prog.labels[EntryLabel]
	if !ok {
		return 0, diagnostics.NewError(diagnostics.ErrR001, token.Token{}, "no entry label "+EntryLabel)
	}
	m.pc = entry
	m.regs["rsp"] = stackTop
	m.push(exitToken)

	for {
		if m.pc < 0 || m.pc >= len(m.prog.Code) {
			return 0, diagnostics.NewError(diagnostics.ErrR001, token.Token{}, "execution ran past the end of the code")
		}
		in := m.prog.Code[m.pc]
		m.steps++
		if m.maxSteps > 0 && m.steps > m.maxSteps {
			return 0, m.fault(in, fmt.Sprintf("step limit of %d exceeded", m.maxSteps))
		}
		m.pc++

		done, err := m.exec(in)
		if err != nil {
			return 0, m.fault(in, err.Error())
		}
		if done {
			return m.regs["rax"], nil
		}
	}
}

func (m *Machine) fault(in Instr, msg string) *diagnostics.DiagnosticError {
	return diagnostics.NewError(diagnostics.ErrR001, token.Token{Line: in.Line, Column: 1, Lexeme: in.Text}, msg)
}

func isJump(op string) bool {
	if op == "jmp" {
		return true
	}
	_, ok := conditions[strings.TrimPrefix(op, "j")]
	return ok && strings.HasPrefix(op, "j")
}

var conditions = map[string]func(f flags) bool{
	"e":  func(f flags) bool { return f.zf },
	"z":  func(f flags) bool { return f.zf },
	"ne": func(f flags) bool { return !f.zf },
	"nz": func(f flags) bool { return !f.zf },
	"l":  func(f flags) bool { return f.sf != f.of },
	"ge": func(f flags) bool { return f.sf == f.of },
	"g":  func(f flags) bool { return !f.zf && f.sf == f.of },
	"le": func(f flags) bool { return f.zf || f.sf != f.of },
	"s":  func(f flags) bool { return f.sf },
	"ns": func(f flags) bool { return !f.sf },
	"o":  func(f flags) bool { return f.of },
	"no": func(f flags) bool { return !f.of },
}

func (m *Machine) exec(in Instr) (bool, error) {
	args := in.Args
	need := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s takes %d operands, found %d", in.Op, n, len(args))
		}
		return nil
	}

	switch in.Op {
	case "mov":
		if err := need(2); err != nil {
			return false, err
		}
		v, err := m.read(args[1])
		if err != nil {
			return false, err
		}
		return false, m.write(args[0], v)

	case "movzx":
		if err := need(2); err != nil {
			return false, err
		}
		v, err := m.read(args[1])
		if err != nil {
			return false, err
		}
		if args[1].Byte {
			v &= 0xff
		}
		return false, m.write(args[0], v)

	case "lea":
		if err := need(2); err != nil {
			return false, err
		}
		addr, err := m.address(args[1])
		if err != nil {
			return false, err
		}
		return false, m.write(args[0], addr)

	case "push":
		if err := need(1); err != nil {
			return false, err
		}
		v, err := m.read(args[0])
		if err != nil {
			return false, err
		}
		m.push(v)
		return false, nil

	case "pop":
		if err := need(1); err != nil {
			return false, err
		}
		return false, m.write(args[0], m.pop())

	case "add", "sub", "imul", "and", "or", "xor", "cmp", "test":
		if err := need(2); err != nil {
			return false, err
		}
		return false, m.binary(in.Op, args[0], args[1])

	case "shr":
		if err := need(2); err != nil {
			return false, err
		}
		v, err := m.read(args[0])
		if err != nil {
			return false, err
		}
		n, err := m.read(args[1])
		if err != nil {
			return false, err
		}
		r := int64(uint64(v) >> (uint64(n) & 63))
		m.flags = flags{zf: r == 0, sf: r < 0}
		return false, m.write(args[0], r)

	case "neg":
		if err := need(1); err != nil {
			return false, err
		}
		v, err := m.read(args[0])
		if err != nil {
			return false, err
		}
		r := truncate(-v, args[0].Byte)
		m.flags = flags{zf: r == 0, sf: r < 0, of: v == minOf(args[0].Byte)}
		return false, m.write(args[0], r)

	case "cqo":
		if m.regs["rax"] < 0 {
			m.regs["rdx"] = -1
		} else {
			m.regs["rdx"] = 0
		}
		return false, nil

	case "idiv":
		if err := need(1); err != nil {
			return false, err
		}
		return false, m.idiv(args[0])

	case "sete", "setz", "setne", "setnz", "setl", "setg", "setle", "setge", "sets", "setns", "seto", "setno":
		if err := need(1); err != nil {
			return false, err
		}
		var v int64
		if conditions[strings.TrimPrefix(in.Op, "set")](m.flags) {
			v = 1
		}
		return false, m.write(args[0], v)

	case "call":
		if err := need(1); err != nil {
			return false, err
		}
		return false, m.call(args[0].Label)

	case "ret":
		addr := m.pop()
		if addr == exitToken {
			return true, nil
		}
		m.pc = int(addr - codeBase)
		return false, nil

	case "leave":
		m.regs["rsp"] = m.regs["rbp"]
		m.regs["rbp"] = m.pop()
		return false, nil

	case "nop":
		return false, nil
	}

	if isJump(in.Op) {
		if err := need(1); err != nil {
			return false, err
		}
		if in.Op == "jmp" || conditions[in.Op[1:]](m.flags) {
			m.pc = m.prog.labels[args[0].Label]
		}
		return false, nil
	}
	return false, fmt.Errorf("unsupported instruction %s", in.Op)
}

func (m *Machine) push(v int64) {
	m.regs["rsp"] -= 8
	m.mem[m.regs["rsp"]] = v
}

func (m *Machine) pop() int64 {
	v := m.mem[m.regs["rsp"]]
	m.regs["rsp"] += 8
	return v
}

func (m *Machine) address(op Operand) (int64, error) {
	if op.Kind != memOperand {
		return 0, fmt.Errorf("expected a memory operand")
	}
	if registers64[op.Base] {
		return m.regs[op.Base] + op.Offset, nil
	}
	addr, ok := m.addrs[op.Base]
	if !ok {
		return 0, fmt.Errorf("unknown symbol %s", op.Base)
	}
	return addr + op.Offset, nil
}

func (m *Machine) read(op Operand) (int64, error) {
	switch op.Kind {
	case regOperand:
		return truncate(m.regs[op.Reg], op.Byte), nil
	case immOperand:
		return op.Imm, nil
	case memOperand:
		addr, err := m.address(op)
		if err != nil {
			return 0, err
		}
		return m.mem[addr], nil
	}
	return 0, fmt.Errorf("cannot read %s", op.Label)
}

func (m *Machine) write(op Operand, v int64) error {
	switch op.Kind {
	case regOperand:
		if op.Byte {
			m.regs[op.Reg] = m.regs[op.Reg]&^0xff | v&0xff
			return nil
		}
		m.regs[op.Reg] = v
		return nil
	case memOperand:
		addr, err := m.address(op)
		if err != nil {
			return err
		}
		if _, ro := m.rom[addr]; ro {
			return fmt.Errorf("write to read-only data at %s", op.Base)
		}
		m.mem[addr] = v
		return nil
	}
	return fmt.Errorf("invalid destination operand")
}

// truncate sign-extends the low byte for byte registers.
func truncate(v int64, byteWide bool) int64 {
	if byteWide {
		return int64(int8(v))
	}
	return v
}

func minOf(byteWide bool) int64 {
	if byteWide {
		return math.MinInt8
	}
	return math.MinInt64
}

func (m *Machine) binary(op string, dst, src Operand) error {
	a, err := m.read(dst)
	if err != nil {
		return err
	}
	b, err := m.read(src)
	if err != nil {
		return err
	}
	byteWide := dst.Byte
	b = truncate(b, byteWide)

	var r int64
	of := false
	switch op {
	case "add":
		r = a + b
		if byteWide {
			of = r != truncate(r, true)
		} else {
			of = (a^r)&(b^r) < 0
		}
	case "sub", "cmp":
		r = a - b
		if byteWide {
			of = r != truncate(r, true)
		} else {
			of = (a^b)&(a^r) < 0
		}
	case "imul":
		r = a * b
		if byteWide {
			of = r != truncate(r, true)
		} else {
			of = a != 0 && (r/a != b || (a == -1 && b == math.MinInt64))
		}
	case "and", "test":
		r = a & b
	case "or":
		r = a | b
	case "xor":
		r = a ^ b
	}
	r = truncate(r, byteWide)
	m.flags = flags{zf: r == 0, sf: r < 0, of: of}

	if op == "cmp" || op == "test" {
		return nil
	}
	return m.write(dst, r)
}

// idiv divides rdx:rax, which must hold a sign-extended 64-bit dividend.
func (m *Machine) idiv(src Operand) error {
	d, err := m.read(src)
	if err != nil {
		return err
	}
	if d == 0 {
		return fmt.Errorf("division by zero")
	}
	a := m.regs["rax"]
	if want := a >> 63; m.regs["rdx"] != want {
		return fmt.Errorf("dividend in rdx:rax is not sign-extended")
	}
	if a == math.MinInt64 && d == -1 {
		return fmt.Errorf("division overflow")
	}
	m.regs["rax"] = a / d
	m.regs["rdx"] = a % d
	return nil
}

func (m *Machine) call(target string) error {
	if pc, ok := m.prog.labels[target]; ok {
		m.push(codeBase + int64(m.pc))
		m.pc = pc
		return nil
	}
	if target != "printf" {
		return fmt.Errorf("call to unsupported external routine %s", target)
	}
	// The ABI requires a 16-byte aligned stack at the call.
	if m.regs["rsp"]%16 != 0 {
		return fmt.Errorf("stack misaligned at call %s", target)
	}
	n, err := m.printf()
	if err != nil {
		return err
	}
	for _, reg := range callerSaved {
		m.regs[reg] = clobbered
	}
	m.regs["rax"] = int64(n)
	return nil
}
