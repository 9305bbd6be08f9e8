package emulator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/funvibe/tourte/internal/diagnostics"
)

// program wraps body lines in the same frame the code generator emits.
func program(body ...string) []string {
	lines := []string{
		"default rel",
		"extern printf",
		"global main",
		"section .text",
		"main:",
		"    push rbp",
		"    mov rbp, rsp",
	}
	lines = append(lines, body...)
	return append(lines,
		"    mov rax, 0",
		"    leave",
		"    ret",
		"section .rodata",
		`fmt_int: db "%ld",10,0`,
		`fmt_s: db "%s!",10,0`,
		"msg: db 'hi', 0",
		"section .bss",
		"v_x resq 1",
	)
}

func printReg(reg string) []string {
	return []string{
		"    mov rsi, " + reg,
		"    lea rdi, [fmt_int]",
		"    xor rax, rax",
		"    call printf",
	}
}

func load(t *testing.T, lines []string) *Machine {
	t.Helper()
	prog, err := Load(lines)
	be.Err(t, err, nil)
	return NewMachine(prog, Options{})
}

func runX(t *testing.T, body ...string) int64 {
	t.Helper()
	m := load(t, program(body...))
	_, err := m.Run()
	be.Err(t, err, nil)
	x, ok := m.Load64("v_x")
	be.True(t, ok)
	return x
}

func expectFault(t *testing.T, lines []string, opts Options, substr string) *diagnostics.DiagnosticError {
	t.Helper()
	_, err := Run(lines, opts)
	if err == nil {
		t.Fatalf("expected a runtime error containing %q", substr)
	}
	de, ok := err.(*diagnostics.DiagnosticError)
	if !ok {
		t.Fatalf("expected a diagnostic, got %T: %v", err, err)
	}
	be.Equal(t, de.Code, diagnostics.ErrR001)
	if !strings.Contains(de.Message, substr) {
		t.Errorf("expected message to contain %q, got: %s", substr, de.Message)
	}
	return de
}

func TestPrintf(t *testing.T) {
	var out bytes.Buffer
	body := append([]string{"    mov rax, 42"}, printReg("rax")...)
	code, err := Run(program(body...), Options{Stdout: &out})
	be.Err(t, err, nil)
	be.Equal(t, code, int64(0))
	be.Equal(t, out.String(), "42\n")
}

func TestPrintfString(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(program(
		"    lea rsi, [msg]",
		"    lea rdi, [fmt_s]",
		"    xor rax, rax",
		"    call printf",
	), Options{Stdout: &out})
	be.Err(t, err, nil)
	be.Equal(t, out.String(), "hi!\n")
}

func TestIdivTruncatesTowardZero(t *testing.T) {
	var out bytes.Buffer
	prog, err := Load(program(append([]string{
		"    mov rax, -7",
		"    mov rbx, 2",
		"    cqo",
		"    idiv rbx",
		"    mov [v_x], rdx",
	}, printReg("rax")...)...))
	be.Err(t, err, nil)
	m := NewMachine(prog, Options{Stdout: &out})
	_, err = m.Run()
	be.Err(t, err, nil)

	be.Equal(t, out.String(), "-3\n")
	rem, _ := m.Load64("v_x")
	be.Equal(t, rem, int64(-1))
}

func TestConditionCodes(t *testing.T) {
	tests := []struct {
		a, b string
		cc   string
		want int64
	}{
		{"1", "2", "l", 1},
		{"2", "1", "l", 0},
		{"2", "2", "le", 1},
		{"3", "2", "g", 1},
		{"-5", "3", "g", 0},
		{"-5", "3", "ge", 0},
		{"4", "4", "e", 1},
		{"4", "5", "ne", 1},
		// the subtraction overflows; the signed condition must still hold
		{"-9223372036854775808", "1", "l", 1},
	}
	for _, tt := range tests {
		got := runX(t,
			"    mov rax, "+tt.a,
			"    mov rbx, "+tt.b,
			"    cmp rax, rbx",
			"    set"+tt.cc+" al",
			"    movzx rax, al",
			"    mov [v_x], rax",
		)
		be.Equal(t, got, tt.want)
	}
}

func TestLoopWithFlags(t *testing.T) {
	got := runX(t,
		"    mov rcx, 10",
		"    mov rax, 0",
		"Lloop:",
		"    add rax, rcx",
		"    sub rcx, 1",
		"    jne Lloop",
		"    mov [v_x], rax",
	)
	be.Equal(t, got, int64(55))
}

func TestImulOverflowFlag(t *testing.T) {
	got := runX(t,
		"    mov rax, 0x4000000000000000",
		"    mov rbx, 4",
		"    imul rax, rbx",
		"    seto al",
		"    movzx rax, al",
		"    mov [v_x], rax",
	)
	be.Equal(t, got, int64(1))
}

func TestByteRegisters(t *testing.T) {
	got := runX(t,
		"    mov rax, 0x1ff",
		"    mov rbx, 1",
		"    and al, bl",
		"    mov [v_x], rax",
	)
	be.Equal(t, got, int64(0x101))

	got = runX(t,
		"    mov rax, 0x1ff",
		"    movzx rax, al",
		"    mov [v_x], rax",
	)
	be.Equal(t, got, int64(0xff))
}

func TestInternalCall(t *testing.T) {
	got := runX(t,
		"    mov rax, 7",
		"    call square",
		"    mov [v_x], rax",
		"    jmp Ldone",
		"square:",
		"    imul rax, rax",
		"    ret",
		"Ldone:",
	)
	be.Equal(t, got, int64(49))
}

func TestExternalCallClobbersCallerSaved(t *testing.T) {
	body := []string{"    mov rcx, 5"}
	body = append(body, printReg("rcx")...)
	body = append(body, "    mov [v_x], rcx")
	be.Equal(t, runX(t, body...), clobbered)
}

func TestDivisionByZero(t *testing.T) {
	de := expectFault(t, program(
		"    mov rax, 1",
		"    mov rbx, 0",
		"    cqo",
		"    idiv rbx",
	), Options{}, "division by zero")
	be.Equal(t, de.Token.Lexeme, "idiv rbx")
	be.Equal(t, de.Token.Line, 11)
}

func TestDivisionOverflow(t *testing.T) {
	expectFault(t, program(
		"    mov rax, -9223372036854775808",
		"    mov rbx, -1",
		"    cqo",
		"    idiv rbx",
	), Options{}, "division overflow")
}

func TestStepLimit(t *testing.T) {
	expectFault(t, program("Lspin:", "    jmp Lspin"), Options{MaxSteps: 100}, "step limit of 100 exceeded")
}

func TestUnknownLabel(t *testing.T) {
	expectFault(t, program("    jmp Lnowhere"), Options{}, "unknown label Lnowhere")
}

func TestMisalignedCall(t *testing.T) {
	body := append([]string{"    push rax"}, printReg("rax")...)
	expectFault(t, program(body...), Options{}, "stack misaligned")
}

func TestWriteToReadOnlyData(t *testing.T) {
	expectFault(t, program("    mov [fmt_int], rax"), Options{}, "read-only")
}

func TestMissingEntry(t *testing.T) {
	expectFault(t, []string{"section .text", "start:", "    ret"}, Options{}, "no entry label main")
}

func TestUnsupportedInstruction(t *testing.T) {
	expectFault(t, program("    cpuid"), Options{}, "unsupported instruction cpuid")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load([]string{"section .bss", "v_x resz 1"})
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "unknown reservation resz"))

	_, err = Load([]string{"section .rodata", `s: db "open`})
	be.True(t, err != nil)

	_, err = Load([]string{"section .text", "main:", "main:"})
	be.True(t, strings.Contains(err.Error(), "label main defined twice"))
}

func TestCommentsAndBlankLines(t *testing.T) {
	got := runX(t,
		"",
		"    ; a comment line",
		"    mov rax, 3 ; trailing comment",
		"    mov [v_x], rax",
	)
	be.Equal(t, got, int64(3))
}

func TestShrIsLogical(t *testing.T) {
	x := runX(t,
		"    mov rax, -8",
		"    shr rax, 60",
		"    mov [v_x], rax",
	)
	be.Equal(t, x, int64(15))

	x = runX(t,
		"    mov rcx, 1",
		"    mov rax, 7",
		"    shr rcx, 1",
		"    jne Lskip",
		"    mov rax, 9",
		"Lskip:",
		"    mov [v_x], rax",
	)
	be.Equal(t, x, int64(9))
}
