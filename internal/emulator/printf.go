package emulator

import (
	"fmt"
	"strconv"
	"strings"
)

var argumentRegisters = []string{"rsi", "rdx", "rcx", "r8", "r9"}

// cString reads a NUL-terminated string from initialised data.
func (m *Machine) cString(addr int64) (string, error) {
	var sb strings.Builder
	for {
		b, ok := m.rom[addr]
		if !ok {
			return "", fmt.Errorf("string at %#x is not in read-only data", addr)
		}
		if b == 0 {
			return sb.String(), nil
		}
		sb.WriteByte(b)
		addr++
	}
}

// printf formats with the template at rdi and the integer arguments in the
// System V argument registers. It supports %d, %i, %ld, %lld, %c, %s and %%.
func (m *Machine) printf() (int, error) {
	format, err := m.cString(m.regs["rdi"])
	if err != nil {
		return 0, err
	}

	var sb strings.Builder
	next := 0
	arg := func() (int64, error) {
		if next >= len(argumentRegisters) {
			return 0, fmt.Errorf("printf: more than %d arguments", len(argumentRegisters))
		}
		v := m.regs[argumentRegisters[next]]
		next++
		return v, nil
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			sb.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(format) && format[j] == 'l' {
			j++
		}
		if j >= len(format) {
			return 0, fmt.Errorf("printf: incomplete conversion in %q", format)
		}
		verb := format[j]
		i = j

		switch verb {
		case '%':
			sb.WriteByte('%')
		case 'd', 'i':
			v, err := arg()
			if err != nil {
				return 0, err
			}
			sb.WriteString(strconv.FormatInt(v, 10))
		case 'c':
			v, err := arg()
			if err != nil {
				return 0, err
			}
			sb.WriteByte(byte(v))
		case 's':
			v, err := arg()
			if err != nil {
				return 0, err
			}
			s, err := m.cString(v)
			if err != nil {
				return 0, err
			}
			sb.WriteString(s)
		default:
			return 0, fmt.Errorf("printf: unsupported conversion %%%c", verb)
		}
	}

	n, err := m.out.Write([]byte(sb.String()))
	if err != nil {
		return n, fmt.Errorf("printf: %w", err)
	}
	return n, nil
}
