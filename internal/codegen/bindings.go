package codegen

import (
	"encoding/hex"
	"strconv"
)

// Bindings maps variable names to storage labels. There is one slot per
// distinct name in the whole program, allocated on first encounter; nested
// scopes are not modelled.
type Bindings struct {
	slots map[string]string
	order []string // storage labels, allocation order
}

func NewBindings() *Bindings {
	return &Bindings{slots: make(map[string]string)}
}

// Slot returns the storage label of a variable, allocating it if needed.
func (b *Bindings) Slot(name string) string {
	if label, ok := b.slots[name]; ok {
		return label
	}
	label := slotLabel(name)
	b.slots[name] = label
	b.order = append(b.order, label)
	return label
}

// Hidden allocates a compiler temporary. Its label cannot clash with a
// variable slot.
func (b *Bindings) Hidden(base string, n int) string {
	label := "t_" + base + strconv.Itoa(n)
	b.order = append(b.order, label)
	return label
}

// Labels lists every storage label in allocation order.
func (b *Bindings) Labels() []string {
	return b.order
}

// slotLabel keeps ASCII names readable and hex-encodes anything the
// assembler would not accept as a symbol.
func slotLabel(name string) string {
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return "w_" + hex.EncodeToString([]byte(name))
		}
	}
	return "v_" + name
}

// LabelAllocator hands out unique label numbers for one generation run.
type LabelAllocator struct {
	next int
}

// Next returns a fresh number; every label derived from it is unique.
func (l *LabelAllocator) Next() int {
	n := l.next
	l.next++
	return n
}

// Label formats `<base><n>`.
func Label(base string, n int) string {
	return base + strconv.Itoa(n)
}
