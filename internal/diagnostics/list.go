package diagnostics

import (
	"errors"
	"sort"
	"strings"
)

// List is an error made of several diagnostics, in the order they were reported.
type List []*DiagnosticError

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Err returns nil for an empty list so callers can return it directly.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// SortByPosition orders diagnostics by line then column, keeping the report
// order for equal positions.
func (l List) SortByPosition() {
	sort.SliceStable(l, func(i, j int) bool {
		if l[i].Token.Line != l[j].Token.Line {
			return l[i].Token.Line < l[j].Token.Line
		}
		return l[i].Token.Column < l[j].Token.Column
	})
}

// WithFile stamps every diagnostic with the source file name.
func (l List) WithFile(file string) List {
	for _, e := range l {
		e.File = file
	}
	return l
}

// KindOf reports the kind of the first diagnostic carried by err.
func KindOf(err error) Kind {
	var list List
	if errors.As(err, &list) && len(list) > 0 {
		return list[0].Kind()
	}
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de.Kind()
	}
	return UnknownKind
}

// Diagnostics unwraps err into its diagnostics, if any.
func Diagnostics(err error) List {
	var list List
	if errors.As(err, &list) {
		return list
	}
	var de *DiagnosticError
	if errors.As(err, &de) {
		return List{de}
	}
	return nil
}
