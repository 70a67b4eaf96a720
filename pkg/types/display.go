package types

import (
	"strconv"
	"strings"
)

// Printer renders types for diagnostics. Unbound inference variables are
// named ?a, ?b, ... (??a for equality variables) in order of first
// appearance, so one Printer should be used for all the types of a single
// message.
type Printer struct {
	arena *Arena
	names map[VarID]string
	next  int
	// Bound names quantified variables; when nil they print as 'a, 'b, ...
	Bound []string
}

func NewPrinter(arena *Arena) *Printer {
	return &Printer{arena: arena, names: map[VarID]string{}}
}

// Display is a convenience for rendering a single type.
func (a *Arena) Display(t Type) string {
	return NewPrinter(a).Type(t)
}

const (
	precFn = iota
	precStar
	precApp
)

func (p *Printer) Type(t Type) string {
	var b strings.Builder
	p.write(&b, t, precFn)
	return b.String()
}

// Scheme renders a scheme's body with its quantified variables named 'a,
// 'b, ... (''a for equality variables).
func (p *Printer) Scheme(s Scheme) string {
	saved := p.Bound
	p.Bound = make([]string, len(s.Vars))
	for i, bv := range s.Vars {
		name := "'" + letterName(i)
		if bv.Equality {
			name = "'" + name
		}
		if bv.Overload != NoOverload {
			name = bv.Overload.String()
		}
		p.Bound[i] = name
	}
	out := p.Type(s.Body)
	p.Bound = saved
	return out
}

func (p *Printer) write(b *strings.Builder, t Type, prec int) {
	if p.arena != nil {
		t = p.arena.Resolve(t)
	}
	switch tt := t.(type) {
	case Unknown:
		b.WriteString("_")
	case Var:
		p.writeVar(b, tt)
	case Fixed:
		if p.arena != nil {
			b.WriteString(p.arena.FixedName(tt))
		} else {
			b.WriteString("'?")
		}
	case Bound:
		if tt.Index < len(p.Bound) {
			b.WriteString(p.Bound[tt.Index])
		} else {
			b.WriteString("'" + letterName(tt.Index))
		}
	case *Fn:
		if prec > precFn {
			b.WriteByte('(')
		}
		p.write(b, tt.Param, precStar)
		b.WriteString(" -> ")
		p.write(b, tt.Result, precFn)
		if prec > precFn {
			b.WriteByte(')')
		}
	case *Record:
		p.writeRecord(b, tt.Fields, false, prec)
	case *Con:
		switch len(tt.Args) {
		case 0:
		case 1:
			p.write(b, tt.Args[0], precApp)
			b.WriteByte(' ')
		default:
			b.WriteByte('(')
			for i, arg := range tt.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				p.write(b, arg, precFn)
			}
			b.WriteString(") ")
		}
		b.WriteString(p.symName(tt.Sym))
	}
}

func (p *Printer) writeVar(b *strings.Builder, v Var) {
	if p.arena == nil {
		b.WriteString("?")
		return
	}
	if rows := p.arena.RecordRows(v); rows != nil {
		p.writeRecord(b, rows, true, precFn)
		return
	}
	if class := p.arena.Overload(v); class != NoOverload {
		b.WriteString(class.String())
		return
	}
	root := p.arena.root(v.ID)
	name, ok := p.names[root]
	if !ok {
		name = "?" + letterName(p.next)
		if p.arena.IsEquality(v) {
			name = "?" + name
		}
		p.next++
		p.names[root] = name
	}
	b.WriteString(name)
}

func (p *Printer) writeRecord(b *strings.Builder, fields map[string]Type, open bool, prec int) {
	if !open && len(fields) == 0 {
		b.WriteString("unit")
		return
	}
	if !open && IsTuple(fields) {
		if prec > precStar {
			b.WriteByte('(')
		}
		for i := 1; i <= len(fields); i++ {
			if i > 1 {
				b.WriteString(" * ")
			}
			p.write(b, fields[strconv.Itoa(i)], precApp)
		}
		if prec > precStar {
			b.WriteByte(')')
		}
		return
	}
	b.WriteString("{ ")
	for i, label := range SortedLabels(fields) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(label)
		b.WriteString(" : ")
		p.write(b, fields[label], precFn)
	}
	if open {
		if len(fields) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
	b.WriteString(" }")
}

func (p *Printer) symName(sym Sym) string {
	if p.arena == nil || int(sym) >= len(p.arena.syms) {
		return "?t"
	}
	return p.arena.syms[sym].Name
}

// letterName maps 0..25 to a..z, then aa, ab, ...
func letterName(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return letterName(i/26-1) + letterName(i%26)
}
