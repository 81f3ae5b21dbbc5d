// Package asmfrag implements the small algebra of assembly fragments
// described in spec.md §4.6: a fragment is a pair of a data section and a
// code section, with an associative concatenation that de-duplicates
// data entries by label identity. It is grounded on the teacher's
// src/core/asm/asm.go (Program{Writable, Readonly, Executable}) and
// src/core/strbuilder (a linked-list string Builder), generalised from a
// multi-section x86 program to the single flat data/code split spec.md
// asks for.
package asmfrag

import "strings"

// DataLine is one line of a target's data section, keyed by Label for
// deduplication (spec.md §4.6: "duplicate labels must be identical;
// violation is a programmer error and must abort the compiler").
type DataLine struct {
	Label string
	Text  string // full rendered line(s), without trailing newline
}

// Fragment is an assembly fragment: an ordered, deduplicated data
// section and a strictly sequential code section.
type Fragment struct {
	data     []DataLine
	dataSeen map[string]string // label -> Text, for dedup/consistency checks
	Code     []string
}

func Empty() Fragment {
	return Fragment{dataSeen: map[string]string{}}
}

// Code1 builds a fragment consisting of a single code line.
func Code1(line string) Fragment {
	f := Empty()
	f.Code = []string{line}
	return f
}

// WithData returns f with a data line appended, by insertion order of
// first appearance, unless a label with that name was already added, in
// which case the existing entry must be textually identical (spec.md
// §4.6) or the compiler aborts as an internal consistency violation
// (spec.md §7 category 1).
func (f Fragment) WithData(label, text string) Fragment {
	if f.dataSeen == nil {
		f.dataSeen = map[string]string{}
	}
	if existing, ok := f.dataSeen[label]; ok {
		if existing != text {
			panic("asmfrag: duplicate data label with differing contents: " + label)
		}
		return f
	}
	seen := make(map[string]string, len(f.dataSeen)+1)
	for k, v := range f.dataSeen {
		seen[k] = v
	}
	seen[label] = text
	data := make([]DataLine, len(f.data), len(f.data)+1)
	copy(data, f.data)
	data = append(data, DataLine{Label: label, Text: text})
	return Fragment{data: data, dataSeen: seen, Code: f.Code}
}

// Concat implements spec.md §4.6's concat((d1,c1),(d2,c2)) = (d1∪d2,
// c1++c2): data sections merge by label identity (insertion order of
// first appearance), code sections append strictly sequentially.
func Concat(fs ...Fragment) Fragment {
	out := Empty()
	for _, f := range fs {
		for _, d := range f.data {
			out = out.WithData(d.Label, d.Text)
		}
		out.Code = append(out.Code, f.Code...)
	}
	return out
}

func (f Fragment) DataLines() []DataLine { return f.data }

// HasLabel reports whether a data entry with this label has already been
// added to f.
func (f Fragment) HasLabel(label string) bool {
	_, ok := f.dataSeen[label]
	return ok
}

// Render concatenates the data section then the code section, one line
// per entry, with a trailing newline on each.
func (f Fragment) Render() string {
	var b strings.Builder
	for _, d := range f.data {
		b.WriteString(d.Text)
		b.WriteByte('\n')
	}
	for _, c := range f.Code {
		b.WriteString(c)
		b.WriteByte('\n')
	}
	return b.String()
}
