package arm

import (
	"fmt"
	"strings"

	"waccc/asmfrag"
)

// StringPool interns string literals into the .data section, deduping by
// content and handing back a shared label for repeated literals (spec.md
// §8 property 5, generalised from asmfrag.Fragment's label dedup to the
// content itself). Grounded on the teacher's literal-pool handling in
// backend/amd64/amd64.go and the asmfrag.Fragment data/code split.
type StringPool struct {
	labelOf map[string]string
	order   []string
	next    int
}

func NewStringPool() *StringPool {
	return &StringPool{labelOf: map[string]string{}}
}

// Intern returns the data-section label for s, minting a fresh one the
// first time s is seen and reusing it on every later call with the same
// content.
func (p *StringPool) Intern(s string) string {
	if label, ok := p.labelOf[s]; ok {
		return label
	}
	label := fmt.Sprintf("msg_%d", p.next)
	p.next++
	p.labelOf[s] = label
	p.order = append(p.order, s)
	return label
}

// Fragment renders every interned literal as a `.word <len>` / `.ascii
// "..."` pair, in first-seen order.
func (p *StringPool) Fragment() asmfrag.Fragment {
	out := asmfrag.Empty()
	for _, s := range p.order {
		label := p.labelOf[s]
		text := fmt.Sprintf("%s:\n\t.word %d\n\t.ascii \"%s\"", label, len(s), escapeAscii(s))
		out = out.WithData(label, text)
	}
	return out
}

func escapeAscii(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
