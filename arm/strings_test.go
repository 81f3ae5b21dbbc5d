package arm

import "testing"

import "github.com/nalgeon/be"

func TestStringPoolDedupsByContent(t *testing.T) {
	p := NewStringPool()
	a := p.Intern("hello")
	b := p.Intern("hello")
	be.Equal(t, a, b)
	c := p.Intern("world")
	be.True(t, c != a)
}

func TestStringPoolFragmentOrder(t *testing.T) {
	p := NewStringPool()
	p.Intern("a")
	p.Intern("b")
	f := p.Fragment()
	be.Equal(t, len(f.DataLines()), 2)
	be.Equal(t, f.DataLines()[0].Label, "msg_0")
	be.Equal(t, f.DataLines()[1].Label, "msg_1")
}

func TestEscapeAscii(t *testing.T) {
	be.Equal(t, escapeAscii("a\"b\\c\n"), `a\"b\\c\n`)
}
