package arm

import "testing"

import "github.com/nalgeon/be"

// spec.md §8 property 6: the textual form of every Addr-Mode-2 variant
// parses back to the same variant.
func TestAddrRoundTrip(t *testing.T) {
	cases := []Addr{
		Normal(R0),
		NormalImm(R0, '+', 4),
		NormalImm(R0, '-', 4),
		NormalReg(R0, '+', R1),
		NormalReg(R0, '-', R1),
		PreZero(R0),
		PreImm(R0, '+', 8),
		PreImm(R0, '-', 8),
		PreReg(R0, '+', R2),
		PreReg(R0, '-', R2),
		PostZero(R0),
		PostImm(R0, '+', 12),
		PostImm(R0, '-', 12),
		PostReg(R0, '+', R3),
		PostReg(R0, '-', R3),
		LitImm32(42),
		LitImm32(-7),
		LitLabel("msg_0"),
	}

	for _, want := range cases {
		s := want.String()
		got, ok := ParseAddr(s)
		be.True(t, ok)
		be.Equal(t, got, want)
	}
}

func TestAddrPrintedForms(t *testing.T) {
	be.Equal(t, Normal(R0).String(), "[r0]")
	be.Equal(t, NormalImm(R0, '+', 4).String(), "[r0, #4]")
	be.Equal(t, NormalImm(R0, '-', 4).String(), "[r0, #-4]")
	be.Equal(t, PreImm(SP, '-', 4).String(), "[sp, #-4]!")
	be.Equal(t, PostImm(R0, '+', 4).String(), "[r0], #4")
	be.Equal(t, PostZero(R1).String(), "[r1], #0")
	be.Equal(t, LitImm32(100).String(), "=100")
	be.Equal(t, LitLabel("p_print_int").String(), "=p_print_int")
}

func TestParseAddrRejectsGarbage(t *testing.T) {
	_, ok := ParseAddr("not an addr")
	be.True(t, !ok)
}
