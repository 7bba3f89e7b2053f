package adapter

import (
	"github.com/hotwinter/IDArl1ng/internal/host"
	"github.com/hotwinter/IDArl1ng/pkg/logger"
	"github.com/hotwinter/IDArl1ng/wire"
)

// operandRep maps a representation flag constant to its wire name, in the
// order the classifier tries them.
var operandReps = []struct {
	flag uint32
	op   string
}{
	{host.FlagHex, "hex"},
	{host.FlagDec, "dec"},
	{host.FlagChar, "chr"},
	{host.FlagBin, "bin"},
	{host.FlagOct, "oct"},
	{host.FlagEnum, "enum"},
	{host.FlagStroff, "struct"},
	{host.FlagStkVar, "stkvar"},
}

// classifyOperand maps the representation nibble of operand n to a wire
// representation name. ok is false when the nibble matches none of the
// known representations, or when the operand has no dedicated nibble.
//
// Explicit sign inversion never reaches this path: the host has no
// notification for it, so no wire name exists for that representation.
func classifyOperand(flags uint32, n int) (string, bool) {
	mask, ok := host.OperandTypeMask(n)
	if !ok {
		return "", false
	}
	for _, rep := range operandReps {
		if flags&mask == rep.flag&mask {
			return rep.op, true
		}
	}
	return "", false
}

// OperandTypeChanged handles operand n at ea changing its display
// representation. Unrecognized representations are dropped without an
// event; the host keeps processing the edit either way.
func (a *Adapter) OperandTypeChanged(ea uint64, n int) {
	flags := a.api.FullFlags(ea)
	op, ok := classifyOperand(flags, n)
	if !ok {
		logger.Debugf("unhandled operand representation at %#x op %d (flags %#x)", ea, n, flags)
		return
	}

	ev := wire.OperandTypeChangedEvent{EA: ea, N: n, Op: op}
	switch op {
	case "enum":
		ref, ok := a.api.OperandEnum(ea, n)
		if !ok {
			return
		}
		ev.Extra = wire.OperandExtra{EnumName: ref.Name, Serial: ref.Serial}
	case "struct":
		path, ok := a.api.OperandStructPath(ea, n)
		if !ok {
			return
		}
		ev.Extra = wire.OperandExtra{Delta: path.Delta, StructPath: path.Names}
	}
	a.forward(ev)
}
