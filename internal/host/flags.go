package host

// Item flag bit layout. The first two operands each own one nibble of the
// flag word describing their display representation; the representation
// constants below carry their value in both nibbles so a mask selects the
// operand of interest.
const (
	// OpType0Mask selects the first operand's representation nibble.
	OpType0Mask uint32 = 0x00F00000
	// OpType1Mask selects the second operand's representation nibble.
	OpType1Mask uint32 = 0x0F000000
)

// Operand representation values.
const (
	FlagHex    uint32 = 0x01100000
	FlagDec    uint32 = 0x02200000
	FlagChar   uint32 = 0x03300000
	FlagSegm   uint32 = 0x04400000
	FlagOff    uint32 = 0x05500000
	FlagBin    uint32 = 0x06600000
	FlagOct    uint32 = 0x07700000
	FlagEnum   uint32 = 0x08800000
	FlagStroff uint32 = 0x0AA00000
	FlagStkVar uint32 = 0x0BB00000
)

// Data type values stored in the item flag high nibble.
const (
	// DTypeMask selects the data type nibble of an item or member flag.
	DTypeMask uint32 = 0xF0000000
	// FlagStrLit marks a string literal item.
	FlagStrLit uint32 = 0x50000000
	// FlagStruct marks a structure item.
	FlagStruct uint32 = 0x60000000
)

// OperandTypeMask returns the representation mask for operand n. ok is
// false for operands beyond the second, which have no dedicated nibble.
func OperandTypeMask(n int) (uint32, bool) {
	switch n {
	case 0:
		return OpType0Mask, true
	case 1:
		return OpType1Mask, true
	default:
		return 0, false
	}
}
