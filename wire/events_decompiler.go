package wire

// The five decompiler cache events below each carry the full new value of
// one per-function annotation cache. Their payloads are replayed
// positionally by the receiving side, so entry order is significant.

// Label is one user-defined decompiler label.
type Label struct {
	// Num is the label number within the function.
	Num int `json:"num"`
	// Name is the decoded label text.
	Name string `json:"name"`
}

// TreeComment is one user comment attached to a decompiler tree location.
type TreeComment struct {
	// EA is the item address the comment is anchored to.
	EA uint64 `json:"ea"`
	// ITP is the item tree position code.
	ITP int `json:"itp"`
	// Text is the decoded comment text.
	Text string `json:"text"`
}

// Iflag is one user-set decompiler item flag.
type Iflag struct {
	// EA is the item address.
	EA uint64 `json:"ea"`
	// Op is the item operand number.
	Op int `json:"op"`
	// Flags is the flag value.
	Flags uint32 `json:"flags"`
}

// VarLoc describes where a variable lives.
type VarLoc struct {
	// AType is the location type code.
	AType int `json:"atype"`
	// Reg1 is the first register number for register locations.
	Reg1 int `json:"reg1"`
	// Reg2 is the second register number for register pair locations.
	Reg2 int `json:"reg2"`
	// StackOff is the stack offset for stack locations.
	StackOff int64 `json:"stkoff"`
	// EA is the address for static locations.
	EA uint64 `json:"ea"`
}

// LvarLocator identifies one local variable.
type LvarLocator struct {
	// Location is the variable location.
	Location VarLoc `json:"location"`
	// DefEA is the address where the variable is defined.
	DefEA uint64 `json:"defEa"`
}

// TypeInfo is a raw serialized type triple.
type TypeInfo struct {
	// Type is the raw serialized type encoding.
	Type []byte `json:"type"`
	// Fields is the raw serialized field name encoding.
	Fields []byte `json:"fields,omitempty"`
	// FieldComments is the raw serialized field comment encoding.
	FieldComments []byte `json:"fldCmts,omitempty"`
}

// SavedLvar is one user-modified local variable.
type SavedLvar struct {
	// Locator identifies the variable.
	Locator LvarLocator `json:"ll"`
	// Name is the user-assigned variable name.
	Name string `json:"name"`
	// Type is the user-assigned type; null when unchanged.
	Type *TypeInfo `json:"type,omitempty"`
	// Comment is the user-assigned variable comment.
	Comment string `json:"cmt"`
	// Flags is the saved-info flag bitfield.
	Flags uint32 `json:"flags"`
}

// LvarMapping maps one variable onto another.
type LvarMapping struct {
	// From is the mapped variable.
	From LvarLocator `json:"from"`
	// To is the variable it maps to.
	To LvarLocator `json:"to"`
}

// LvarSettings is the full user variable layout for a function. The zero
// value means no user settings exist.
type LvarSettings struct {
	// Lvars lists the user-modified variables.
	Lvars []SavedLvar `json:"lvars,omitempty"`
	// Sizes lists the forced stack variable sizes.
	Sizes []int `json:"sizes,omitempty"`
	// Maps lists the user variable mappings.
	Maps []LvarMapping `json:"maps,omitempty"`
	// StackOffDelta is the user stack offset delta.
	StackOffDelta int64 `json:"stkoffDelta,omitempty"`
	// Flags is the user variable flag bitfield.
	Flags uint32 `json:"ulvFlags,omitempty"`
}

// NumberFormat describes a user numeric display format.
type NumberFormat struct {
	// Flags is the number representation flag bitfield.
	Flags uint32 `json:"flags"`
	// OpNum is the operand number the format applies to.
	OpNum int `json:"opnum"`
	// Props is the format property bits.
	Props int `json:"props"`
	// Serial is the enum serial for enum formats.
	Serial int `json:"serial"`
	// OrgNBytes is the original operand size in bytes.
	OrgNBytes int `json:"orgNbytes"`
	// TypeName names the referenced type for enum/struct formats.
	TypeName string `json:"typeName"`
}

// Numform is one user numeric format keyed by operand.
type Numform struct {
	// EA is the instruction address.
	EA uint64 `json:"ea"`
	// OpNum is the operand number.
	OpNum int `json:"opnum"`
	// Format is the user format for the operand.
	Format NumberFormat `json:"format"`
}

// UserLabelsEvent carries the full label cache for one function.
type UserLabelsEvent struct {
	// EA is the function entry address.
	EA uint64 `json:"ea"`
	// Labels is the full new label cache, in cache order.
	Labels []Label `json:"labels"`
}

func (UserLabelsEvent) isEvent() {}

// Kind implements Event.
func (UserLabelsEvent) Kind() string { return "user-labels" }

// UserCommentsEvent carries the full decompiler comment cache for one
// function.
type UserCommentsEvent struct {
	// EA is the function entry address.
	EA uint64 `json:"ea"`
	// Comments is the full new comment cache, in cache order.
	Comments []TreeComment `json:"comments"`
}

func (UserCommentsEvent) isEvent() {}

// Kind implements Event.
func (UserCommentsEvent) Kind() string { return "user-comments" }

// UserIflagsEvent carries the full item flag cache for one function.
type UserIflagsEvent struct {
	// EA is the function entry address.
	EA uint64 `json:"ea"`
	// Iflags is the full new item flag cache, in cache order.
	Iflags []Iflag `json:"iflags"`
}

func (UserIflagsEvent) isEvent() {}

// Kind implements Event.
func (UserIflagsEvent) Kind() string { return "user-iflags" }

// UserLvarSettingsEvent carries the full variable layout for one function.
type UserLvarSettingsEvent struct {
	// EA is the function entry address.
	EA uint64 `json:"ea"`
	// Settings is the full new variable layout.
	Settings LvarSettings `json:"settings"`
}

func (UserLvarSettingsEvent) isEvent() {}

// Kind implements Event.
func (UserLvarSettingsEvent) Kind() string { return "user-lvar-settings" }

// UserNumformsEvent carries the full numeric format cache for one function.
type UserNumformsEvent struct {
	// EA is the function entry address.
	EA uint64 `json:"ea"`
	// Numforms is the full new numeric format cache, in cache order.
	Numforms []Numform `json:"numforms"`
}

func (UserNumformsEvent) isEvent() {}

// Kind implements Event.
func (UserNumformsEvent) Kind() string { return "user-numforms" }
