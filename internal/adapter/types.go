package adapter

import (
	"github.com/hotwinter/IDArl1ng/internal/host"
	"github.com/hotwinter/IDArl1ng/wire"
)

// Enum and structure notifications identify records by id. Ids are only
// valid inside the callback, so every handler resolves them to names and
// values immediately and the events carry nothing host-internal.

// EnumCreated handles a new enum.
func (a *Adapter) EnumCreated(id uint64) {
	en, ok := a.api.Enum(id)
	if !ok {
		return
	}
	a.forward(wire.EnumCreatedEvent{Name: en.Name})
}

// EnumDeleted handles an enum removal. The host fires this before the
// record disappears, so the name is still resolvable.
func (a *Adapter) EnumDeleted(id uint64) {
	en, ok := a.api.Enum(id)
	if !ok {
		return
	}
	a.forward(wire.EnumDeletedEvent{Name: en.Name})
}

// EnumRenamed handles an enum or enum member rename. The host reports the
// new name after the fact; oldName is the name it supplied with the
// notification.
func (a *Adapter) EnumRenamed(id uint64, oldName string, member bool) {
	newName := ""
	if member {
		m, ok := a.api.EnumMember(id)
		if !ok {
			return
		}
		newName = m.Name
	} else {
		en, ok := a.api.Enum(id)
		if !ok {
			return
		}
		newName = en.Name
	}
	a.forward(wire.EnumRenamedEvent{OldName: oldName, NewName: newName, Member: member})
}

// EnumBitfieldChanged handles an enum bitfield flag toggle.
func (a *Adapter) EnumBitfieldChanged(id uint64) {
	en, ok := a.api.Enum(id)
	if !ok {
		return
	}
	a.forward(wire.EnumBitfieldChangedEvent{Name: en.Name, Bitfield: en.Bitfield})
}

// EnumCommentChanged handles an enum comment edit.
func (a *Adapter) EnumCommentChanged(id uint64, repeatable bool) {
	en, ok := a.api.Enum(id)
	if !ok {
		return
	}
	a.forward(wire.EnumCommentChangedEvent{
		Name:       en.Name,
		Comment:    a.api.EnumComment(id, repeatable),
		Repeatable: repeatable,
	})
}

// EnumMemberCreated handles a new enum member.
func (a *Adapter) EnumMemberCreated(enumID, cid uint64) {
	en, ok := a.api.Enum(enumID)
	if !ok {
		return
	}
	m, ok := a.api.EnumMember(cid)
	if !ok {
		return
	}
	a.forward(wire.EnumMemberCreatedEvent{
		Enum:    en.Name,
		Name:    m.Name,
		Value:   m.Value,
		Bitmask: m.Bitmask,
	})
}

// EnumMemberDeleted handles an enum member removal.
func (a *Adapter) EnumMemberDeleted(enumID, cid uint64) {
	en, ok := a.api.Enum(enumID)
	if !ok {
		return
	}
	m, ok := a.api.EnumMember(cid)
	if !ok {
		return
	}
	a.forward(wire.EnumMemberDeletedEvent{
		Enum:    en.Name,
		Value:   m.Value,
		Serial:  m.Serial,
		Bitmask: m.Bitmask,
	})
}

// StructCreated handles a new structure or union.
func (a *Adapter) StructCreated(id uint64) {
	st, ok := a.api.Struct(id)
	if !ok {
		return
	}
	a.forward(wire.StructCreatedEvent{Name: st.Name, Union: st.Union})
}

// StructDeleted handles a structure removal, fired before the record
// disappears.
func (a *Adapter) StructDeleted(id uint64) {
	st, ok := a.api.Struct(id)
	if !ok {
		return
	}
	a.forward(wire.StructDeletedEvent{Name: st.Name})
}

// StructRenamed handles a structure rename. oldName is the name the host
// supplied with the notification; the new one is read back.
func (a *Adapter) StructRenamed(id uint64, oldName string) {
	st, ok := a.api.Struct(id)
	if !ok {
		return
	}
	a.forward(wire.StructRenamedEvent{OldName: oldName, NewName: st.Name})
}

// StructCommentChanged handles a structure or member comment edit. The
// host reports member comments under the dotted "struct.member" name.
func (a *Adapter) StructCommentChanged(id uint64, repeatable bool) {
	st, ok := a.api.Struct(id)
	if !ok {
		return
	}
	name, member := splitDottedName(st.Name)
	a.forward(wire.StructCommentChangedEvent{
		Struct:     name,
		Member:     member,
		Comment:    a.api.StructComment(id, repeatable),
		Repeatable: repeatable,
	})
}

// StructMemberCreated handles a new structure member.
func (a *Adapter) StructMemberCreated(sid, mid uint64) {
	st, ok := a.api.Struct(sid)
	if !ok {
		return
	}
	m, ok := a.api.Member(mid)
	if !ok {
		return
	}
	size := m.EOff - m.SOff
	offset := m.SOff
	if m.Union {
		// For unions SOff is the member index and EOff the size.
		size = m.EOff
		offset = 0
	}
	a.forward(wire.StructMemberCreatedEvent{
		Struct: st.Name,
		Name:   m.Name,
		Offset: offset,
		Flag:   m.Flag,
		Size:   size,
		Extra:  a.memberExtra(m),
	})
}

// StructMemberDeleted handles a structure member removal.
func (a *Adapter) StructMemberDeleted(sid, offset uint64) {
	st, ok := a.api.Struct(sid)
	if !ok {
		return
	}
	a.forward(wire.StructMemberDeletedEvent{Struct: st.Name, Offset: offset})
}

// StructMemberRenamed handles a structure member rename.
func (a *Adapter) StructMemberRenamed(sid, mid uint64) {
	st, ok := a.api.Struct(sid)
	if !ok {
		return
	}
	m, ok := a.api.Member(mid)
	if !ok {
		return
	}
	a.forward(wire.StructMemberRenamedEvent{Struct: st.Name, Offset: m.SOff, NewName: m.Name})
}

// StructMemberChanged handles a structure member type change.
func (a *Adapter) StructMemberChanged(sid, mid uint64) {
	st, ok := a.api.Struct(sid)
	if !ok {
		return
	}
	m, ok := a.api.Member(mid)
	if !ok {
		return
	}
	a.forward(wire.StructMemberChangedEvent{
		Struct:    st.Name,
		Offset:    m.SOff,
		EndOffset: m.EOff,
		Flag:      m.Flag,
		Extra:     a.memberExtra(m),
	})
}

// StructExpanded handles a structure growing or shrinking in place.
func (a *Adapter) StructExpanded(sid, offset uint64, delta int64) {
	st, ok := a.api.Struct(sid)
	if !ok {
		return
	}
	a.forward(wire.StructExpandedEvent{Struct: st.Name, Offset: offset, Delta: delta})
}

// memberExtra extracts the type reference details relevant for a member's
// flag bits. Plain data members carry no extras.
func (a *Adapter) memberExtra(m host.MemberInfo) wire.MemberExtra {
	if m.Info == nil {
		return wire.MemberExtra{}
	}
	var extra wire.MemberExtra
	switch {
	case m.Flag&host.OpType0Mask == host.FlagOff&host.OpType0Mask:
		extra.Target = m.Info.Target
		extra.Base = m.Info.Base
		extra.TDelta = m.Info.TDelta
		extra.RefFlags = m.Info.RefFlags
	case m.Flag&host.OpType0Mask == host.FlagEnum&host.OpType0Mask:
		extra.Serial = m.Info.Serial
	case m.Flag&host.DTypeMask == host.FlagStruct:
		if name, ok := a.api.TypeNameByID(m.Info.TypeID); ok {
			extra.Struct = name
		}
	case m.Flag&host.DTypeMask == host.FlagStrLit:
		extra.StrLitType = m.Info.StrLitType
	}
	return extra
}

func splitDottedName(name string) (string, string) {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}
