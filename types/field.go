package types

// DynamicCmp returns -1, 0 or 1, or an error when the payloads cannot be
// compared. The field is passed so one callback can serve several dynamic
// sub-types told apart by Field.ID.
type DynamicCmp func(a, b *Dynamic, field *Field) (int, error)

// DynamicRelease frees a payload owned by a table.
type DynamicRelease func(d *Dynamic, field *Field) error

// DynamicClone deep-copies a payload on insert, and the caller keeps its
// own. Without it the table takes every key and value payload passed to a
// successful Insert or SetPrivate: it stores the payload, or releases it
// when an equal key is already stored, and releases stored payloads when
// they are replaced or the table is released.
type DynamicClone func(d *Dynamic, field *Field) (*Dynamic, error)

// Field describes one position of a key or value Record.
type Field struct {
	Type  FieldType
	Name  string
	Flags FieldFlag
	ID    int

	Cmp     DynamicCmp
	Release DynamicRelease
	Clone   DynamicClone
}

func (f *Field) IsStats() bool {
	return f.Flags.Has(FlagStats) && f.Type.IsNumeric()
}

func (f *Field) IsSigned() bool { return f.Flags.Has(FlagSigned) }

func (f *Field) String() string {
	if len(f.Name) == 0 {
		return string(f.Type)
	}
	return f.Name + " " + string(f.Type)
}
