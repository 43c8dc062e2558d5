package transaction

import "fmt"

// AttrType identifies the kind of payload an Attribute carries.
type AttrType uint8

const (
	HighPriorityT   AttrType = 0x01
	OracleResponseT AttrType = 0x11
	NotValidBeforeT AttrType = 0x20
	ConflictsT      AttrType = 0x21
	NotaryAssistedT AttrType = 0x22
)

func (t AttrType) String() string {
	switch t {
	case HighPriorityT:
		return "HighPriority"
	case OracleResponseT:
		return "OracleResponse"
	case NotValidBeforeT:
		return "NotValidBefore"
	case ConflictsT:
		return "Conflicts"
	case NotaryAssistedT:
		return "NotaryAssisted"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", byte(t))
	}
}

// allowsMultiple reports whether more than one attribute of type t may
// appear on the same transaction.
func (t AttrType) allowsMultiple() bool {
	return t == ConflictsT
}
