// Package manifest describes a deployed contract's ABI, permissions and
// trust declarations, the metadata half of what the compiler produces
// alongside a NEF file.
package manifest

import "encoding/json"

// ParamType identifies the NeoVM type of a method parameter, return
// value or event field.
type ParamType int

// Supported contract parameter types.
const (
	AnyType              ParamType = 0x00
	BoolType             ParamType = 0x10
	IntegerType          ParamType = 0x11
	ByteArrayType        ParamType = 0x12
	StringType           ParamType = 0x13
	Hash160Type          ParamType = 0x14
	Hash256Type          ParamType = 0x15
	PublicKeyType        ParamType = 0x16
	SignatureType        ParamType = 0x17
	ArrayType            ParamType = 0x20
	MapType              ParamType = 0x22
	InteropInterfaceType ParamType = 0x30
	VoidType             ParamType = 0xff
)

// String implements fmt.Stringer.
func (pt ParamType) String() string {
	switch pt {
	case AnyType:
		return "Any"
	case BoolType:
		return "Boolean"
	case IntegerType:
		return "Integer"
	case ByteArrayType:
		return "ByteArray"
	case StringType:
		return "String"
	case Hash160Type:
		return "Hash160"
	case Hash256Type:
		return "Hash256"
	case PublicKeyType:
		return "PublicKey"
	case SignatureType:
		return "Signature"
	case ArrayType:
		return "Array"
	case MapType:
		return "Map"
	case InteropInterfaceType:
		return "InteropInterface"
	case VoidType:
		return "Void"
	default:
		return "Unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (pt ParamType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + pt.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (pt *ParamType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := ParamTypeFromString(s)
	if err != nil {
		return err
	}
	*pt = t
	return nil
}

// ParamTypeFromString parses a ParamType's manifest JSON name.
func ParamTypeFromString(s string) (ParamType, error) {
	switch s {
	case "Any":
		return AnyType, nil
	case "Boolean":
		return BoolType, nil
	case "Integer":
		return IntegerType, nil
	case "ByteArray":
		return ByteArrayType, nil
	case "String":
		return StringType, nil
	case "Hash160":
		return Hash160Type, nil
	case "Hash256":
		return Hash256Type, nil
	case "PublicKey":
		return PublicKeyType, nil
	case "Signature":
		return SignatureType, nil
	case "Array":
		return ArrayType, nil
	case "Map":
		return MapType, nil
	case "InteropInterface":
		return InteropInterfaceType, nil
	case "Void":
		return VoidType, nil
	default:
		return 0, errUnknownParamType{s}
	}
}

type errUnknownParamType struct{ s string }

func (e errUnknownParamType) Error() string { return "unknown parameter type: " + e.s }
