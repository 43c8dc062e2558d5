package io

// Serializable defines the binary encoding/decoding interface for every
// on-chain type. Implementations never return an error directly; instead
// they record it on the BinReader/BinWriter they were given, letting callers
// chain several fields without per-field error checks.
type Serializable interface {
	DecodeBinary(*BinReader)
	EncodeBinary(*BinWriter)
}

// encodable and decodable are the minimal single-directional shapes used by
// the generic array helpers below.
type encodable interface {
	EncodeBinary(*BinWriter)
}

type decodable interface {
	DecodeBinary(*BinReader)
}
