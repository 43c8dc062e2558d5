package transaction

import "github.com/nspcc-dev/neow3j-go/pkg/io"

// HighPriority marks a transaction for priority inclusion; valid only
// when its sender is a committee member.
type HighPriority struct{}

// DecodeBinary implements io.Serializable.
func (h *HighPriority) DecodeBinary(*io.BinReader) {}

// EncodeBinary implements io.Serializable.
func (h *HighPriority) EncodeBinary(*io.BinWriter) {}

func (h *HighPriority) toJSONMap(map[string]any) {}

// Copy implements AttrValue.
func (h *HighPriority) Copy() AttrValue { return &HighPriority{} }
