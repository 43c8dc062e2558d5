package transaction

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/nspcc-dev/neow3j-go/pkg/io"
)

// MaxOracleResultSize bounds an oracle answer's payload.
const MaxOracleResultSize = math.MaxUint16

// OracleResponseCode enumerates the outcomes an oracle service may report
// for a request.
type OracleResponseCode byte

const (
	Success                 OracleResponseCode = 0x00
	ProtocolNotSupported    OracleResponseCode = 0x10
	ConsensusUnreachable    OracleResponseCode = 0x12
	NotFound                OracleResponseCode = 0x14
	Timeout                 OracleResponseCode = 0x16
	Forbidden               OracleResponseCode = 0x18
	ResponseTooLarge        OracleResponseCode = 0x1a
	InsufficientFunds       OracleResponseCode = 0x1c
	ContentTypeNotSupported OracleResponseCode = 0x1f
	ErrorResponse           OracleResponseCode = 0xff
)

// Validation errors for OracleResponse.
var (
	ErrInvalidResponseCode = errors.New("invalid oracle response code")
	ErrInvalidResult       = errors.New("oracle response != success, but result is not empty")
)

// IsValid reports whether c is one of the defined response codes.
func (c OracleResponseCode) IsValid() bool {
	switch c {
	case Success, ProtocolNotSupported, ConsensusUnreachable, NotFound, Timeout,
		Forbidden, ResponseTooLarge, InsufficientFunds, ContentTypeNotSupported, ErrorResponse:
		return true
	}
	return false
}

func (c OracleResponseCode) String() string {
	switch c {
	case Success:
		return "Success"
	case ProtocolNotSupported:
		return "ProtocolNotSupported"
	case ConsensusUnreachable:
		return "ConsensusUnreachable"
	case NotFound:
		return "NotFound"
	case Timeout:
		return "Timeout"
	case Forbidden:
		return "Forbidden"
	case ResponseTooLarge:
		return "ResponseTooLarge"
	case InsufficientFunds:
		return "InsufficientFunds"
	case ContentTypeNotSupported:
		return "ContentTypeNotSupported"
	case ErrorResponse:
		return "Error"
	default:
		return "Unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (c OracleResponseCode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *OracleResponseCode) UnmarshalJSON(data []byte) error {
	var js string
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	switch strings.ToLower(js) {
	case "success":
		*c = Success
	case "protocolnotsupported":
		*c = ProtocolNotSupported
	case "consensusunreachable":
		*c = ConsensusUnreachable
	case "notfound":
		*c = NotFound
	case "timeout":
		*c = Timeout
	case "forbidden":
		*c = Forbidden
	case "responsetoolarge":
		*c = ResponseTooLarge
	case "insufficientfunds":
		*c = InsufficientFunds
	case "contenttypenotsupported":
		*c = ContentTypeNotSupported
	case "error":
		*c = ErrorResponse
	default:
		return ErrInvalidResponseCode
	}
	return nil
}

// OracleResponse carries the result of an oracle request back on-chain.
type OracleResponse struct {
	ID     uint64             `json:"id"`
	Code   OracleResponseCode `json:"code"`
	Result []byte             `json:"result"`
}

// DecodeBinary implements io.Serializable.
func (r *OracleResponse) DecodeBinary(br *io.BinReader) {
	r.ID = br.ReadU64LE()
	r.Code = OracleResponseCode(br.ReadB())
	if br.Err != nil {
		return
	}
	if !r.Code.IsValid() {
		br.Err = ErrInvalidResponseCode
		return
	}
	r.Result = br.ReadVarBytes(MaxOracleResultSize)
	if br.Err != nil {
		return
	}
	if r.Code != Success && len(r.Result) > 0 {
		br.Err = ErrInvalidResult
	}
}

// EncodeBinary implements io.Serializable.
func (r *OracleResponse) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(r.ID)
	w.WriteB(byte(r.Code))
	w.WriteVarBytes(r.Result)
}

func (r *OracleResponse) toJSONMap(m map[string]any) {
	m["id"] = r.ID
	m["code"] = r.Code
	m["result"] = r.Result
}

// Copy implements AttrValue.
func (r *OracleResponse) Copy() AttrValue {
	cp := *r
	return &cp
}
