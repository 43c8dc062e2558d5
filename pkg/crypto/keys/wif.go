package keys

import (
	"errors"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/hash"
)

// WIFVersion is the version byte used by Neo's wallet-import-format
// encoding (shared with Bitcoin mainnet's WIF version).
const WIFVersion = 0x80

// WIF holds the decoded contents of a wallet-import-format string.
type WIF struct {
	Version    byte
	PrivateKey *PrivateKey
	Compressed bool
}

// WIFEncode Base58Check-encodes a 32-byte private key scalar together
// with its version byte and a 0x01 compression marker.
func WIFEncode(b []byte, version byte, compressed bool) (string, error) {
	if len(b) != 32 {
		return "", errors.New("invalid private key length")
	}
	buf := make([]byte, 0, 34)
	buf = append(buf, version)
	buf = append(buf, b...)
	if compressed {
		buf = append(buf, 0x01)
	}
	checksum := hash.Checksum(buf)
	return base58.Encode(append(buf, checksum...)), nil
}

// WIFDecode decodes and validates a wallet-import-format string against
// the expected version byte (0 accepts WIFVersion).
func WIFDecode(s string, version byte) (*WIF, error) {
	if version == 0 {
		version = WIFVersion
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) < 4 {
		return nil, errors.New("invalid WIF: too short")
	}
	body, checksum := b[:len(b)-4], b[len(b)-4:]
	expected := hash.Checksum(body)
	for i := range expected {
		if expected[i] != checksum[i] {
			return nil, errors.New("invalid WIF: checksum mismatch")
		}
	}
	switch len(body) {
	case 33:
		if body[0] != version {
			return nil, errors.New("invalid WIF: unexpected version byte")
		}
		priv, err := NewPrivateKeyFromBytes(body[1:])
		if err != nil {
			return nil, err
		}
		return &WIF{Version: version, PrivateKey: priv, Compressed: false}, nil
	case 34:
		if body[0] != version || body[33] != 0x01 {
			return nil, errors.New("invalid WIF: unexpected version byte or compression marker")
		}
		priv, err := NewPrivateKeyFromBytes(body[1:33])
		if err != nil {
			return nil, err
		}
		return &WIF{Version: version, PrivateKey: priv, Compressed: true}, nil
	default:
		return nil, errors.New("invalid WIF: unexpected payload length")
	}
}
