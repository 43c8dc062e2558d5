// Package netmode names the network magic values a transaction builder
// and signer scope their operations to.
package netmode

import "strconv"

const (
	// MainNet is the magic of Neo N3's public main network.
	MainNet Magic = 0x334f454e // NEO3
	// TestNet is the magic of Neo N3's public test network.
	TestNet Magic = 0x3554334e // N3T5
	// PrivNet is the magic conventionally used for local/private networks.
	PrivNet Magic = 56753
	// UnitTestNet is a stub magic for use in tests.
	UnitTestNet Magic = 42
)

// Magic identifies the network a signature or transaction is scoped to;
// signing under the wrong magic produces a witness no node on the
// intended network will accept.
type Magic uint32

func (n Magic) String() string {
	switch n {
	case MainNet:
		return "mainnet"
	case TestNet:
		return "testnet"
	case PrivNet:
		return "privnet"
	case UnitTestNet:
		return "unit_testnet"
	default:
		return "net 0x" + strconv.FormatUint(uint64(n), 16)
	}
}
