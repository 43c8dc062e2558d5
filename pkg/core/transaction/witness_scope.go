package transaction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WitnessScope is a bitmask restricting the contexts in which a signer's
// witness is considered valid.
type WitnessScope byte

const (
	// None is only valid for a fee-only sender; the witness is never
	// consulted during execution.
	None WitnessScope = 0x00
	// CalledByEntry restricts validity to direct calls from the entry
	// script (the default, safe choice for most transfers).
	CalledByEntry WitnessScope = 0x01
	// CustomContracts restricts validity to the contracts listed in
	// Signer.AllowedContracts.
	CustomContracts WitnessScope = 0x10
	// CustomGroups restricts validity to contracts belonging to one of
	// the groups listed in Signer.AllowedGroups.
	CustomGroups WitnessScope = 0x20
	// WitnessRules evaluates Signer.Rules to decide validity.
	WitnessRules WitnessScope = 0x40
	// Global allows the witness in every context. Mutually exclusive
	// with every other scope.
	Global WitnessScope = 0x80
)

var allScopes = []WitnessScope{Global, CalledByEntry, CustomContracts, CustomGroups, WitnessRules, None}

// String renders the set bits of s as a comma-separated list.
func (s WitnessScope) String() string {
	if s == Global || s == None {
		return scopeName(s)
	}
	var parts []string
	for _, sc := range []WitnessScope{CalledByEntry, CustomContracts, CustomGroups, WitnessRules} {
		if s&sc != 0 {
			parts = append(parts, scopeName(sc))
		}
	}
	if len(parts) == 0 {
		return scopeName(None)
	}
	return strings.Join(parts, ", ")
}

func scopeName(s WitnessScope) string {
	switch s {
	case None:
		return "None"
	case CalledByEntry:
		return "CalledByEntry"
	case CustomContracts:
		return "CustomContracts"
	case CustomGroups:
		return "CustomGroups"
	case WitnessRules:
		return "WitnessRules"
	case Global:
		return "Global"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", byte(s))
	}
}

// ScopesFromString parses a comma-separated list of scope names produced by
// String, case-sensitive.
func ScopesFromString(s string) (WitnessScope, error) {
	var result WitnessScope
	names := strings.Split(s, ",")
	dict := make(map[string]WitnessScope, len(allScopes))
	for _, sc := range allScopes {
		dict[scopeName(sc)] = sc
	}
	var isGlobal bool
	for _, name := range names {
		name = strings.TrimSpace(name)
		sc, ok := dict[name]
		if !ok {
			return 0, fmt.Errorf("invalid witness scope: %q", name)
		}
		if isGlobal || (result != 0 && sc == Global) {
			return 0, fmt.Errorf("global scope cannot be combined with other scopes")
		}
		result |= sc
		isGlobal = sc == Global
	}
	return result, nil
}

// MarshalJSON implements json.Marshaler.
func (s WitnessScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *WitnessScope) UnmarshalJSON(data []byte) error {
	var js string
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	scopes, err := ScopesFromString(js)
	if err != nil {
		return err
	}
	*s = scopes
	return nil
}
