package manifest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// Method names with dedicated protocol meaning.
const (
	MethodInit     = "_initialize"
	MethodDeploy   = "_deploy"
	MethodVerify   = "verify"
	MethodOnPayment = "onNEP17Payment"
)

// ABI is a contract's application binary interface: its callable
// methods and the events it may emit.
type ABI struct {
	Hash    util.Uint160 `json:"hash"`
	Methods []Method     `json:"methods"`
	Events  []Event      `json:"events"`
}

// GetMethod returns the method with the given name and parameter count,
// or nil. paramCount of -1 matches any arity.
func (a *ABI) GetMethod(name string, paramCount int) *Method {
	for i := range a.Methods {
		if a.Methods[i].Name == name && (paramCount == -1 || len(a.Methods[i].Parameters) == paramCount) {
			return &a.Methods[i]
		}
	}
	return nil
}

// GetEvent returns the event with the given name, or nil.
func (a *ABI) GetEvent(name string) *Event {
	for i := range a.Events {
		if a.Events[i].Name == name {
			return &a.Events[i]
		}
	}
	return nil
}

// IsValid checks ABI consistency: every method and event is individually
// valid, and no two methods share a name+arity or two events a name.
func (a *ABI) IsValid() error {
	if len(a.Methods) == 0 {
		return errors.New("no methods")
	}
	for i := range a.Methods {
		if err := a.Methods[i].IsValid(); err != nil {
			return fmt.Errorf("method %q/%d: %w", a.Methods[i].Name, len(a.Methods[i].Parameters), err)
		}
	}
	sorted := make([]Method, len(a.Methods))
	copy(sorted, a.Methods)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return len(sorted[i].Parameters) < len(sorted[j].Parameters)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Name == sorted[i-1].Name && len(sorted[i].Parameters) == len(sorted[i-1].Parameters) {
			return errors.New("duplicate method specifications")
		}
	}
	for i := range a.Events {
		if err := a.Events[i].IsValid(); err != nil {
			return fmt.Errorf("event %q: %w", a.Events[i].Name, err)
		}
	}
	seen := make(map[string]struct{}, len(a.Events))
	for _, e := range a.Events {
		if _, ok := seen[e.Name]; ok {
			return errors.New("duplicate event names")
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}
