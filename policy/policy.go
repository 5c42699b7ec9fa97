// Package policy decides which namespace and operation combinations a
// cartridge script may perform. It is a pure lookup and never touches
// the filesystem.
package policy

import "github.com/mwantia/cartvfs/data"

// Operation is the kind of access requested on a namespace.
type Operation int

const (
	OperationRead Operation = iota
	OperationWrite
)

func (o Operation) String() string {
	switch o {
	case OperationRead:
		return "read"
	case OperationWrite:
		return "write"
	default:
		return "unknown"
	}
}

// MountState reports whether a namespace currently has a working mount.
type MountState interface {
	IsMounted(ns data.Namespace) bool
}

// Rule is the static policy entry of a namespace.
type Rule struct {
	Namespace    data.Namespace
	Readable     bool
	Writable     bool
	NeedsGrant   bool // Writes additionally require the manifest save permission
	QuotaChecked bool
}

// Rules lists the static policy of every namespace.
var Rules = map[data.Namespace]Rule{
	data.NamespaceCart: {
		Namespace: data.NamespaceCart,
		Readable:  true,
	},
	data.NamespaceSave: {
		Namespace:    data.NamespaceSave,
		Readable:     true,
		Writable:     true,
		NeedsGrant:   true,
		QuotaChecked: true,
	},
	data.NamespaceTemp: {
		Namespace:    data.NamespaceTemp,
		Readable:     true,
		Writable:     true,
		QuotaChecked: true,
	},
}

// Policy combines the static rules with the session's save permission and
// the live mount state.
type Policy struct {
	saveEnabled bool
	state       MountState
}

func New(saveEnabled bool, state MountState) *Policy {
	return &Policy{
		saveEnabled: saveEnabled,
		state:       state,
	}
}

// Authorize reports whether op is allowed on ns.
func (p *Policy) Authorize(ns data.Namespace, op Operation) bool {
	rule, ok := Rules[ns]
	if !ok {
		return false
	}

	if p.state == nil || !p.state.IsMounted(ns) {
		return false
	}

	switch op {
	case OperationRead:
		return rule.Readable
	case OperationWrite:
		if !rule.Writable {
			return false
		}
		if rule.NeedsGrant && !p.saveEnabled {
			return false
		}
		return true
	default:
		return false
	}
}

// SaveEnabled reports whether the session was granted save writes.
func (p *Policy) SaveEnabled() bool {
	return p.saveEnabled
}

// QuotaChecked reports whether writes to ns are subject to a quota.
func QuotaChecked(ns data.Namespace) bool {
	return Rules[ns].QuotaChecked
}
