package data

// Namespace identifies one of the logically isolated storage areas a
// cartridge script can address.
type Namespace string

const (
	// NamespaceCart is the read-only cartridge content.
	NamespaceCart Namespace = "cart"
	// NamespaceSave is persistent per-cartridge storage.
	NamespaceSave Namespace = "save"
	// NamespaceTemp is ephemeral per-cartridge scratch space.
	NamespaceTemp Namespace = "temp"
)

// Namespaces lists every resolvable namespace in mount order.
func Namespaces() []Namespace {
	return []Namespace{
		NamespaceCart,
		NamespaceSave,
		NamespaceTemp,
	}
}

// ParseNamespace returns the namespace matching name exactly.
func ParseNamespace(name string) (Namespace, bool) {
	switch Namespace(name) {
	case NamespaceCart, NamespaceSave, NamespaceTemp:
		return Namespace(name), true
	default:
		return "", false
	}
}

func (ns Namespace) String() string {
	return string(ns)
}
