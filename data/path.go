package data

import (
	"errors"
	"strings"

	verrors "github.com/mwantia/cartvfs/data/errors"
)

// MaxPathLength bounds the raw path accepted by ParsePath.
const MaxPathLength = 4096

var (
	errEmptyPath        = errors.New("path is empty")
	errPathTooLong      = errors.New("path exceeds maximum length")
	errBareAbsolute     = errors.New("absolute path without namespace")
	errBackslash        = errors.New("backslash separator")
	errControlCharacter = errors.New("control character")
	errMissingNamespace = errors.New("missing namespace prefix")
	errUnknownNamespace = errors.New("unknown namespace")
	errMissingRoot      = errors.New("namespace must be followed by ':/'")
	errDriveLetter      = errors.New("drive letter")
	errTraversal        = errors.New("'.' or '..' segment")
	errNoSegments       = errors.New("no path below namespace root")
)

// Path is a validated, namespace-tagged location. Its key is relative,
// slash separated and free of empty, '.' and '..' segments, so it always
// denotes a location inside its namespace's mount root.
//
// A Path can only be obtained through ParsePath or ParseDirectory.
type Path struct {
	namespace Namespace
	key       string
}

// ParsePath parses "<namespace>:/<segment>(/<segment>)*" into a Path.
// Repeated slashes are collapsed; a path that resolves to the namespace
// root itself is rejected.
func ParsePath(raw string) (Path, error) {
	return parse(raw, false)
}

// ParseDirectory behaves like ParsePath but also accepts the namespace
// root ("save:/").
func ParseDirectory(raw string) (Path, error) {
	return parse(raw, true)
}

func parse(raw string, allowRoot bool) (Path, error) {
	if raw == "" {
		return Path{}, verrors.InvalidPath(errEmptyPath, raw)
	}
	if len(raw) > MaxPathLength {
		return Path{}, verrors.InvalidPath(errPathTooLong, raw)
	}
	if strings.HasPrefix(raw, "/") {
		return Path{}, verrors.InvalidPath(errBareAbsolute, raw)
	}
	if strings.ContainsRune(raw, '\\') {
		return Path{}, verrors.InvalidPath(errBackslash, raw)
	}
	if hasControlCharacter(raw) {
		return Path{}, verrors.InvalidPath(errControlCharacter, raw)
	}

	idx := strings.IndexByte(raw, ':')
	if idx < 0 {
		return Path{}, verrors.InvalidPath(errMissingNamespace, raw)
	}

	namespace, ok := ParseNamespace(raw[:idx])
	if !ok {
		return Path{}, verrors.InvalidPath(errUnknownNamespace, raw)
	}

	rest := raw[idx+1:]
	if !strings.HasPrefix(rest, "/") {
		return Path{}, verrors.InvalidPath(errMissingRoot, raw)
	}
	if hasDriveLetter(rest) {
		return Path{}, verrors.InvalidPath(errDriveLetter, raw)
	}

	segments := make([]string, 0, strings.Count(rest, "/"))
	for _, segment := range strings.Split(rest, "/") {
		switch segment {
		case "":
			continue
		case ".", "..":
			return Path{}, verrors.InvalidPath(errTraversal, raw)
		}
		segments = append(segments, segment)
	}

	if len(segments) == 0 && !allowRoot {
		return Path{}, verrors.InvalidPath(errNoSegments, raw)
	}

	return Path{
		namespace: namespace,
		key:       strings.Join(segments, "/"),
	}, nil
}

// hasDriveLetter reports whether s contains "[A-Za-z]:" anywhere.
func hasDriveLetter(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != ':' {
			continue
		}
		c := s[i-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}

func hasControlCharacter(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			return true
		}
	}
	return false
}

// Namespace returns the namespace the path belongs to.
func (p Path) Namespace() Namespace {
	return p.namespace
}

// Key returns the relative key below the namespace root.
// It is empty only for a namespace root obtained through ParseDirectory.
func (p Path) Key() string {
	return p.key
}

// IsRoot reports whether p denotes the namespace root.
func (p Path) IsRoot() bool {
	return p.key == ""
}

// Name returns the last segment of the key.
func (p Path) Name() string {
	if idx := strings.LastIndexByte(p.key, '/'); idx >= 0 {
		return p.key[idx+1:]
	}
	return p.key
}

// Child returns the path of a direct child named name. The caller must
// pass a single segment obtained from a backend listing.
func (p Path) Child(name string) Path {
	if p.key == "" {
		return Path{namespace: p.namespace, key: name}
	}
	return Path{namespace: p.namespace, key: p.key + "/" + name}
}

// String returns the canonical "<namespace>:/<key>" form.
func (p Path) String() string {
	return string(p.namespace) + ":/" + p.key
}
