package model

// AliasMap maps a PRE-EA PID to the CSSM SKUs it is allowed to match when
// the PID itself is not present in the export. Keys and values are
// case-sensitive, whitespace-trimmed strings. Absence of a key means the
// PID matches only itself.
type AliasMap map[string][]string

// Resolve returns the acceptable SKUs for a PID. An unmapped PID resolves
// to itself; a mapped PID resolves to exactly the mapped set (the PID is
// not implicitly included, because the caller has already tried a direct
// match before consulting the map).
func (m AliasMap) Resolve(pid string) []string {
	if skus, ok := m[pid]; ok {
		return skus
	}
	return []string{pid}
}
