package models

// IDMap translates client-local identifiers to the identifiers assigned
// by the authoritative store on insert. It is built incrementally while
// folders are inserted in topologically sorted order, so a folder's
// parent is always mapped before the folder itself.
type IDMap map[string]string

// NewIDMap returns an empty mapping.
func NewIDMap() IDMap {
	return make(IDMap)
}

// Set records the store-assigned identifier for a client-local one.
func (m IDMap) Set(oldID, newID string) {
	m[oldID] = newID
}

// Resolve rewrites a reference through the mapping. A nil input, or a
// reference that was never mapped (unknown or failed insert), resolves
// to nil: dangling references are normalized to "unfiled", never raised
// as an error.
func (m IDMap) Resolve(oldID *string) *string {
	if oldID == nil {
		return nil
	}
	newID, ok := m[*oldID]
	if !ok {
		return nil
	}
	return &newID
}
