package models

// SortFoldersForInsert orders folders so that every folder's parent (if
// present in the set) appears before it, enabling one-pass
// parent-before-child insertion into a store with foreign-key
// constraints.
//
// The scan is bounded at n*n passes so cyclic parent references cannot
// loop forever. Anything still unresolved after the bound is treated as
// an orphan: its parent pointer is cleared and it is appended at the
// end. Every input folder appears exactly once in the output - a broken
// hierarchy must never block a sync.
func SortFoldersForInsert(folders []Folder) []Folder {
	sorted := make([]Folder, 0, len(folders))
	remaining := append([]Folder(nil), folders...)
	inserted := make(map[string]bool, len(folders))

	maxPasses := len(folders) * len(folders)
	for pass := 0; len(remaining) > 0 && pass < maxPasses; pass++ {
		var deferred []Folder
		for _, f := range remaining {
			if f.ParentFolderID == nil || inserted[*f.ParentFolderID] {
				sorted = append(sorted, f)
				inserted[f.ID] = true
			} else {
				deferred = append(deferred, f)
			}
		}
		if len(deferred) == len(remaining) {
			// No progress: everything left is cyclic or dangling.
			remaining = deferred
			break
		}
		remaining = deferred
	}

	// Orphans: force to root rather than dropping them.
	for _, f := range remaining {
		f.ParentFolderID = nil
		sorted = append(sorted, f)
	}

	return sorted
}
