package config

const (
	// MaxSnapshotBytes is the maximum serialized size of an uploaded
	// snapshot. Payloads over this limit are rejected with 413 before
	// any database work begins.
	MaxSnapshotBytes = 5 << 20 // 5 MiB

	// MaxDecksPerUser caps the number of decks in one snapshot.
	MaxDecksPerUser = 500

	// MaxFoldersPerUser caps the number of folders in one snapshot.
	MaxFoldersPerUser = 200

	// MaxNameLength is the maximum length for folder and deck names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxNameLength = 255
)
