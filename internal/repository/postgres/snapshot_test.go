package postgres

import (
	"testing"
	"time"
)

func TestToRowID(t *testing.T) {
	if got := toRowID(nil); got != nil {
		t.Errorf("toRowID(nil) = %v, want nil", got)
	}

	id := "42"
	got := toRowID(&id)
	if got == nil || *got != 42 {
		t.Errorf("toRowID(42) = %v, want 42", got)
	}

	// Client-generated placeholder IDs never parse; they map to NULL
	// rather than erroring.
	placeholder := "f_9b1deb4d"
	if got := toRowID(&placeholder); got != nil {
		t.Errorf("toRowID(placeholder) = %v, want nil", got)
	}
}

func TestFromRowID(t *testing.T) {
	if got := fromRowID(nil); got != nil {
		t.Errorf("fromRowID(nil) = %v, want nil", got)
	}

	var id int64 = 7
	got := fromRowID(&id)
	if got == nil || *got != "7" {
		t.Errorf("fromRowID(7) = %v, want \"7\"", got)
	}
}

func TestNullIfEmpty(t *testing.T) {
	if got := nullIfEmpty(""); got != nil {
		t.Errorf("nullIfEmpty(\"\") = %v, want nil", got)
	}
	if got := nullIfEmpty("language"); got == nil || *got != "language" {
		t.Errorf("nullIfEmpty(language) = %v", got)
	}
}

func TestOrNow(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	if got := orNow(fixed); !got.Equal(fixed) {
		t.Errorf("orNow should pass non-zero timestamps through, got %v", got)
	}

	before := time.Now()
	got := orNow(time.Time{})
	if got.Before(before) || got.After(time.Now().Add(time.Minute)) {
		t.Errorf("orNow(zero) should be roughly now, got %v", got)
	}
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("test_")
	if tables.Folders != "test_folders" {
		t.Errorf("Folders = %q, want test_folders", tables.Folders)
	}
	if tables.StudySessions != "test_study_sessions" {
		t.Errorf("StudySessions = %q, want test_study_sessions", tables.StudySessions)
	}

	bare := NewTableNames("")
	if bare.Users != "users" {
		t.Errorf("Users = %q, want users", bare.Users)
	}
}
