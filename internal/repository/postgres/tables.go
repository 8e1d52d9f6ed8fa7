package postgres

import "fmt"

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Users         string
	Folders       string
	Decks         string
	Cards         string
	Settings      string
	StudySessions string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:         fmt.Sprintf("%susers", prefix),
		Folders:       fmt.Sprintf("%sfolders", prefix),
		Decks:         fmt.Sprintf("%sdecks", prefix),
		Cards:         fmt.Sprintf("%scards", prefix),
		Settings:      fmt.Sprintf("%suser_settings", prefix),
		StudySessions: fmt.Sprintf("%sstudy_sessions", prefix),
	}
}
