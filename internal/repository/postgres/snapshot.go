package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"studyflow/internal/domain/models"
	"studyflow/internal/domain/repositories"
)

// PostgresSnapshotRepository implements the SnapshotRepository interface
type PostgresSnapshotRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(config *RepositoryConfig) repositories.SnapshotRepository {
	return &PostgresSnapshotRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Load assembles the user's complete snapshot. Integer row IDs are
// serialized as strings so the wire shape is uniform regardless of the
// underlying key type.
func (r *PostgresSnapshotRepository) Load(ctx context.Context, userID string) (*models.Snapshot, error) {
	q := GetExecutor(ctx, r.pool)

	folders, err := r.loadFolders(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	decks, deckIDs, err := r.loadDecks(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	if len(deckIDs) > 0 {
		cardsByDeck, err := r.loadCards(ctx, q, deckIDs)
		if err != nil {
			return nil, err
		}
		for i := range decks {
			decks[i].Cards = cardsByDeck[deckIDs[i]]
			if decks[i].Cards == nil {
				decks[i].Cards = []models.Card{}
			}
		}
	}

	settings, err := r.loadSettings(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	sessions, err := r.loadStudySessions(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	return &models.Snapshot{
		Folders:  folders,
		Decks:    decks,
		Settings: settings,
		Stats:    models.Stats{StudySessions: sessions},
	}, nil
}

// Replace performs the full-replace save. It must be called inside a
// transaction (via TransactionManager.ExecTx) so that the delete and
// reinsert are atomic: on any failure the prior data stays fully
// intact.
func (r *PostgresSnapshotRepository) Replace(ctx context.Context, userID string, snapshot *models.Snapshot) error {
	q := GetExecutor(ctx, r.pool)

	// 1. Delete existing data in dependency order (children first).
	deletes := []string{
		fmt.Sprintf("DELETE FROM %s WHERE user_id = $1", r.tables.StudySessions),
		fmt.Sprintf("DELETE FROM %s WHERE deck_id IN (SELECT id FROM %s WHERE user_id = $1)",
			r.tables.Cards, r.tables.Decks),
		fmt.Sprintf("DELETE FROM %s WHERE user_id = $1", r.tables.Decks),
		fmt.Sprintf("DELETE FROM %s WHERE user_id = $1", r.tables.Folders),
	}
	for _, del := range deletes {
		if _, err := q.Exec(ctx, del, userID); err != nil {
			return fmt.Errorf("delete existing data: %w", err)
		}
	}

	// 2. Insert folders parent-before-child, building the ID map as
	// each insert returns its new key.
	idMap := models.NewIDMap()
	insertFolder := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, parent_folder_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, r.tables.Folders)

	for _, folder := range models.SortFoldersForInsert(snapshot.Folders) {
		var newID int64
		err := q.QueryRow(ctx, insertFolder,
			userID,
			folder.Name,
			toRowID(idMap.Resolve(folder.ParentFolderID)),
			orNow(folder.Created),
		).Scan(&newID)
		if err != nil {
			return fmt.Errorf("insert folder %q: %w", folder.Name, err)
		}
		idMap.Set(folder.ID, strconv.FormatInt(newID, 10))
	}

	// 3. Insert decks (folder references remapped) and their cards,
	// preserving card order as an explicit sort column.
	insertDeck := fmt.Sprintf(`
		INSERT INTO %s (user_id, folder_id, name, category, visibility, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, r.tables.Decks)
	insertCard := fmt.Sprintf(`
		INSERT INTO %s (deck_id, front, back, media_url, sort_order)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.Cards)

	for _, deck := range snapshot.Decks {
		visibility := deck.Visibility
		if visibility == "" {
			visibility = "private"
		}

		var deckID int64
		err := q.QueryRow(ctx, insertDeck,
			userID,
			toRowID(idMap.Resolve(deck.FolderID)),
			deck.Name,
			nullIfEmpty(deck.Category),
			visibility,
			orNow(deck.Created),
		).Scan(&deckID)
		if err != nil {
			return fmt.Errorf("insert deck %q: %w", deck.Name, err)
		}

		for i, card := range deck.Cards {
			_, err := q.Exec(ctx, insertCard,
				deckID,
				card.Front,
				card.Back,
				nullIfEmpty(card.MediaURL),
				i,
			)
			if err != nil {
				return fmt.Errorf("insert card %d of deck %q: %w", i, deck.Name, err)
			}
		}
	}

	// 4. Upsert the single settings row.
	upsertSettings := fmt.Sprintf(`
		INSERT INTO %s (user_id, stats_enabled, dark_mode, font_size, high_contrast, reduced_motion, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			stats_enabled = EXCLUDED.stats_enabled,
			dark_mode = EXCLUDED.dark_mode,
			font_size = EXCLUDED.font_size,
			high_contrast = EXCLUDED.high_contrast,
			reduced_motion = EXCLUDED.reduced_motion,
			updated_at = NOW()
	`, r.tables.Settings)

	fontSize := snapshot.Settings.FontSize
	if fontSize == "" {
		fontSize = "medium"
	}
	_, err := q.Exec(ctx, upsertSettings,
		userID,
		snapshot.Settings.StatsEnabled,
		snapshot.Settings.DarkMode,
		fontSize,
		snapshot.Settings.HighContrast,
		snapshot.Settings.ReducedMotion,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	// 5. Insert study sessions.
	insertSession := fmt.Sprintf(`
		INSERT INTO %s (user_id, deck_name, cards_studied, studied_at)
		VALUES ($1, $2, $3, $4)
	`, r.tables.StudySessions)

	for _, session := range snapshot.Stats.StudySessions {
		deckName := session.DeckName
		if deckName == "" {
			deckName = "Unknown"
		}
		_, err := q.Exec(ctx, insertSession,
			userID,
			deckName,
			session.CardsStudied,
			orNow(session.Timestamp),
		)
		if err != nil {
			return fmt.Errorf("insert study session: %w", err)
		}
	}

	return nil
}

func (r *PostgresSnapshotRepository) loadFolders(ctx context.Context, q repositories.DBTX, userID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, name, parent_folder_id, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY name
	`, r.tables.Folders)

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("load folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		var (
			id       int64
			parentID *int64
			folder   models.Folder
		)
		if err := rows.Scan(&id, &folder.Name, &parentID, &folder.Created); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folder.ID = strconv.FormatInt(id, 10)
		folder.ParentFolderID = fromRowID(parentID)
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

func (r *PostgresSnapshotRepository) loadDecks(ctx context.Context, q repositories.DBTX, userID string) ([]models.Deck, []int64, error) {
	query := fmt.Sprintf(`
		SELECT id, name, category, visibility, folder_id, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at
	`, r.tables.Decks)

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load decks: %w", err)
	}
	defer rows.Close()

	decks := []models.Deck{}
	deckIDs := []int64{}
	for rows.Next() {
		var (
			id       int64
			category *string
			folderID *int64
			deck     models.Deck
		)
		if err := rows.Scan(&id, &deck.Name, &category, &deck.Visibility, &folderID, &deck.Created); err != nil {
			return nil, nil, fmt.Errorf("scan deck: %w", err)
		}
		deck.ID = strconv.FormatInt(id, 10)
		if category != nil {
			deck.Category = *category
		}
		deck.FolderID = fromRowID(folderID)
		deck.Cards = []models.Card{}
		decks = append(decks, deck)
		deckIDs = append(deckIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate decks: %w", err)
	}

	return decks, deckIDs, nil
}

func (r *PostgresSnapshotRepository) loadCards(ctx context.Context, q repositories.DBTX, deckIDs []int64) (map[int64][]models.Card, error) {
	query := fmt.Sprintf(`
		SELECT deck_id, front, back, media_url
		FROM %s
		WHERE deck_id = ANY($1)
		ORDER BY deck_id, sort_order
	`, r.tables.Cards)

	rows, err := q.Query(ctx, query, deckIDs)
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	defer rows.Close()

	cardsByDeck := make(map[int64][]models.Card)
	for rows.Next() {
		var (
			deckID   int64
			mediaURL *string
			card     models.Card
		)
		if err := rows.Scan(&deckID, &card.Front, &card.Back, &mediaURL); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		if mediaURL != nil {
			card.MediaURL = *mediaURL
		}
		cardsByDeck[deckID] = append(cardsByDeck[deckID], card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	return cardsByDeck, nil
}

func (r *PostgresSnapshotRepository) loadSettings(ctx context.Context, q repositories.DBTX, userID string) (models.Settings, error) {
	query := fmt.Sprintf(`
		SELECT stats_enabled, dark_mode, font_size, high_contrast, reduced_motion
		FROM %s
		WHERE user_id = $1
	`, r.tables.Settings)

	var settings models.Settings
	err := q.QueryRow(ctx, query, userID).Scan(
		&settings.StatsEnabled,
		&settings.DarkMode,
		&settings.FontSize,
		&settings.HighContrast,
		&settings.ReducedMotion,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return models.DefaultSettings(), nil
		}
		return models.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	return settings, nil
}

func (r *PostgresSnapshotRepository) loadStudySessions(ctx context.Context, q repositories.DBTX, userID string) ([]models.StudySession, error) {
	query := fmt.Sprintf(`
		SELECT deck_name, cards_studied, studied_at
		FROM %s
		WHERE user_id = $1
		ORDER BY studied_at
	`, r.tables.StudySessions)

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("load study sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.StudySession{}
	for rows.Next() {
		var session models.StudySession
		if err := rows.Scan(&session.DeckName, &session.CardsStudied, &session.Timestamp); err != nil {
			return nil, fmt.Errorf("scan study session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate study sessions: %w", err)
	}

	return sessions, nil
}

// toRowID parses a remapped wire identifier back into a nullable row
// key. Unparsable values become NULL, consistent with the
// dangling-reference policy.
func toRowID(id *string) *int64 {
	if id == nil {
		return nil
	}
	v, err := strconv.ParseInt(*id, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// fromRowID serializes a nullable row key as a wire identifier.
func fromRowID(id *int64) *string {
	if id == nil {
		return nil
	}
	s := strconv.FormatInt(*id, 10)
	return &s
}

// nullIfEmpty maps empty optional strings to NULL columns.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// orNow substitutes the current time for zero timestamps from clients
// that omitted the created field.
func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
