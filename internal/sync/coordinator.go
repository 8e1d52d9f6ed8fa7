package sync

import (
	"context"
	"errors"
	"log/slog"

	"studyflow/internal/cache"
	"studyflow/internal/domain/models"
)

var errCacheWrite = errors.New("local cache write failed")

// State is the coordinator's position in one sync attempt.
type State int

const (
	StateIdle State = iota
	StateAuthenticating
	StateProbing
	StateDownloading
	StateUploading
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAuthenticating:
		return "authenticating"
	case StateProbing:
		return "probing"
	case StateDownloading:
		return "downloading"
	case StateUploading:
		return "uploading"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Coordinator runs one sync attempt against the local cache:
//
//	Idle -> Authenticating -> Probing -> {Downloading | Uploading} -> Done | Failed
//
// If the remote snapshot holds any folder or deck, the remote wins and
// overwrites the cache wholesale; only an empty remote receives the
// local data. Failures are terminal for the attempt - there are no
// retries, the next app start probes again - and never corrupt the
// cache: local writes happen only after a complete response, and the
// upload payload is fully built in memory before the request goes out.
type Coordinator struct {
	client *Client
	store  *cache.Store
	logger *slog.Logger
	state  State
}

// NewCoordinator creates a sync coordinator.
func NewCoordinator(client *Client, store *cache.Store, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		client: client,
		store:  store,
		logger: logger,
		state:  StateIdle,
	}
}

// State returns the state reached by the most recent Sync call.
func (c *Coordinator) State() State {
	return c.state
}

// Sync performs one full sync attempt and returns the final state.
// Every failure path is logged rather than raised: the app keeps
// operating against the local cache regardless of remote availability.
func (c *Coordinator) Sync(ctx context.Context) State {
	c.setState(StateAuthenticating)
	if _, err := c.client.EnsureUser(ctx); err != nil {
		return c.fail("ensure user", err)
	}

	c.setState(StateProbing)
	remote, err := c.client.FetchSnapshot(ctx)
	if err != nil {
		return c.fail("probe remote", err)
	}

	if remote.IsEmpty() {
		c.setState(StateUploading)
		local := c.localSnapshot()
		if err := c.client.PushSnapshot(ctx, local); err != nil {
			return c.fail("upload", err)
		}
		c.logger.Info("local data uploaded",
			"folders", len(local.Folders),
			"decks", len(local.Decks),
		)
	} else {
		c.setState(StateDownloading)
		if !c.applyRemote(remote) {
			return c.fail("apply remote", errCacheWrite)
		}
		c.logger.Info("remote data downloaded",
			"folders", len(remote.Folders),
			"decks", len(remote.Decks),
		)
	}

	c.setState(StateDone)
	return c.state
}

// localSnapshot assembles the upload payload from the cache.
func (c *Coordinator) localSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Folders:  c.store.Folders(),
		Decks:    c.store.Decks(),
		Settings: c.store.Settings(),
		Stats:    models.Stats{StudySessions: c.store.StudySessions()},
	}
}

// applyRemote overwrites the local cache with the remote snapshot.
// Remote wins unconditionally - local edits made before the sync
// completed are discarded.
func (c *Coordinator) applyRemote(remote *models.Snapshot) bool {
	ok := c.store.SaveFolders(remote.Folders)
	ok = c.store.SaveDecks(remote.Decks) && ok
	ok = c.store.SaveSettings(remote.Settings) && ok
	ok = c.store.SaveStudySessions(remote.Stats.StudySessions) && ok
	return ok
}

func (c *Coordinator) setState(state State) {
	c.state = state
	c.logger.Debug("sync state", "state", state.String())
}

func (c *Coordinator) fail(step string, err error) State {
	c.logger.Warn("sync failed", "step", step, "error", err)
	c.state = StateFailed
	return c.state
}
