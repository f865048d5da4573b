package repositories

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/focus/internal/models"
	"github.com/desertthunder/focus/internal/shared"
)

// HistoryRepository stores watch entries as a chronological JSON array.
type HistoryRepository struct {
	path    string
	logger  *log.Logger
	mu      sync.Mutex
	corrupt bool
	now     func() time.Time
}

// NewHistoryRepository creates a repository for the history document at path.
func NewHistoryRepository(path string, logger *log.Logger) *HistoryRepository {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &HistoryRepository{
		path:   path,
		logger: shared.WithLogger(logger, "store", "history"),
		now:    time.Now,
	}
}

// Path returns the document location.
func (r *HistoryRepository) Path() string {
	return r.path
}

// LogWatch appends an entry stamped with the current time.
func (r *HistoryRepository) LogWatch(title, channel, videoID, category string) error {
	if strings.TrimSpace(videoID) == "" {
		return fmt.Errorf("%w: video id is empty", shared.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return err
	}

	entries = append(entries, models.WatchEntry{
		ID:        shared.GenerateID(),
		Title:     title,
		Channel:   channel,
		VideoID:   videoID,
		Category:  category,
		Timestamp: r.now().Format(time.RFC3339),
	})
	return r.save(entries)
}

// History returns all entries, oldest first. Missing or malformed history is empty.
func (r *HistoryRepository) History() ([]models.WatchEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Stats derives the dashboard figures from the full history.
func (r *HistoryRepository) Stats() (*models.Stats, error) {
	entries, err := r.History()
	if err != nil {
		return nil, err
	}
	return models.ComputeStats(entries), nil
}

func (r *HistoryRepository) load() ([]models.WatchEntry, error) {
	data, ok, err := readDocument(r.path)
	if err != nil {
		return nil, err
	}
	if !ok || len(strings.TrimSpace(string(data))) == 0 {
		return []models.WatchEntry{}, nil
	}

	var entries []models.WatchEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.corrupt = true
		r.logger.Warn("watch history is corrupted, starting empty", "path", r.path,
			"err", &StorageError{Op: "read", Path: r.path, Err: fmt.Errorf("%w: %v", shared.ErrStorageCorrupt, err)})
		return []models.WatchEntry{}, nil
	}
	r.corrupt = false
	if entries == nil {
		entries = []models.WatchEntry{}
	}
	return entries, nil
}

func (r *HistoryRepository) save(entries []models.WatchEntry) error {
	data, err := shared.MarshalJSON(entries, true)
	if err != nil {
		return &StorageError{Op: "write", Path: r.path, Err: err}
	}

	if r.corrupt {
		dest, err := quarantine(r.path)
		if err != nil {
			return err
		}
		r.logger.Warn("moved corrupted history aside", "path", dest)
		r.corrupt = false
	}
	return writeAtomic(r.path, append(data, '\n'))
}
