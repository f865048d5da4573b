package repositories

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/focus/internal/models"
	"github.com/desertthunder/focus/internal/shared"
)

// CatalogRepository stores the category to channel mapping.
type CatalogRepository struct {
	path    string
	logger  *log.Logger
	mu      sync.Mutex
	corrupt bool
}

// NewCatalogRepository creates a repository for the catalog document at path.
func NewCatalogRepository(path string, logger *log.Logger) *CatalogRepository {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CatalogRepository{path: path, logger: shared.WithLogger(logger, "store", "catalog")}
}

// Path returns the document location.
func (r *CatalogRepository) Path() string {
	return r.path
}

// Load reads the catalog.
//
// A missing file is created with the default categories. A malformed file is logged and the
// default catalog is returned without touching the file.
func (r *CatalogRepository) Load() (*models.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Save writes the catalog atomically.
func (r *CatalogRepository) Save(c *models.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(c)
}

// Categories lists category names in document order, excluding auxiliary keys.
func (r *CatalogRepository) Categories() ([]string, error) {
	c, err := r.Load()
	if err != nil {
		return nil, err
	}
	return c.CategoryNames(), nil
}

// Channels returns the channels of a category, or an empty list when it does not exist.
func (r *CatalogRepository) Channels(category string) ([]models.Channel, error) {
	c, err := r.Load()
	if err != nil {
		return nil, err
	}
	return c.Channels(category), nil
}

// AddChannel appends a channel, creating the category when missing.
//
// Returns false without writing when the id is already in the category.
func (r *CatalogRepository) AddChannel(category, name, id string) (bool, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return false, fmt.Errorf("%w: category name is empty", shared.ErrInvalidInput)
	}
	if !models.IsValidChannelID(id) {
		return false, fmt.Errorf("%w: %q is not a channel id", shared.ErrInvalidInput, id)
	}

	return r.update(func(c *models.Catalog) bool {
		return c.AddChannel(category, models.Channel{Name: strings.TrimSpace(name), ID: strings.TrimSpace(id)})
	})
}

// RemoveChannel deletes the channel with id from category. Returns false when absent.
func (r *CatalogRepository) RemoveChannel(category, id string) (bool, error) {
	return r.update(func(c *models.Catalog) bool {
		return c.RemoveChannel(category, id)
	})
}

// RemoveCategory deletes a category and its channels. Returns false when absent.
func (r *CatalogRepository) RemoveCategory(category string) (bool, error) {
	return r.update(func(c *models.Catalog) bool {
		return c.RemoveCategory(category)
	})
}

// GistID returns the stored Learning Log gist id, or "".
func (r *CatalogRepository) GistID() (string, error) {
	c, err := r.Load()
	if err != nil {
		return "", err
	}
	return c.AuxString(models.GistIDKey), nil
}

// SetGistID stores the Learning Log gist id.
func (r *CatalogRepository) SetGistID(id string) error {
	_, err := r.update(func(c *models.Catalog) bool {
		if c.AuxString(models.GistIDKey) == id {
			return false
		}
		c.SetAuxString(models.GistIDKey, id)
		return true
	})
	return err
}

// update runs a read-modify-write cycle, saving only when fn reports a change.
func (r *CatalogRepository) update(fn func(*models.Catalog) bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.load()
	if err != nil {
		return false, err
	}
	if !fn(c) {
		return false, nil
	}
	if err := r.save(c); err != nil {
		return false, err
	}
	return true, nil
}

func (r *CatalogRepository) load() (*models.Catalog, error) {
	data, ok, err := readDocument(r.path)
	if err != nil {
		return nil, err
	}

	if !ok {
		c := models.NewDefaultCatalog()
		r.logger.Info("creating default catalog", "path", r.path)
		if err := r.save(c); err != nil {
			return nil, err
		}
		return c, nil
	}

	var c models.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		r.corrupt = true
		r.logger.Warn("catalog is corrupted, using defaults", "path", r.path,
			"err", &StorageError{Op: "read", Path: r.path, Err: fmt.Errorf("%w: %v", shared.ErrStorageCorrupt, err)})
		return models.NewDefaultCatalog(), nil
	}
	r.corrupt = false
	return &c, nil
}

func (r *CatalogRepository) save(c *models.Catalog) error {
	data, err := shared.MarshalJSON(c, true)
	if err != nil {
		return &StorageError{Op: "write", Path: r.path, Err: err}
	}

	if r.corrupt {
		dest, err := quarantine(r.path)
		if err != nil {
			return err
		}
		r.logger.Warn("moved corrupted catalog aside", "path", dest)
		r.corrupt = false
	}
	return writeAtomic(r.path, append(data, '\n'))
}
