package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Cache is a thread-safe JSON file holding the small client-side state that
// survives restarts: the bearer token and the last selected dater. The
// server remains the source of truth; this is only the last-known value.
type Cache struct {
	mu       sync.RWMutex
	filePath string
}

type cacheData struct {
	Token           string `json:"token,omitempty"`
	SelectedDaterID string `json:"selected_dater_id,omitempty"`
}

// NewCache creates a cache file under dataDir.
func NewCache(dataDir, filename string) (*Cache, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	return &Cache{filePath: filepath.Join(dataDir, filename)}, nil
}

// Token returns the cached bearer token, or "" when none is stored.
func (c *Cache) Token() string {
	data, _ := c.load()
	return data.Token
}

// SetToken stores the bearer token. An empty token clears it.
func (c *Cache) SetToken(token string) error {
	return c.update(func(d *cacheData) { d.Token = token })
}

// SelectedDaterID returns the cached selected-dater id, or "".
func (c *Cache) SelectedDaterID() string {
	data, _ := c.load()
	return data.SelectedDaterID
}

// SetSelectedDaterID stores the selected-dater id.
func (c *Cache) SetSelectedDaterID(id string) error {
	return c.update(func(d *cacheData) { d.SelectedDaterID = id })
}

// Clear removes all cached values. Used on logout and session expiry.
func (c *Cache) Clear() error {
	return c.update(func(d *cacheData) { *d = cacheData{} })
}

func (c *Cache) load() (cacheData, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.read()
}

func (c *Cache) read() (cacheData, error) {
	var data cacheData
	file, err := os.Open(c.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return data, err
	}
	defer file.Close()
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		return cacheData{}, err
	}
	return data, nil
}

func (c *Cache) update(mutate func(*cacheData)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.read()
	if err != nil {
		return err
	}
	mutate(&data)

	// Write to a temp file first, then rename, so a crash mid-write never
	// truncates the cache.
	tempFile := c.filePath + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}
	return os.Rename(tempFile, c.filePath)
}
