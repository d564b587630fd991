// Package colors hands out Google Calendar color ids per task name, recycling
// the least recently used one once all eleven are taken.
package colors

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	cacheFile = "task_colors.json"

	// NoTaskColor is graphite, used for rows without a task name.
	NoTaskColor = "8"
	paletteSize = 11
)

type TaskState struct {
	ColorID      string    `json:"color_id"`
	LastModified time.Time `json:"last_modified"`
}

type ColorCache struct {
	Path  string
	Tasks map[string]*TaskState `json:"tasks"`
	dirty bool
	now   func() time.Time
}

// NewColorCache loads the cache stored in dir, or starts an empty one.
func NewColorCache(dir string) (*ColorCache, error) {
	cache := &ColorCache{
		Path:  filepath.Join(dir, cacheFile),
		Tasks: make(map[string]*TaskState),
		now:   time.Now,
	}

	if _, err := os.Stat(cache.Path); err == nil {
		if err := cache.Load(); err != nil {
			return nil, err
		}
	}
	return cache, nil
}

func (c *ColorCache) Load() error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&c.Tasks); err != nil {
		return err
	}
	if c.Tasks == nil {
		c.Tasks = make(map[string]*TaskState)
	}
	return nil
}

func (c *ColorCache) Save() error {
	if !c.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0700); err != nil {
		return err
	}

	f, err := os.Create(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	err = json.NewEncoder(f).Encode(c.Tasks)
	if err == nil {
		c.dirty = false
	}
	return err
}

// ColorID returns the color for a task name, assigning one if needed.
func (c *ColorCache) ColorID(task string) string {
	if task == "" {
		return NoTaskColor
	}

	if state, exists := c.Tasks[task]; exists {
		state.LastModified = c.now()
		c.dirty = true
		return state.ColorID
	}
	return c.assignColor(task)
}

func (c *ColorCache) assignColor(task string) string {
	used := make(map[string]bool)
	for _, s := range c.Tasks {
		used[s.ColorID] = true
	}

	for i := 1; i <= paletteSize; i++ {
		id := strconv.Itoa(i)
		if !used[id] {
			c.claim(task, id)
			return id
		}
	}

	// Full: recycle the least recently used color.
	var oldest string
	var oldestTime time.Time
	for name, s := range c.Tasks {
		if oldest == "" || s.LastModified.Before(oldestTime) || (s.LastModified.Equal(oldestTime) && name < oldest) {
			oldest, oldestTime = name, s.LastModified
		}
	}
	recycled := c.Tasks[oldest].ColorID
	delete(c.Tasks, oldest)
	c.claim(task, recycled)
	return recycled
}

func (c *ColorCache) claim(task, id string) {
	c.Tasks[task] = &TaskState{ColorID: id, LastModified: c.now()}
	c.dirty = true
}
