package vector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
)

// MetaFileName is the fixed name of the metadata record inside each cache
// subdirectory.
const MetaFileName = "meta.json"

// Metadata is the committed record of one cached vector: the generation
// parameters plus the basenames of the three stage outputs. It is written
// exactly once, after all three stages succeed, and read-only afterwards.
type Metadata struct {
	Params          map[string]float64
	InputFile       string
	ChannelizedFile string
	InvertedFile    string
}

// MarshalJSON flattens the parameters and file names into a single JSON
// object, matching the sidecar schema of existing vector corpora.
func (m Metadata) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(m.Params)+3)
	for k, v := range m.Params {
		obj[k] = v
	}
	obj["input_file"] = m.InputFile
	obj["channelized_file"] = m.ChannelizedFile
	obj["inverted_file"] = m.InvertedFile
	return json.Marshal(obj)
}

// UnmarshalJSON is the inverse of MarshalJSON: the three well-known file
// fields are lifted out and every remaining numeric field is a parameter.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	files := map[string]*string{
		"input_file":       &m.InputFile,
		"channelized_file": &m.ChannelizedFile,
		"inverted_file":    &m.InvertedFile,
	}
	m.Params = make(map[string]float64)
	for k, v := range obj {
		if dst, ok := files[k]; ok {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("metadata field %s is not a string", k)
			}
			*dst = s
			continue
		}
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("metadata parameter %s is not numeric", k)
		}
		m.Params[k] = f
	}
	return nil
}

// Cache is the parameter-keyed on-disk vector cache. Entries live under
// <base>/<domain>/<key>/ with a meta.json sidecar beside the generated
// files. The cache does no locking; two processes racing on the same key
// may both attempt to create the same directory (single-writer
// assumption).
type Cache struct {
	baseDir string
	logger  *log.Logger
}

// NewCache creates a cache rooted at cfg.BaseDir.
func NewCache(cfg Config, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.Default()
	}
	return &Cache{baseDir: cfg.BaseDir, logger: logger}
}

// BaseDir returns the cache root.
func (c *Cache) BaseDir() string { return c.baseDir }

// EntryDir returns the cache subdirectory for a parameter set.
func (c *Cache) EntryDir(params ParameterSet) string {
	return filepath.Join(c.baseDir, params.Domain().String(), params.Key())
}

// Lookup checks whether a committed entry exists for params. An existing
// subdirectory is a lifted guarantee that a decodable metadata record
// exists inside it; a present directory with a missing or undecodable
// record is ErrCacheCorruption, never partial reuse. An absent directory
// is a plain miss: (nil, false, nil).
func (c *Cache) Lookup(params ParameterSet) (*Metadata, bool, error) {
	dir := c.EntryDir(params)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			c.logger.Debug("cache miss", "domain", params.Domain(), "key", params.Key())
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("unable to stat cache entry %s: %w", dir, err)
	}

	meta, err := readMetadata(filepath.Join(dir, MetaFileName))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCacheCorruption, dir, err)
	}

	c.logger.Debug("cache hit", "domain", params.Domain(), "key", params.Key())
	return meta, true, nil
}

// Commit persists the metadata record into the entry directory. Failure
// is ErrPersistence; the artifact files stay on disk uncommitted and a
// later lookup treats the key as corrupt or missing accordingly.
func (c *Cache) Commit(dir string, meta *Metadata) error {
	data, err := json.MarshalIndent(meta, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetaFileName), data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	c.logger.Info("cache entry committed", "dir", dir)
	return nil
}

// Entry describes one committed cache entry, for listings.
type Entry struct {
	Domain string
	Key    string
	Dir    string
	Size   int64
	Meta   *Metadata
}

// Entries walks the cache and returns all committed entries, sorted by
// domain then key. Uncommitted directories (no metadata record) are
// skipped, not repaired.
func (c *Cache) Entries() ([]Entry, error) {
	var entries []Entry

	domains, err := os.ReadDir(c.baseDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read cache root: %w", err)
	}

	for _, dom := range domains {
		if !dom.IsDir() {
			continue
		}
		keys, err := os.ReadDir(filepath.Join(c.baseDir, dom.Name()))
		if err != nil {
			return nil, fmt.Errorf("unable to read cache domain %s: %w", dom.Name(), err)
		}
		for _, key := range keys {
			if !key.IsDir() {
				continue
			}
			dir := filepath.Join(c.baseDir, dom.Name(), key.Name())
			meta, err := readMetadata(filepath.Join(dir, MetaFileName))
			if err != nil {
				c.logger.Warn("skipping uncommitted cache entry", "dir", dir)
				continue
			}
			entries = append(entries, Entry{
				Domain: dom.Name(),
				Key:    key.Name(),
				Dir:    dir,
				Size:   dirSize(dir),
				Meta:   meta,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Domain != entries[j].Domain {
			return entries[i].Domain < entries[j].Domain
		}
		return entries[i].Key < entries[j].Key
	})
	return entries, nil
}

// Clear removes every entry under the cache root, committed or not.
func (c *Cache) Clear() error {
	domains, err := os.ReadDir(c.baseDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to read cache root: %w", err)
	}
	for _, dom := range domains {
		if err := os.RemoveAll(filepath.Join(c.baseDir, dom.Name())); err != nil {
			return fmt.Errorf("unable to clear cache: %w", err)
		}
	}
	c.logger.Info("cache cleared", "dir", c.baseDir)
	return nil
}

func readMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func dirSize(dir string) int64 {
	var size int64
	_ = filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}
