package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/taskq/pkg/entry"
)

// Snapshot is the whole persisted state: the entries in collection order and
// the tag registry.
type Snapshot struct {
	Entries []*entry.Entry
	Tags    []string
}

// Persistence saves and restores snapshots.
type Persistence interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Open creates the Persistence selected by cfg. A nil cfg is read with
// LoadConfig.
func Open(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	switch cfg.Backend() {
	case "", BackendDiskv:
		return openDiskv(cfg.BasePath()), nil
	case BackendSQLite:
		return openSQLite(cfg.BasePath())
	}
	return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend())
}

const (
	entriesDir = "entries"
	metaDir    = "meta"
	tagsKey    = metaDir + "/tags"
)

func openDiskv(basePath string) *diskvPersistence {
	return &diskvPersistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}
}

// diskvPersistence keeps one JSON file per entry under entries/, named by
// position and id, plus the registry under meta/tags.
type diskvPersistence struct {
	d        *diskv.Diskv
	basePath string
	// unreadable holds the entry keys the last Load skipped. Save leaves
	// them on disk.
	unreadable map[string]struct{}
}

func (p *diskvPersistence) read(key string) (*entry.Entry, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	e := &entry.Entry{}
	if err := json.Unmarshal(val, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *diskvPersistence) entryKeys(ctx context.Context) []string {
	keys := make([]string, 0)
	for key := range p.d.Keys(ctx.Done()) {
		if strings.HasPrefix(key, entriesDir+"/") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (p *diskvPersistence) Load(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	p.unreadable = make(map[string]struct{})
	for _, key := range p.entryKeys(ctx) {
		e, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			p.unreadable[key] = struct{}{}
			continue
		}
		s.Entries = append(s.Entries, e)
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	if p.d.Has(tagsKey) {
		data, err := p.d.Read(tagsKey)
		if err != nil {
			return Snapshot{}, fmt.Errorf("store: read tags: %w", err)
		}
		if err := json.Unmarshal(data, &s.Tags); err != nil {
			return Snapshot{}, fmt.Errorf("store: decode tags: %w", err)
		}
	}
	return s, nil
}

// Save writes every entry and erases the files of entries no longer held.
// Files Load could not read are kept.
func (p *diskvPersistence) Save(ctx context.Context, s Snapshot) error {
	if p.basePath == "" {
		return errors.New("store: base path unknown")
	}
	keep := make(map[string]struct{}, len(s.Entries))
	for i, e := range s.Entries {
		key := toKey(i, e)
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if err := p.d.Write(key, data); err != nil {
			return fmt.Errorf("store: write %s: %w", key, err)
		}
		keep[key] = struct{}{}
	}

	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	if err := p.d.Write(tagsKey, data); err != nil {
		return fmt.Errorf("store: write tags: %w", err)
	}

	for _, key := range p.entryKeys(ctx) {
		if _, ok := keep[key]; ok {
			continue
		}
		if _, ok := p.unreadable[key]; ok {
			fmt.Fprintf(os.Stderr, "store: keeping unreadable %s\n", key)
			continue
		}
		if err := p.d.Erase(key); err != nil {
			return fmt.Errorf("store: erase %s: %w", key, err)
		}
	}
	return ctx.Err()
}

func (p *diskvPersistence) Watch(ctx context.Context) (<-chan Event, error) {
	return watchDir(ctx, p.basePath, p.classify)
}

// classify maps a changed file under entries/ to its diskv key.
func (p *diskvPersistence) classify(path string) (string, bool) {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return "", false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if parts[0] != entriesDir || len(parts) < 2 {
		return "", false
	}
	return pathToKeyTransform(&diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}), true
}

func (p *diskvPersistence) Close() error {
	return nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(append([]string(nil), pathKey.Path...), pathKey.FileName), "/")
}

// toKey makes `entries/position_id`
func toKey(i int, e *entry.Entry) string {
	return fmt.Sprintf("%s/%06d_%s", entriesDir, i, e.ID())
}
