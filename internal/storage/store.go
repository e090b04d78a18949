package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sgostarter/i/l"

	"github.com/san-kum/datac/internal/datac"
)

const (
	Ext = ".dat"

	docCacheTTL = 5 * time.Minute
)

// Store keeps one JSON data file per dataset name under baseDir.
type Store struct {
	baseDir string
	logger  l.Wrapper
	docs    *cache.Cache
}

func New(baseDir string, logger l.Wrapper) *Store {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	return &Store{
		baseDir: baseDir,
		logger:  logger.WithFields(l.StringField(l.ClsKey, "storage"), l.StringField("dir", baseDir)),
		docs:    cache.New(docCacheTTL, 2*docCacheTTL),
	}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string {
	return s.baseDir
}

func (s *Store) Path(name string) string {
	return filepath.Join(s.baseDir, name+Ext)
}

func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}

// Save writes the record's projection to <dir>/<name>.dat, replacing any
// existing file, and caches the written document for Load.
func (s *Store) Save(name string, rec *datac.Record) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	data, doc, err := encodeRecord(rec)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}

	path := s.Path(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}

	s.docs.SetDefault(path, doc)
	s.logger.WithFields(l.StringField("name", name), l.IntField("points", rec.Len())).Debug("saved data file")

	return path, nil
}

// Load returns the document stored under name. Documents are served from
// memory after the first read or a Save; each call gets its own copy.
func (s *Store) Load(name string) (*Document, error) {
	path := s.Path(name)
	if v, ok := s.docs.Get(path); ok {
		return v.(*Document).Clone(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		s.logger.WithFields(l.StringField("name", name), l.ErrorField(err)).Error("decode data file failed")
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.docs.SetDefault(path, doc)
	return doc.Clone(), nil
}

// List returns the dataset names present in the store, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	names := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), Ext))
	}
	sort.Strings(names)

	return names, nil
}
