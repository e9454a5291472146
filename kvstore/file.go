package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps one JSON document per namespace under a directory
// Writes go through a temp file and rename so a crash never leaves a torn document
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(namespace string) string {
	return filepath.Join(f.dir, namespace+".json")
}

// load reads a namespace document; a missing or corrupt file reads as empty
func (f *FileStore) load(namespace string) (map[string]string, error) {
	data, err := os.ReadFile(f.path(namespace))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", namespace, err)
	}
	doc := map[string]string{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return map[string]string{}, nil
	}
	return doc, nil
}

func (f *FileStore) save(namespace string, doc map[string]string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", namespace, err)
	}
	tmp, err := os.CreateTemp(f.dir, namespace+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path(namespace)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (f *FileStore) Get(namespace, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load(namespace)
	if err != nil {
		return "", err
	}
	v, ok := doc[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *FileStore) Set(namespace, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load(namespace)
	if err != nil {
		return err
	}
	doc[key] = value
	return f.save(namespace, doc)
}

func (f *FileStore) Delete(namespace, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load(namespace)
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return f.save(namespace, doc)
}
