package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/tgfetch/TGFetch/internal/log"
)

const backupDirName = ".config_backups"

// DefaultMaxBackups is how many rotated config backups are kept.
const DefaultMaxBackups = 5

type IStore interface {
	Load() (Document, error)
	Update(doc Document, updates map[string]any, backup bool) error
	Backups() ([]string, error)
	Restore(backupPath string) (Document, error)
}

// Store reads and writes the durable YAML configuration with rotated
// backups. Partial updates preserve every key they do not touch.
type Store struct {
	path       string
	maxBackups int
}

var _ IStore = (*Store)(nil)

func NewStore(path string, maxBackups int) *Store {
	return &Store{path: path, maxBackups: maxBackups}
}

func (s *Store) Load() (Document, error) {
	ll := s.getLogger("Load")
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("can not read config file %s: %w", s.path, err)
	}
	doc := Document{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("can not parse config file %s: %w", s.path, err)
	}
	ll.Debugf("configuration loaded from %s", s.path)
	return doc, nil
}

// Update applies the partial updates onto doc and persists the whole
// document, creating a rotated backup first when requested.
func (s *Store) Update(doc Document, updates map[string]any, backup bool) error {
	ll := s.getLogger("Update")
	for key, value := range updates {
		doc[key] = value
	}
	if backup {
		if _, err := os.Stat(s.path); err == nil {
			if _, err := s.createBackup(); err != nil {
				return fmt.Errorf("can not create backup: %w", err)
			}
		}
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("can not marshal config: %w", err)
	}
	if err := os.WriteFile(s.path, out, 0o644); err != nil {
		return fmt.Errorf("can not write config file %s: %w", s.path, err)
	}
	ll.Infof("configuration saved to %s", s.path)
	s.cleanupBackups()
	return nil
}

// Backups lists available backup files, newest first.
func (s *Store) Backups() ([]string, error) {
	dir := s.backupDir()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can not list backup dir %s: %w", dir, err)
	}
	type backup struct {
		path  string
		mtime time.Time
	}
	backups := []backup{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backup{path: filepath.Join(dir, entry.Name()), mtime: info.ModTime()})
	}
	sort.Slice(backups, func(i, j int) bool {
		if backups[i].mtime.Equal(backups[j].mtime) {
			return backups[i].path > backups[j].path
		}
		return backups[i].mtime.After(backups[j].mtime)
	})
	out := make([]string, 0, len(backups))
	for _, b := range backups {
		out = append(out, b.path)
	}
	return out, nil
}

// Restore replaces the current config with the given backup, backing up the
// current file first, and returns the restored document.
func (s *Store) Restore(backupPath string) (Document, error) {
	ll := s.getLogger("Restore")
	raw, err := os.ReadFile(backupPath)
	if err != nil {
		return nil, fmt.Errorf("can not read backup %s: %w", backupPath, err)
	}
	if _, err := os.Stat(s.path); err == nil {
		if _, err := s.createBackup(); err != nil {
			return nil, fmt.Errorf("can not back up current config: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return nil, fmt.Errorf("can not write config file %s: %w", s.path, err)
	}
	ll.Infof("configuration restored from %s", backupPath)
	return s.Load()
}

func (s *Store) backupDir() string {
	return filepath.Join(filepath.Dir(s.path), backupDirName)
}

func (s *Store) createBackup() (string, error) {
	dir := s.backupDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("can not create backup dir %s: %w", dir, err)
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("can not read config file %s: %w", s.path, err)
	}
	name := fmt.Sprintf("%s.backup.%s", filepath.Base(s.path), time.Now().Format("20060102_150405.000000"))
	backupPath := filepath.Join(dir, name)
	if err := os.WriteFile(backupPath, raw, 0o644); err != nil {
		return "", fmt.Errorf("can not write backup %s: %w", backupPath, err)
	}
	s.getLogger("createBackup").Infof("configuration backup created: %s", backupPath)
	return backupPath, nil
}

func (s *Store) cleanupBackups() {
	ll := s.getLogger("cleanupBackups")
	backups, err := s.Backups()
	if err != nil {
		ll.WithError(err).Warn("can not cleanup old backups")
		return
	}
	for _, old := range backups[min(len(backups), s.maxBackups):] {
		if err := os.Remove(old); err != nil {
			ll.WithError(err).Warnf("can not remove old backup %s", old)
			continue
		}
		ll.Debugf("removed old backup: %s", old)
	}
}

func (s *Store) getLogger(fn string) *logrus.Entry {
	return log.GetLogger(log.ConfigModule).WithField("func", fmt.Sprintf("%T.%s", s, fn))
}
