package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/velstream/recurly-export-cli/internal/domain"
	"github.com/velstream/recurly-export-cli/internal/ports"
)

const (
	configName          = "config"
	configType          = "toml"
	checkpointsPathKey  = "checkpoints.path"
	checkpointsFileMode = 0o600
	checkpointsDirMode  = 0o700
	checkpointsDir      = ".rex"
	checkpointsFile     = "checkpoints.toml"
	tempFilePattern     = ".checkpoints-*.toml.tmp"
)

// Store persists export checkpoints in a versioned TOML file. Writes are
// atomic (temp file + rename) and saves merge over the current on-disk
// contents so concurrent runs against different outputs don't clobber each
// other's entries.
type Store struct {
	checkpointsPath string
	mu              *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.CheckpointStore = (*Store)(nil)

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, checkpointsDir, checkpointsFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, checkpointsDir))
	cfg.SetDefault(checkpointsPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	checkpointsPath := cfg.GetString(checkpointsPathKey)
	if checkpointsPath == "" {
		return nil, errors.New("checkpoints path is empty")
	}
	checkpointsPath, err = normalizePath(checkpointsPath)
	if err != nil {
		return nil, err
	}

	return &Store{checkpointsPath: checkpointsPath, mu: lockForPath(checkpointsPath)}, nil
}

func (s *Store) Load(ctx context.Context) (domain.CheckpointSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.readSchema()
	if err != nil {
		return nil, err
	}

	set := make(domain.CheckpointSet, len(file.Runs))
	for run, entry := range file.Runs {
		set[run] = fromSchema(entry)
	}

	return set, nil
}

// Save merges the given set over a freshly loaded snapshot, last-writer-wins
// per run key, then persists the result.
func (s *Store) Save(ctx context.Context, set domain.CheckpointSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	if file.Runs == nil {
		file.Runs = map[string]checkpointSchema{}
	}
	for run, checkpoint := range set {
		file.Runs[run] = toSchema(checkpoint)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.writeSchema(file)
}

// Clear removes one run's checkpoint. Removing an unknown run reports
// domain.ErrCheckpointNotFound.
func (s *Store) Clear(ctx context.Context, run string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	if _, ok := file.Runs[run]; !ok {
		return fmt.Errorf("%w: run %q", domain.ErrCheckpointNotFound, run)
	}
	delete(file.Runs, run)

	return s.writeSchema(file)
}

func (s *Store) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.checkpointsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read checkpoints file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode checkpoints file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (s *Store) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.checkpointsPath), checkpointsDirMode); err != nil {
		return fmt.Errorf("create checkpoints directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode checkpoints file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.checkpointsPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp checkpoints file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp checkpoints file: %w", err)
	}

	if err := tempFile.Chmod(checkpointsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp checkpoints file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp checkpoints file: %w", err)
	}

	if err := os.Rename(tempName, s.checkpointsPath); err != nil {
		return fmt.Errorf("replace checkpoints file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(s.checkpointsPath, checkpointsFileMode); err != nil {
		return fmt.Errorf("chmod checkpoints file: %w", err)
	}

	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve checkpoints path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
