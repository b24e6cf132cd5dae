package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bnema/diva/internal/domain"
	"github.com/bnema/diva/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	commandsFileMode        = 0o600
	commandsDirMode         = 0o700
	commandsTempFilePattern = ".commands-*.toml.tmp"
)

// CommandRepository stores operator-defined command codes in a TOML file.
// Loaded tables always start from the built-in defaults; file entries
// override them.
type CommandRepository struct {
	path     string
	defaults map[string]string
	mu       *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.CommandRepository = (*CommandRepository)(nil)

func NewCommandRepository(path string, defaults map[string]string) (*CommandRepository, error) {
	if path == "" {
		return nil, errors.New("commands path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve commands path: %w", err)
	}
	absPath = filepath.Clean(absPath)

	return &CommandRepository{path: absPath, defaults: defaults, mu: lockForPath(absPath)}, nil
}

func (r *CommandRepository) Path() string {
	return r.path
}

func (r *CommandRepository) Load(ctx context.Context) (domain.CommandTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.CommandTable{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readCommands()
	if err != nil {
		return domain.CommandTable{}, err
	}

	entries := make(map[string]string, len(r.defaults)+len(file.Commands))
	for code, phrase := range r.defaults {
		entries[code] = phrase
	}
	for _, command := range file.Commands {
		entries[command.Code] = command.Phrase
	}

	return domain.NewCommandTable(entries), nil
}

func (r *CommandRepository) Set(ctx context.Context, code, phrase string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if code == "" {
		return errors.New("command code is empty")
	}
	if phrase == "" {
		return errors.New("command phrase is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readCommands()
	if err != nil {
		return err
	}

	updated := false
	for i := range file.Commands {
		if file.Commands[i].Code == code {
			file.Commands[i].Phrase = phrase
			updated = true
			break
		}
	}
	if !updated {
		file.Commands = append(file.Commands, commandSchema{Code: code, Phrase: phrase})
	}

	return r.writeCommands(file)
}

func (r *CommandRepository) Remove(ctx context.Context, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readCommands()
	if err != nil {
		return err
	}

	kept := file.Commands[:0]
	found := false
	for _, command := range file.Commands {
		if command.Code == code {
			found = true
			continue
		}
		kept = append(kept, command)
	}
	if !found {
		return fmt.Errorf("command %q not found", code)
	}
	file.Commands = kept

	return r.writeCommands(file)
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

func (r *CommandRepository) readCommands() (commandsFileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := commandsFileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return commandsFileSchema{}, fmt.Errorf("read commands file: %w", err)
	}

	var file commandsFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return commandsFileSchema{}, fmt.Errorf("decode commands file: %w", err)
	}
	if err := file.validate(); err != nil {
		return commandsFileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *CommandRepository) writeCommands(file commandsFileSchema) error {
	file.applyDefaults()
	sort.Slice(file.Commands, func(i, j int) bool {
		return file.Commands[i].Code < file.Commands[j].Code
	})

	if err := os.MkdirAll(filepath.Dir(r.path), commandsDirMode); err != nil {
		return fmt.Errorf("create commands directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode commands file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), commandsTempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp commands file: %w", err)
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
		return fmt.Errorf("write temp commands file: %w", err)
	}

	if err := tempFile.Chmod(commandsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp commands file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp commands file: %w", err)
	}

	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace commands file: %w", err)
	}

	cleanup = false
	return nil
}
