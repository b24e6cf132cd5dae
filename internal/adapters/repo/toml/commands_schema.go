package toml

import "fmt"

const currentCommandsSchemaVersion = 1

type commandsFileSchema struct {
	Version  int             `toml:"version"`
	Commands []commandSchema `toml:"commands"`
}

type commandSchema struct {
	Code   string `toml:"code"`
	Phrase string `toml:"phrase"`
}

func (s *commandsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentCommandsSchemaVersion
	}
}

func (s commandsFileSchema) validate() error {
	if s.Version > currentCommandsSchemaVersion {
		return fmt.Errorf("unsupported commands schema version %d (current %d)", s.Version, currentCommandsSchemaVersion)
	}

	seen := make(map[string]struct{}, len(s.Commands))
	for i, command := range s.Commands {
		if command.Code == "" {
			return fmt.Errorf("command %d: code is empty", i+1)
		}
		if command.Phrase == "" {
			return fmt.Errorf("command %q: phrase is empty", command.Code)
		}
		if _, ok := seen[command.Code]; ok {
			return fmt.Errorf("command %q: duplicate code", command.Code)
		}
		seen[command.Code] = struct{}{}
	}

	return nil
}
