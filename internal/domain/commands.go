package domain

const DefaultRepeatPhrase = "Ripeti dopo di me"

// DefaultCommands maps short numeric codes typed on stdin to canned phrases.
var DefaultCommands = map[string]string{
	"0004368999": "Riproduci Peppa Pig da Netflix",
}

// CommandTable is an immutable code-to-phrase mapping.
type CommandTable struct {
	entries map[string]string
}

func NewCommandTable(entries map[string]string) CommandTable {
	copied := make(map[string]string, len(entries))
	for code, phrase := range entries {
		copied[code] = phrase
	}
	return CommandTable{entries: copied}
}

// Resolve returns the mapped phrase for line, or line itself when no code matches.
func (t CommandTable) Resolve(line string) string {
	if phrase, ok := t.entries[line]; ok {
		return phrase
	}
	return line
}

func (t CommandTable) Len() int {
	return len(t.entries)
}

func (t CommandTable) Entries() map[string]string {
	copied := make(map[string]string, len(t.entries))
	for code, phrase := range t.entries {
		copied[code] = phrase
	}
	return copied
}
