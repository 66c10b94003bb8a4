package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/plumeworks/plover-cli/internal/core/domain"
)

// routine is a message-producing data file: the explicit replacement for
// running user code inside the bot. A routine names an optional target
// list and a sequence of message descriptors in any canonicalizable shape.
type routine struct {
	List     string `json:"list" toml:"list"`
	Messages []any  `json:"messages" toml:"messages"`
}

// loadRoutine parses a routine file. A ".json" extension selects JSON;
// anything else is parsed as TOML.
func loadRoutine(path string) (*routine, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading routine file: %w", err)
	}

	var r routine
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(raw, &r)
	} else {
		err = toml.Unmarshal(raw, &r)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parsing routine file %s: %v", domain.ErrInvalidInput, path, err)
	}
	if len(r.Messages) == 0 {
		return nil, fmt.Errorf("%w: routine file %s has no messages", domain.ErrInvalidInput, path)
	}
	return &r, nil
}
