// Package mapping loads the PID to SKU exception map used by the alias
// resolver.
package mapping

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/daquezad/CX-Licensing-Automation/internal/model"
)

// Load reads an alias map from a JSON document shaped like
//
//	{"AIR-DNA-E": ["AIR-DNA-E-T"], "DNA-P-T2-E-5Y": "DSTACK-T2-E"}
//
// String values are promoted to singleton lists. Malformed entries are
// logged and dropped; they never fail the load. A missing path returns an
// empty map so a run can proceed without exceptions.
func Load(path string) (model.AliasMap, error) {
	if path == "" {
		slog.Info("No PID to SKU exception map provided; direct matches only")
		return model.AliasMap{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("Exception map not found, continuing without it", "path", path)
			return model.AliasMap{}, nil
		}
		return nil, fmt.Errorf("failed to open exception map: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close exception map", "path", path, "error", closeErr)
		}
	}()

	aliases, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse exception map %s: %w", path, err)
	}

	slog.Info("Loaded PID to SKU exception entries", "count", len(aliases), "path", path)
	return aliases, nil
}

// Parse decodes an alias map from JSON. The document must be an object;
// anything else is a load-fatal error. Individual values may be a string,
// a list of strings, or garbage — garbage entries are dropped with a
// warning.
func Parse(r io.Reader) (model.AliasMap, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("exception map must be a JSON object of PID to SKU list: %w", err)
	}

	aliases := make(model.AliasMap, len(raw))
	for key, value := range raw {
		pid := strings.TrimSpace(key)
		if pid == "" {
			slog.Warn("Dropping exception entry with empty PID")
			continue
		}

		var list []string
		if err := json.Unmarshal(value, &list); err != nil {
			var single string
			if err := json.Unmarshal(value, &single); err != nil {
				slog.Warn("Dropping malformed exception entry", "pid", pid, "value", string(value))
				continue
			}
			list = []string{single}
		}

		skus := make([]string, 0, len(list))
		for _, sku := range list {
			if trimmed := strings.TrimSpace(sku); trimmed != "" {
				skus = append(skus, trimmed)
			}
		}
		if len(skus) == 0 {
			slog.Warn("Dropping exception entry with no usable SKUs", "pid", pid)
			continue
		}
		aliases[pid] = skus
	}

	return aliases, nil
}
