package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadFromDirectory loads prompt overrides from *.json files under dir.
// Each file holds one Template; an override replaces the built-in with the
// same ID. A missing directory is not an error.
func LoadFromDirectory(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	registry := Get()
	loaded := 0

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var t Template
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if err := registry.Register(&t); err != nil {
			return fmt.Errorf("failed to register %s: %w", path, err)
		}
		loaded++
		return nil
	})
	if err != nil {
		return err
	}

	if loaded > 0 {
		fmt.Printf("[PROMPT] Loaded %d prompt overrides from %s\n", loaded, dir)
	}
	return nil
}
