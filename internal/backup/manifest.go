package backup

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
)

// WriteManifest stores the report manifest as a JSON object at name
func WriteManifest(fsys afero.Fs, name string, report *Report) error {
	data, err := json.MarshalIndent(report.Manifest(), "", "  ")
	if err != nil {
		return fmt.Errorf("backup: encoding manifest: %w", err)
	}
	if err := afero.WriteFile(fsys, name, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("backup: writing manifest %q: %w", name, err)
	}
	return nil
}
