package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/pipeline"
)

// artifactPaths maps each format to an output file. output may be empty
// (use fallback), a full file name, or a base path; a known format
// extension on it is replaced per format. A single format written to a
// path with any extension keeps that path unchanged.
func artifactPaths(output, fallback string, formats []string) map[string]string {
	base := output
	if base == "" {
		base = fallback
	}
	ext := filepath.Ext(base)
	if len(formats) == 1 && ext != "" && output != "" {
		return map[string]string{formats[0]: base}
	}

	stem := base
	if pipeline.ValidFormats[strings.TrimPrefix(strings.ToLower(ext), ".")] {
		stem = strings.TrimSuffix(base, ext)
	}
	paths := make(map[string]string, len(formats))
	for _, f := range formats {
		paths[f] = stem + "." + f
	}
	return paths
}

// writeArtifacts writes each artifact to its path in format order.
func writeArtifacts(artifacts map[string][]byte, paths map[string]string, formats []string) error {
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return errors.New(errors.ErrCodeInternal, "no %s artifact produced", f)
		}
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
