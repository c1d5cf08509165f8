package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// VocabCandidates lists where a vocabulary may live, in lookup order:
// the path as given, next to the binary, then under the config dir.
// An empty path tries the conventional "vocab" directory name.
func VocabCandidates(path, configDir string) []string {
	if path == "" {
		path = "vocab"
	}
	if filepath.IsAbs(path) {
		return []string{path}
	}

	candidates := []string{path}
	if execDir, err := ExecutableDir(); err == nil {
		candidates = append(candidates, filepath.Join(execDir, path))
	}
	if configDir != "" {
		candidates = append(candidates, filepath.Join(configDir, path))
	}
	return candidates
}

// ResolveVocabPath returns the first existing candidate from VocabCandidates.
func ResolveVocabPath(path, configDir string) (string, error) {
	for _, candidate := range VocabCandidates(path, configDir) {
		if FileExists(candidate) {
			log.Debugf("Found vocabulary at %s", candidate)
			return candidate, nil
		}
		log.Debugf("Vocabulary candidate not found: %s", candidate)
	}
	return "", os.ErrNotExist
}
