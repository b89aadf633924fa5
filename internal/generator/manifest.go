package generator

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"
)

const (
	manifestFileName    = ".sitefeeds-manifest.json"
	manifestFileVersion = 1
)

// buildManifest records the artifacts of the last successful build so
// unchanged documents are not rewritten.
type buildManifest struct {
	Version     int
	GeneratedAt time.Time
	Artifacts   map[string]Artifact
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version:   manifestFileVersion,
		Artifacts: map[string]Artifact{},
	}
}

type manifestFile struct {
	Version     int        `json:"version"`
	GeneratedAt time.Time  `json:"generated_at"`
	Artifacts   []Artifact `json:"artifacts"`
}

func parseManifest(data []byte) (*buildManifest, error) {
	manifest := newBuildManifest()
	if len(data) == 0 {
		return manifest, nil
	}
	var file manifestFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	if file.Version != 0 {
		manifest.Version = file.Version
	}
	manifest.GeneratedAt = file.GeneratedAt
	for _, artifact := range file.Artifacts {
		manifest.Artifacts[artifact.Output] = artifact
	}
	return manifest, nil
}

// marshal emits artifacts sorted by output path for deterministic files.
func (m *buildManifest) marshal() ([]byte, error) {
	file := manifestFile{
		Version:     m.Version,
		GeneratedAt: m.GeneratedAt,
		Artifacts:   make([]Artifact, 0, len(m.Artifacts)),
	}
	for _, key := range slices.Sorted(maps.Keys(m.Artifacts)) {
		file.Artifacts = append(file.Artifacts, m.Artifacts[key])
	}
	return json.MarshalIndent(file, "", "  ")
}

func (m *buildManifest) unchanged(output, checksum string) bool {
	entry, ok := m.Artifacts[output]
	return ok && entry.Checksum == checksum
}
