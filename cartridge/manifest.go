// Package cartridge loads the manifest shipped with a cartridge package.
package cartridge

import (
	"context"
	"errors"
	"fmt"

	vfs "github.com/mwantia/cartvfs"
	"github.com/mwantia/cartvfs/data"
	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/mount"
	"gopkg.in/yaml.v3"
)

// ManifestName is the manifest location inside a cartridge.
const ManifestName = "cart.yaml"

const defaultEntry = "main.nut"

var ErrNoManifest = errors.New("cartridge: manifest not found")

type Manifest struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Version     string      `yaml:"version"`
	Entry       string      `yaml:"entry"`
	Permissions Permissions `yaml:"permissions"`
}

type Permissions struct {
	// Save grants write access to the save namespace
	Save bool `yaml:"save"`
}

// ParseManifest decodes and validates manifest content.
func ParseManifest(content []byte) (*Manifest, error) {
	manifest := &Manifest{}
	if err := yaml.Unmarshal(content, manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if manifest.Entry == "" {
		manifest.Entry = defaultEntry
	}

	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// LoadManifest reads the manifest from a cartridge directory or archive.
func LoadManifest(ctx context.Context, source string) (*Manifest, error) {
	storage, err := mount.NewCartridgeStorage(source)
	if err != nil {
		return nil, err
	}

	if err := storage.Open(ctx); err != nil {
		return nil, err
	}
	defer storage.Close(ctx)

	content, err := storage.ReadObject(ctx, ManifestName)
	if err != nil {
		if errors.Is(err, verrors.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoManifest, source)
		}
		return nil, err
	}

	return ParseManifest(content)
}

func (m *Manifest) Validate() error {
	if err := mount.ValidateCartridgeID(m.ID); err != nil {
		return fmt.Errorf("manifest id: %w", err)
	}
	if _, err := m.EntryPath(); err != nil {
		return fmt.Errorf("manifest entry: %w", err)
	}
	return nil
}

// EntryPath returns the script the cartridge starts with.
func (m *Manifest) EntryPath() (data.Path, error) {
	return data.ParsePath(data.NamespaceCart.String() + ":/" + m.Entry)
}

// Apply folds the manifest identity and permissions into cfg.
func (m *Manifest) Apply(cfg *vfs.Config) {
	cfg.CartridgeID = m.ID
	cfg.SaveEnabled = m.Permissions.Save
}
