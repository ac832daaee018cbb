package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phanxgames/ornament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ornament.DefaultSceneConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
seed: 42
phase:
  bloom:
    duration: 1.5
nebula:
  sensitivity: 0.01
handStaleAfter: 0.25
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	def := ornament.DefaultSceneConfig()
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, float32(1.5), cfg.Phase.Bloom.Duration)
	assert.Equal(t, def.Phase.Bloom.Easing, cfg.Phase.Bloom.Easing, "unset nested keys keep defaults")
	assert.Equal(t, def.Phase.Collapse, cfg.Phase.Collapse)
	assert.Equal(t, 0.01, cfg.Nebula.Sensitivity)
	assert.Equal(t, def.Nebula.NeutralScale, cfg.Nebula.NeutralScale)
	assert.Equal(t, 0.25, cfg.HandStaleAfter)
	assert.Len(t, cfg.Groups, len(def.Groups))
}

func TestLoadReplacesGroups(t *testing.T) {
	path := writeFile(t, `
photoGroup: ""
groups:
  - name: sparks
    count: 12
    kinematic: gem
    baseScale: 0.1
    tree: {kind: cone, radius: 2, height: 4}
    nebula: {kind: ring, radius: 5, thickness: 1}
    color: {mode: gem}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "sparks", cfg.Groups[0].Name)
	assert.Equal(t, ornament.ShapeCone, cfg.Groups[0].Tree.Kind)

	s, err := ornament.NewScene(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 12, s.Group("sparks").Count())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeFile(t, "seed: [1, 2"))
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = Load(writeFile(t, "sede: 3\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Load(writeFile(t, "photoGroup: frames\n"))
	assert.ErrorContains(t, err, "invalid config")
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, ornament.DefaultSceneConfig().Seed, cfg.Seed)
}

func TestMarshalRoundTripsThroughParse(t *testing.T) {
	def := ornament.DefaultSceneConfig()
	def.Seed = 7
	data, err := Marshal(def)
	require.NoError(t, err)

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, def, cfg)
}
