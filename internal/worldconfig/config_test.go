package worldconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml")); err == nil {
		t.Fatal("expected an error loading a nonexistent file")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.toml")
	content := "[noise]\nseed = 42\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Noise.Seed != 42 {
		t.Fatalf("expected overridden seed 42, got %d", cfg.Noise.Seed)
	}
	if cfg.Streaming.TerrainWorkers != Default().Streaming.TerrainWorkers {
		t.Fatal("expected streaming defaults preserved when the file doesn't mention them")
	}
	if cfg.RenderDistance() != 25 {
		t.Fatalf("expected default render distance 25, got %d", cfg.RenderDistance())
	}
}

func TestSetRenderDistanceClamps(t *testing.T) {
	cfg := Default()
	cfg.SetRenderDistance(1000)
	if cfg.RenderDistance() != 50 {
		t.Fatalf("expected render distance clamped to 50, got %d", cfg.RenderDistance())
	}
	cfg.SetRenderDistance(-5)
	if cfg.RenderDistance() != 5 {
		t.Fatalf("expected render distance clamped to 5, got %d", cfg.RenderDistance())
	}
}

func TestSetFPSLimitClamps(t *testing.T) {
	cfg := Default()
	cfg.SetFPSLimit(1000)
	if cfg.FPSLimit() != 240 {
		t.Fatalf("expected fps limit clamped to 240, got %d", cfg.FPSLimit())
	}
}

func TestToggleWireframeMode(t *testing.T) {
	cfg := Default()
	if cfg.WireframeMode() {
		t.Fatal("expected wireframe off by default")
	}
	cfg.ToggleWireframeMode()
	if !cfg.WireframeMode() {
		t.Fatal("expected wireframe on after toggle")
	}
}

func TestChunkRadiiDeriveFromRenderDistance(t *testing.T) {
	cfg := Default()
	cfg.SetRenderDistance(10)
	if cfg.ChunkLoadRadius() != 10 {
		t.Fatalf("expected load radius 10, got %d", cfg.ChunkLoadRadius())
	}
	if cfg.ChunkEvictRadius() != 14 {
		t.Fatalf("expected evict radius 14, got %d", cfg.ChunkEvictRadius())
	}
}
