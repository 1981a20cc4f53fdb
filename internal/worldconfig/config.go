// Package worldconfig loads the runtime's tunables from a TOML file,
// per SPEC_FULL.md's Configuration section, falling back to defaults for
// anything the file omits.
//
// Grounded on dantero-ps-mini-mc-go/internal/config/config.go's
// RenderSettings (a clamped, RWMutex-guarded set of runtime knobs with
// Get/Set accessors), generalized from a hand-rolled in-memory struct
// populated with literal defaults into a struct loaded from disk via
// github.com/BurntSushi/toml, with the teacher's same clamp-on-write
// discipline preserved for the settings that remain live-adjustable
// after load (render/view distance, FPS cap).
package worldconfig

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"
)

// NoiseConfig mirrors the tunables of noise.Settings that are reasonable
// to expose in a config file (the rest are derived or left at their
// code-level defaults).
type NoiseConfig struct {
	Seed             int64   `toml:"seed"`
	Frequency        float64 `toml:"frequency"`
	Octaves          int     `toml:"octaves"`
	Persistence      float64 `toml:"persistence"`
	Lacunarity       float64 `toml:"lacunarity"`
	BaseHeight       float64 `toml:"base_height"`
	HeightMultiplier float64 `toml:"height_multiplier"`
	RidgeStrength    float64 `toml:"ridge_strength"`
}

// StreamingConfig mirrors streaming.Config's tunables.
type StreamingConfig struct {
	TerrainWorkers     int `toml:"terrain_workers"`
	MeshWorkers        int `toml:"mesh_workers"`
	HorizontalRadius   int `toml:"horizontal_radius"`
	VerticalRadius     int `toml:"vertical_radius"`
	PriorityRadius     int `toml:"priority_radius"`
	MaxAllocPerTick    int `toml:"max_alloc_per_tick"`
	UnloadBufferChunks int `toml:"unload_buffer_chunks"`
}

// RenderConfig mirrors the teacher's RenderSettings knobs, kept
// live-adjustable at runtime after load.
type RenderConfig struct {
	mu sync.RWMutex

	renderDistance int
	fpsLimit       int
	wireframeMode  bool
}

// Config is the top-level document loaded from a TOML file.
type Config struct {
	Noise      NoiseConfig     `toml:"noise"`
	Streaming  StreamingConfig `toml:"streaming"`
	Render     renderFile      `toml:"render"`
	renderLive *RenderConfig
}

// renderFile is the TOML-facing shape of RenderConfig; TOML decoding
// needs plain fields, while the live runtime value stays behind a mutex.
type renderFile struct {
	RenderDistance int  `toml:"render_distance"`
	FPSLimit       int  `toml:"fps_limit"`
	Wireframe      bool `toml:"wireframe"`
}

// Default returns a Config populated with the same defaults the teacher
// hard-codes into globalRenderSettings, plus this build's own domain
// defaults for noise and streaming.
func Default() Config {
	return Config{
		Noise: NoiseConfig{
			Seed:             1,
			Frequency:        0.01,
			Octaves:          5,
			Persistence:      0.5,
			Lacunarity:       2.0,
			BaseHeight:       64,
			HeightMultiplier: 48,
			RidgeStrength:    0.3,
		},
		Streaming: StreamingConfig{
			TerrainWorkers:     4,
			MeshWorkers:        4,
			HorizontalRadius:   8,
			VerticalRadius:     4,
			PriorityRadius:     2,
			MaxAllocPerTick:    24,
			UnloadBufferChunks: 2,
		},
		Render: renderFile{
			RenderDistance: 25,
			FPSLimit:       180,
			Wireframe:      false,
		},
		renderLive: &RenderConfig{
			renderDistance: 25,
			fpsLimit:       180,
		},
	}
}

// Load reads path as TOML, starting from Default() so an incomplete file
// still yields a usable Config (toml.Decode leaves undeclared fields at
// their prior value rather than zeroing them).
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("worldconfig: load %s: %w", path, err)
	}
	cfg.renderLive = &RenderConfig{
		renderDistance: clampInt(cfg.Render.RenderDistance, 5, 50),
		fpsLimit:       clampInt(cfg.Render.FPSLimit, 0, 240),
		wireframeMode:  cfg.Render.Wireframe,
	}
	return cfg, nil
}

// RenderDistance returns the current render distance in chunks.
func (c *Config) RenderDistance() int {
	c.renderLive.mu.RLock()
	defer c.renderLive.mu.RUnlock()
	return c.renderLive.renderDistance
}

// SetRenderDistance sets the render distance, clamped to [5, 50] exactly
// as the teacher's SetRenderDistance does.
func (c *Config) SetRenderDistance(distance int) {
	c.renderLive.mu.Lock()
	defer c.renderLive.mu.Unlock()
	c.renderLive.renderDistance = clampInt(distance, 5, 50)
}

// FPSLimit returns the configured FPS cap (0 means uncapped).
func (c *Config) FPSLimit() int {
	c.renderLive.mu.RLock()
	defer c.renderLive.mu.RUnlock()
	return c.renderLive.fpsLimit
}

// SetFPSLimit sets the FPS cap, clamped to [0, 240].
func (c *Config) SetFPSLimit(limit int) {
	c.renderLive.mu.Lock()
	defer c.renderLive.mu.Unlock()
	c.renderLive.fpsLimit = clampInt(limit, 0, 240)
}

// WireframeMode returns whether wireframe rendering is enabled.
func (c *Config) WireframeMode() bool {
	c.renderLive.mu.RLock()
	defer c.renderLive.mu.RUnlock()
	return c.renderLive.wireframeMode
}

// ToggleWireframeMode toggles wireframe rendering.
func (c *Config) ToggleWireframeMode() {
	c.renderLive.mu.Lock()
	defer c.renderLive.mu.Unlock()
	c.renderLive.wireframeMode = !c.renderLive.wireframeMode
}

// ChunkLoadRadius mirrors the teacher's GetChunkLoadRadius: equal to the
// render distance.
func (c *Config) ChunkLoadRadius() int { return c.RenderDistance() }

// ChunkEvictRadius mirrors the teacher's GetChunkEvictRadius: the load
// radius plus a fixed hysteresis buffer.
func (c *Config) ChunkEvictRadius() int { return c.RenderDistance() + 4 }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
