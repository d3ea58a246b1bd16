package bramble

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frame rate limits accepted by Config.FPS and App.SetFrameRate.
const (
	MinFPS     = 30
	MaxFPS     = 120
	DefaultFPS = 60
)

// Config holds the window and loop settings of an App. It can be built in
// code or loaded from YAML:
//
//	title: My Game
//	width: 800
//	height: 600
//	fps: 60
//	background: "#202030"
//	save_scenes: true
type Config struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	FPS        int    `yaml:"fps"`
	Fullscreen bool   `yaml:"fullscreen"`
	Resizable  bool   `yaml:"resizable"`
	Icon       string `yaml:"icon"`
	Background Color  `yaml:"background"`

	// SaveScenes is the default "save current scene" flag of SwitchScene.
	SaveScenes bool `yaml:"save_scenes"`

	// Debug enables per-frame stats and tree sanity checks.
	Debug bool `yaml:"debug"`

	// ScreenshotDir is where App.Screenshot writes PNG files.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// DefaultConfig returns a 640x480 window at 60 fps with a black background.
func DefaultConfig() Config {
	return Config{
		Title:         "bramble",
		Width:         640,
		Height:        480,
		FPS:           DefaultFPS,
		Background:    ColorBlack,
		ScreenshotDir: "screenshots",
	}
}

// ParseConfig decodes YAML over DefaultConfig, so omitted keys keep their
// defaults, and normalizes the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("bramble: parse config: %w", err)
	}
	return cfg.normalized(), nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("bramble: load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w (%s)", err, path)
	}
	return cfg, nil
}

// normalized clamps the frame rate and fills in a usable window size.
func (c Config) normalized() Config {
	c.FPS = clampFPS(c.FPS)
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	return c
}

func clampFPS(fps int) int {
	if fps <= 0 {
		return DefaultFPS
	}
	return min(max(fps, MinFPS), MaxFPS)
}

// UnmarshalYAML accepts "#rrggbb" or "#rrggbbaa" strings as well as a
// mapping with r, g, b and a components in [0, 1].
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		var m struct {
			R, G, B float64
			A       *float64
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		*c = Color{R: m.R, G: m.G, B: m.B, A: 1}
		if m.A != nil {
			c.A = *m.A
		}
		return nil
	}
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: color must be a string or mapping", value.Line)
	}
	parsed, err := ParseHexColor(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa"; the leading '#' is optional.
func ParseHexColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("invalid color format: %q", s)
	}
	var ch [4]float64
	ch[3] = 1
	for i := 0; i < len(h)/2; i++ {
		v, err := strconv.ParseUint(h[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		ch[i] = float64(v) / 255
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}
