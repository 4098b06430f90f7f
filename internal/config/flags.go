package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagSaveConfig = flag.Bool("save-config", false, "Write the effective config to the user config directory")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging and the FPS counter")
	flagPanel      = flag.Bool("panel", false, "Show the parameter panel")
	flagModel      = flag.String("model", "", "Path to the glTF model")
	flagTrails     = flag.Int("trails", 0, "Number of wind trails")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the --config path, or "".
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSaveConfig
}

// applyFlags overrides cfg with any flags that were set.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Debug.ShowFPS = true
	}
	if *flagPanel {
		cfg.Debug.Panel = true
	}
	if *flagModel != "" {
		cfg.Model.Path = *flagModel
	}
	if *flagTrails > 0 {
		cfg.Scene.TrailCount = *flagTrails
	}
	switch {
	case *flagFullscreen:
		cfg.Graphics.Fullscreen = true
	case *flagWindowed:
		cfg.Graphics.Fullscreen = false
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}
