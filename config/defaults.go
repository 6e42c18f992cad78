package config

const (
	// defaultSearchTool matches the storefront loader the assistant
	// invokes for product lookups.
	defaultSearchTool      = "vtex/loaders/intelligentSearch/productList.ts"
	defaultVisionModel     = "gpt-4o"
	defaultTranscribeModel = "whisper-1"
	defaultWideWidth       = 110
	defaultCaptureCommand  = "ffmpeg"
)

// defaultCaptureArgs records from the default input device to stdout.
// %FORMAT% is replaced with the negotiated encoding.
var defaultCaptureArgs = []string{
	"-loglevel", "quiet",
	"-f", "pulse", "-i", "default",
	"-f", "%FORMAT%", "-",
}

// defaultCaptureFormats lists encodings in device preference order.
var defaultCaptureFormats = []string{"opus", "wav"}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Assistant: AssistantConfig{
			SearchTool: defaultSearchTool,
			OpenAI: OpenAIConfig{
				VisionModel:     defaultVisionModel,
				TranscribeModel: defaultTranscribeModel,
			},
		},
		Capture: CaptureConfig{
			Command: defaultCaptureCommand,
			Args:    append([]string(nil), defaultCaptureArgs...),
			Formats: append([]string(nil), defaultCaptureFormats...),
		},
		Widget: WidgetConfig{
			WideWidth: defaultWideWidth,
		},
		Logging: defaultLoggingConfig(),
	}
}

func defaultLoggingConfig() LoggingConfig {
	enabled := true
	return LoggingConfig{
		Enabled: &enabled,
		Level:   "info",
		Stdout:  false,
		File:    "logs/shopchat.log",
	}
}

func (c *Config) applyDefaults() {
	if c.Assistant.SearchTool == "" {
		c.Assistant.SearchTool = defaultSearchTool
	}
	if c.Assistant.OpenAI.VisionModel == "" {
		c.Assistant.OpenAI.VisionModel = defaultVisionModel
	}
	if c.Assistant.OpenAI.TranscribeModel == "" {
		c.Assistant.OpenAI.TranscribeModel = defaultTranscribeModel
	}

	// An empty command with explicit args means voice input was turned
	// off on purpose; only a fully empty section gets the default.
	if c.Capture.Command == "" && len(c.Capture.Args) == 0 {
		c.Capture.Command = defaultCaptureCommand
		c.Capture.Args = append([]string(nil), defaultCaptureArgs...)
	}
	if len(c.Capture.Formats) == 0 {
		c.Capture.Formats = append([]string(nil), defaultCaptureFormats...)
	}

	if c.Widget.WideWidth <= 0 {
		c.Widget.WideWidth = defaultWideWidth
	}

	def := defaultLoggingConfig()
	if c.Logging == (LoggingConfig{}) {
		c.Logging = def
		return
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if c.Logging.File == "" && !c.Logging.Stdout {
		c.Logging.File = def.File
	}
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = def.Enabled
	}
}
