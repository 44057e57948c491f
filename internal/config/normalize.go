// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultPort       = "80"
	DefaultPath       = "/"
	DefaultUserAgent  = "ESP32"
	DefaultRecvBuffer = 100
	DefaultSettleMs   = 300
	DefaultPollMs     = 500
	DefaultTimeoutMs  = 2000
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	t := &cfg.Target
	if t.Port == "" {
		t.Port = DefaultPort
	}
	if t.Path == "" {
		t.Path = DefaultPath
	}
	if t.UserAgent == "" {
		t.UserAgent = DefaultUserAgent
	}
	if t.RecvBuffer == 0 {
		t.RecvBuffer = DefaultRecvBuffer
	}
	if t.Sink == "" {
		t.Sink = "stdout"
	}

	if cfg.Link.PollIntervalMs == 0 {
		cfg.Link.PollIntervalMs = DefaultPollMs
	}

	d := &cfg.Display
	if d.Kind == "" {
		d.Kind = DisplayConsole
	}
	if d.TimeoutMs <= 0 {
		d.TimeoutMs = DefaultTimeoutMs
	}
	if d.Clear == nil {
		v := true
		d.Clear = &v
	}
	if d.SettleMs == nil {
		v := DefaultSettleMs
		d.SettleMs = &v
	}
}
