// internal/config/config.go
package config

type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Link    LinkConfig    `yaml:"link"`
	Target  TargetConfig  `yaml:"target"`
	Display DisplayConfig `yaml:"display"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Name string `yaml:"name"`
}

// ---- LINK ----

type LinkConfig struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`

	// Host interface watched for a lease (empty = auto).
	Interface      string `yaml:"interface"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
}

// ---- TARGET ----

type TargetConfig struct {
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	Path      string `yaml:"path"`
	UserAgent string `yaml:"user_agent"`

	RecvBuffer int `yaml:"recv_buffer"`

	// Response sink: "stdout" (default) or "log".
	Sink string `yaml:"sink"`
}

// ---- DISPLAY ----

const (
	DisplayConsole = "console"
	DisplayModbus  = "modbus"
	DisplayIngest  = "ingest"
)

type DisplayConfig struct {
	Kind string `yaml:"kind"`

	// console; nil means true so each panel replaces the last
	Clear *bool `yaml:"clear"`

	// modbus / ingest
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	BaseSlot  uint16 `yaml:"base_slot"`
	TimeoutMs int    `yaml:"timeout_ms"`

	SettleMs *int `yaml:"settle_ms"`
}
