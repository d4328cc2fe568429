package utils

import "time"

const (
	ModeRow  = "row"
	ModeBulk = "bulk"
)

var SourceTypes = []string{"stdin", "file", "nats", "kafka", "jdbc"}

type Config struct {
	LogLevel  string    `mapstructure:"log-level" yaml:"log-level"`
	Database  Database  `mapstructure:"database" yaml:"database"`
	Sink      Sink      `mapstructure:"sink" yaml:"sink"`
	Source    Source    `mapstructure:"source" yaml:"source"`
	Metrics   Metrics   `mapstructure:"metrics" yaml:"metrics"`
	Telemetry Telemetry `mapstructure:"telemetry" yaml:"telemetry"`
}

type Database struct {
	ConnectionURL   string        `mapstructure:"connection-url" yaml:"connection-url"`
	MaxConns        int32         `mapstructure:"max-conns" yaml:"max-conns"`
	ConnectAttempts uint          `mapstructure:"connect-attempts" yaml:"connect-attempts"`
	ConnectDelay    time.Duration `mapstructure:"connect-delay" yaml:"connect-delay"`
}

type Sink struct {
	Mode         string        `mapstructure:"mode" yaml:"mode"`
	TableName    string        `mapstructure:"table-name" yaml:"table-name"`
	Columns      []string      `mapstructure:"columns" yaml:"columns"`
	BatchSize    int           `mapstructure:"batch-size" yaml:"batch-size"`
	IdleTimeout  time.Duration `mapstructure:"idle-timeout" yaml:"idle-timeout"`
	ReapInterval time.Duration `mapstructure:"reap-interval" yaml:"reap-interval"`
	Format       string        `mapstructure:"format" yaml:"format"`
	Delimiter    *string       `mapstructure:"delimiter" yaml:"delimiter"`
	NullString   *string       `mapstructure:"null-string" yaml:"null-string"`
	Quote        *string       `mapstructure:"quote" yaml:"quote"`
	Escape       *string       `mapstructure:"escape" yaml:"escape"`
	Initialize   string        `mapstructure:"initialize" yaml:"initialize"`
	ErrorTable   string        `mapstructure:"error-table" yaml:"error-table"`
}

// EffectiveColumns returns the configured columns or the mode's default column set.
func (s Sink) EffectiveColumns() []string {
	if len(s.Columns) > 0 {
		return s.Columns
	}
	if s.Mode == ModeRow {
		return []string{"payload:str(payload)"}
	}
	return []string{"payload"}
}

type Source struct {
	Type          string     `mapstructure:"type" yaml:"type"`
	PayloadFormat string     `mapstructure:"payload-format" yaml:"payload-format"`
	Path          string     `mapstructure:"path" yaml:"path"`
	Nats          NatsSource `mapstructure:"nats" yaml:"nats"`
	Kafka         Kafka      `mapstructure:"kafka" yaml:"kafka"`
	Jdbc          Jdbc       `mapstructure:"jdbc" yaml:"jdbc"`
}

type NatsSource struct {
	URL     string `mapstructure:"url" yaml:"url"`
	Subject string `mapstructure:"subject" yaml:"subject"`
	Queue   string `mapstructure:"queue" yaml:"queue"`
}

type Kafka struct {
	Brokers       []string `mapstructure:"brokers" yaml:"brokers"`
	Topics        []string `mapstructure:"topics" yaml:"topics"`
	Group         string   `mapstructure:"group" yaml:"group"`
	InitialOffset string   `mapstructure:"initial-offset" yaml:"initial-offset"`
}

type Jdbc struct {
	Query        string        `mapstructure:"query" yaml:"query"`
	Update       string        `mapstructure:"update" yaml:"update"`
	PollInterval time.Duration `mapstructure:"poll-interval" yaml:"poll-interval"`
	MaxRows      int           `mapstructure:"max-rows" yaml:"max-rows"`
	Split        bool          `mapstructure:"split" yaml:"split"`
}

type Metrics struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    string `mapstructure:"port" yaml:"port"`
}

type Telemetry struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	WriteKey string `mapstructure:"write-key" yaml:"write-key"`
}
