package utils

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	logger = DltLogger("config")

	DefaultHomePath = defaultHomePath()
)

//go:embed config_template.yml
var defaultConfig []byte

var optionalKeys = []string{
	"sink.delimiter",
	"sink.null-string",
	"sink.quote",
	"sink.escape",
}

func defaultHomePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".dlt-sink", "config.yml")
	}
	return filepath.Join(home, ".dlt-sink", "config.yml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", "info")

	v.SetDefault("database.connection-url", "postgres://localhost:5432/postgres?sslmode=disable")
	v.SetDefault("database.max-conns", 4)
	v.SetDefault("database.connect-attempts", 5)
	v.SetDefault("database.connect-delay", "1s")

	v.SetDefault("sink.mode", ModeBulk)
	v.SetDefault("sink.table-name", "")
	v.SetDefault("sink.columns", []string{})
	v.SetDefault("sink.batch-size", 10000)
	v.SetDefault("sink.idle-timeout", "-1ms")
	v.SetDefault("sink.reap-interval", "1s")
	v.SetDefault("sink.format", "TEXT")
	v.SetDefault("sink.initialize", "false")
	v.SetDefault("sink.error-table", "")

	v.SetDefault("source.type", "stdin")
	v.SetDefault("source.payload-format", "text")
	v.SetDefault("source.path", "")
	v.SetDefault("source.nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("source.nats.subject", "")
	v.SetDefault("source.nats.queue", "")
	v.SetDefault("source.kafka.brokers", []string{})
	v.SetDefault("source.kafka.topics", []string{})
	v.SetDefault("source.kafka.group", "dlt-sink")
	v.SetDefault("source.kafka.initial-offset", "newest")
	v.SetDefault("source.jdbc.query", "")
	v.SetDefault("source.jdbc.update", "")
	v.SetDefault("source.jdbc.poll-interval", "1s")
	v.SetDefault("source.jdbc.max-rows", 0)
	v.SetDefault("source.jdbc.split", true)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", "8080")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.write-key", "")
}

func newViper(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DLTSINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range optionalKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	}
	return v, nil
}

// millisecondsHook decodes bare numbers into durations measured in milliseconds.
func millisecondsHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != durationType {
			return data, nil
		}
		switch v := data.(type) {
		case int:
			return time.Duration(v) * time.Millisecond, nil
		case int64:
			return time.Duration(v) * time.Millisecond, nil
		case float64:
			return time.Duration(v * float64(time.Millisecond)), nil
		case string:
			if ms, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return time.Duration(ms) * time.Millisecond, nil
			}
		}
		return data, nil
	}
}

func LoadConfig(configPath string) (*Config, error) {
	v, err := newViper(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	err = v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		millisecondsHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// yaml booleans arrive weakly decoded as "1"/"0"
	switch config.Sink.Initialize {
	case "1":
		config.Sink.Initialize = "true"
	case "0", "":
		config.Sink.Initialize = "false"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	SetLogLevel(config.LogLevel)

	return &config, nil
}

// LoadSettings returns the effective settings (file, environment and defaults merged) as a plain map.
func LoadSettings(configPath string) (map[string]interface{}, error) {
	v, err := newViper(configPath)
	if err != nil {
		return nil, err
	}
	return v.AllSettings(), nil
}

func RenderSettings(settings map[string]interface{}) (string, error) {
	out, err := yaml.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("failed to render settings: %w", err)
	}
	return string(out), nil
}

func (c *Config) Validate() error {
	s := c.Sink
	if strings.TrimSpace(s.TableName) == "" {
		return errors.New("sink.table-name is required")
	}
	if s.Mode != ModeRow && s.Mode != ModeBulk {
		return fmt.Errorf("sink.mode must be %q or %q, got %q", ModeRow, ModeBulk, s.Mode)
	}
	if s.BatchSize <= 0 {
		return fmt.Errorf("sink.batch-size must be positive, got %d", s.BatchSize)
	}
	if s.ReapInterval <= 0 {
		return fmt.Errorf("sink.reap-interval must be positive, got %s", s.ReapInterval)
	}
	switch strings.ToUpper(s.Format) {
	case "TEXT", "CSV":
	default:
		return fmt.Errorf("sink.format must be TEXT or CSV, got %q", s.Format)
	}
	if s.Quote != nil && utf8.RuneCountInString(*s.Quote) != 1 {
		return fmt.Errorf("sink.quote must be a single character, got %q", *s.Quote)
	}
	if s.Escape != nil && utf8.RuneCountInString(*s.Escape) != 1 {
		return fmt.Errorf("sink.escape must be a single character, got %q", *s.Escape)
	}

	if !Contains(SourceTypes, c.Source.Type) {
		return fmt.Errorf("source.type not supported: %v", c.Source.Type)
	}
	switch c.Source.PayloadFormat {
	case "text", "json":
	default:
		return fmt.Errorf("source.payload-format must be text or json, got %q", c.Source.PayloadFormat)
	}
	return nil
}

// InitConfig writes the default config template and applies the given overrides, keyed by dotted path.
func InitConfig(configPath string, values map[string]string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("already initialized")
	}

	logger.Info().Str("path", configPath).Msg("creating default config")

	dirPath := filepath.Dir(configPath)
	if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directories %s: %w", dirPath, err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(defaultConfig, &node); err != nil {
		return fmt.Errorf("failed to parse config template: %w", err)
	}
	for path, value := range values {
		if err := SetNodeValue(&node, path, value); err != nil {
			return err
		}
	}

	return SaveConfigWithComments(configPath, &node)
}

func SaveConfigWithComments(path string, node *yaml.Node) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	defer encoder.Close()

	if err := encoder.Encode(node); err != nil {
		return err
	}

	return nil
}

// SetNodeValue sets the scalar at a dotted path such as "sink.table-name", keeping comments intact.
func SetNodeValue(root *yaml.Node, path string, value string) error {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid config document")
	}
	current := root.Content[0]
	keys := strings.Split(path, ".")
	for i, key := range keys {
		if current.Kind != yaml.MappingNode {
			return fmt.Errorf("%s is not a section", strings.Join(keys[:i], "."))
		}
		var next *yaml.Node
		for j := 0; j+1 < len(current.Content); j += 2 {
			if current.Content[j].Value == key {
				next = current.Content[j+1]
				break
			}
		}
		if next == nil {
			return fmt.Errorf("key %s not found in the config", path)
		}
		current = next
	}
	current.Kind = yaml.ScalarNode
	current.Tag = "!!str"
	current.Value = value
	current.Content = nil
	return nil
}

func GetNodeValue(node yaml.Node, key string) string {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1].Value
		}
	}
	return ""
}
