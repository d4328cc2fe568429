package utils

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/analytics-go"
)

// TelemetryClient sends anonymous usage events when enabled in the config.
type TelemetryClient struct {
	client analytics.Client
	userId string
}

func NewTelemetry(config Telemetry) *TelemetryClient {
	if !config.Enabled || config.WriteKey == "" {
		return &TelemetryClient{}
	}

	userId, err := getUserId()
	if err != nil {
		logger.Debug().Str("err", err.Error()).Msg("failed to resolve telemetry user id")
		return &TelemetryClient{}
	}

	return &TelemetryClient{
		client: analytics.New(config.WriteKey),
		userId: userId,
	}
}

func (t *TelemetryClient) Track(event string, properties map[string]interface{}) {
	if t == nil || t.client == nil {
		return
	}

	props := analytics.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}

	err := t.client.Enqueue(analytics.Track{
		UserId:     t.userId,
		Event:      event,
		Properties: props,
		Context:    getContext(),
	})
	if err != nil {
		logger.Debug().Str("err", err.Error()).Msg("failed to enqueue telemetry event")
	}
}

func (t *TelemetryClient) Close() {
	if t == nil || t.client == nil {
		return
	}
	if err := t.client.Close(); err != nil {
		logger.Debug().Str("err", err.Error()).Msg("failed to flush telemetry")
	}
}

func getContext() *analytics.Context {
	build := CurrentBuild()
	timezone, _ := time.Now().Zone()
	locale := os.Getenv("LANG")

	return &analytics.Context{
		App: analytics.AppInfo{
			Name:    "dlt-sink",
			Version: build.Version,
		},
		Location: analytics.LocationInfo{},
		OS: analytics.OSInfo{
			Name: build.Platform,
		},
		Locale:   locale,
		Timezone: timezone,
	}
}

func getUserId() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	sinkDir := filepath.Join(home, ".dlt-sink")
	if _, err = os.Stat(sinkDir); os.IsNotExist(err) {
		if err := os.Mkdir(sinkDir, 0o755); err != nil {
			return "", err
		}
	}

	userId := uuid.New().String()

	idFile := filepath.Join(sinkDir, "id")
	if _, err = os.Stat(idFile); os.IsNotExist(err) {
		if err := os.WriteFile(idFile, []byte(userId), 0o644); err != nil {
			return "", err
		}
	} else {
		data, err := os.ReadFile(idFile)
		if err != nil {
			return "", err
		}
		userId = strings.TrimSpace(string(data))
	}

	return userId, nil
}
