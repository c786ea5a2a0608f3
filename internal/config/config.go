package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr        string
	Mode            string
	VoiceStyle      string
	WeatherAPIKey   string
	WeatherCity     string
	CommandLogPath  string
	IntentCatalog   string
	DBDSN           string
	DeviceID        string
	MQTTBrokerURL   string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string
	ListenTimeout   time.Duration
	ListenRetries   int
	TerminalTTL     time.Duration
	ServiceTimeout  time.Duration
}

// Load reads the assistant configuration from the environment. Everything
// has a workable default except the integrations that need credentials:
// weather stays off without JARVIS_WEATHER_API_KEY and Postgres stays off
// without JARVIS_DB_DSN.
func Load() Config {
	return Config{
		HTTPAddr:        getenvDefault("JARVIS_HTTP_ADDR", ":9020"),
		Mode:            getenvDefault("JARVIS_MODE", "voice"),
		VoiceStyle:      getenvDefault("JARVIS_VOICE_STYLE", "formal"),
		WeatherAPIKey:   os.Getenv("JARVIS_WEATHER_API_KEY"),
		WeatherCity:     getenvDefault("JARVIS_WEATHER_CITY", "London"),
		CommandLogPath:  getenvDefault("JARVIS_COMMAND_LOG", "logs/history.txt"),
		IntentCatalog:   os.Getenv("JARVIS_INTENT_CATALOG"),
		DBDSN:           os.Getenv("JARVIS_DB_DSN"),
		DeviceID:        os.Getenv("JARVIS_DEVICE_ID"),
		MQTTBrokerURL:   getenvDefault("MQTT_BROKER_URL", "tcp://localhost:1883"),
		MQTTClientID:    getenvDefault("JARVIS_MQTT_CLIENT_ID", "jarvis-server"),
		MQTTUsername:    os.Getenv("MQTT_USERNAME"),
		MQTTPassword:    os.Getenv("MQTT_PASSWORD"),
		MQTTTopicPrefix: getenvDefault("MQTT_TOPIC_PREFIX", "jarvis"),
		ListenTimeout:   time.Duration(getenvIntDefault("JARVIS_LISTEN_TIMEOUT_SECONDS", 20)) * time.Second,
		ListenRetries:   getenvIntDefault("JARVIS_LISTEN_RETRIES", 3),
		TerminalTTL:     time.Duration(getenvIntDefault("JARVIS_TERMINAL_TTL_SECONDS", 60)) * time.Second,
		ServiceTimeout:  time.Duration(getenvIntDefault("JARVIS_SERVICE_TIMEOUT_SECONDS", 5)) * time.Second,
	}
}

func getenvDefault(key, val string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return val
}

func getenvIntDefault(key string, val int) int {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return val
	}
	return n
}
