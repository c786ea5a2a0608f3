// jarvis-terminal simulates a voice terminal on the console: it announces
// itself over MQTT, answers listen requests with lines typed on stdin, and
// prints speak messages it receives. Useful for exercising the server
// without microphone hardware.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"jarvis/internal/config"
	"jarvis/internal/domain"
	"jarvis/internal/mqtt"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.Load()

	terminalID := cfg.DeviceID
	if terminalID == "" {
		terminalID = "terminal-console-01"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
		close(lines)
	}()

	opts := paho.NewClientOptions().
		AddBroker(cfg.MQTTBrokerURL).
		SetClientID("jarvis-terminal-" + terminalID).
		SetAutoReconnect(true).
		SetConnectRetry(true)
	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}
	opts.SetWill(mqtt.TopicOnline(cfg.MQTTTopicPrefix, terminalID), "0", 1, true)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		logger.Error("connect mqtt failed", "error", token.Error())
		os.Exit(1)
	}
	defer client.Disconnect(100)

	listenTopic := fmt.Sprintf("%s/terminal/%s/listen/+", cfg.MQTTTopicPrefix, terminalID)
	token := client.Subscribe(listenTopic, 1, func(_ paho.Client, msg paho.Message) {
		var req domain.ListenRequest
		if err := json.Unmarshal(msg.Payload(), &req); err != nil {
			logger.Warn("invalid listen request", "error", err)
			return
		}
		go answerListen(client, cfg.MQTTTopicPrefix, terminalID, req, lines, logger)
	})
	if token.Wait() && token.Error() != nil {
		logger.Error("subscribe listen failed", "error", token.Error())
		os.Exit(1)
	}

	speakTopic := mqtt.TopicSpeak(cfg.MQTTTopicPrefix, terminalID)
	token = client.Subscribe(speakTopic, 1, func(_ paho.Client, msg paho.Message) {
		var speak domain.SpeakMessage
		if err := json.Unmarshal(msg.Payload(), &speak); err != nil {
			logger.Warn("invalid speak payload", "error", err)
			return
		}
		if speak.Muted {
			fmt.Printf("(muted) Jarvis: %s\n", speak.Text)
			return
		}
		fmt.Printf("Jarvis [%s]: %s\n", speak.Style, speak.Text)
	})
	if token.Wait() && token.Error() != nil {
		logger.Error("subscribe speak failed", "error", token.Error())
		os.Exit(1)
	}

	announce(client, cfg.MQTTTopicPrefix, terminalID, logger)
	go heartbeat(ctx, client, cfg.MQTTTopicPrefix, terminalID)

	logger.Info("terminal online", "terminal_id", terminalID, "broker", cfg.MQTTBrokerURL)
	fmt.Println("Type a line when the assistant asks to listen. Ctrl+C to quit.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	client.Publish(mqtt.TopicOnline(cfg.MQTTTopicPrefix, terminalID), 1, true, "0").Wait()
}

func announce(client paho.Client, prefix, terminalID string, logger *slog.Logger) {
	capabilities, _ := json.Marshal([]string{"listen", "speak"})
	if token := client.Publish(mqtt.TopicCapabilities(prefix, terminalID), 1, true, capabilities); token.Wait() && token.Error() != nil {
		logger.Warn("publish capabilities failed", "error", token.Error())
	}
	if token := client.Publish(mqtt.TopicOnline(prefix, terminalID), 1, true, "1"); token.Wait() && token.Error() != nil {
		logger.Warn("publish online failed", "error", token.Error())
	}
}

func heartbeat(ctx context.Context, client paho.Client, prefix, terminalID string) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			client.Publish(mqtt.TopicHeartbeat(prefix, terminalID), 0, false, "1")
		}
	}
}

func answerListen(client paho.Client, prefix, terminalID string, req domain.ListenRequest, lines <-chan string, logger *slog.Logger) {
	timeout := time.Duration(req.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	fmt.Print("You: ")
	transcript := domain.Transcript{RequestID: req.RequestID}
	select {
	case line, ok := <-lines:
		if !ok {
			transcript.Error = "error:stdin closed"
		} else if line == "" {
			transcript.Error = "unknown"
		} else {
			transcript.OK = true
			transcript.Text = strings.ToLower(line)
		}
	case <-time.After(timeout):
		transcript.Error = "timeout"
	}

	body, _ := json.Marshal(transcript)
	topic := mqtt.TopicTranscript(prefix, terminalID, req.RequestID)
	if token := client.Publish(topic, 1, false, body); token.Wait() && token.Error() != nil {
		logger.Warn("publish transcript failed", "error", token.Error())
	}
}
