// Package mqtt connects the assistant to its voice terminals. Terminals
// announce presence and capabilities; the hub requests speech capture from
// them and pushes text-to-speech output back out.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"jarvis/internal/domain"
	"jarvis/internal/speech"
	"jarvis/internal/terminals"
)

type HubConfig struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	// ListenTimeout bounds one capture round trip. Defaults to 20s.
	ListenTimeout time.Duration
	// MaxRetries bounds consecutive unrecognized captures before the hub
	// gives up. Defaults to 3.
	MaxRetries int
}

type Hub struct {
	cfg      HubConfig
	client   paho.Client
	registry *terminals.Registry
	voice    *speech.Voice
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]chan domain.Transcript
}

func NewHub(cfg HubConfig, registry *terminals.Registry, voice *speech.Voice, logger *slog.Logger) *Hub {
	if cfg.ListenTimeout <= 0 {
		cfg.ListenTimeout = 20 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &Hub{
		cfg:      cfg,
		registry: registry,
		voice:    voice,
		logger:   logger,
		pending:  make(map[string]chan domain.Transcript),
	}
}

func (h *Hub) Start(ctx context.Context) error {
	opts := paho.NewClientOptions().
		AddBroker(h.cfg.BrokerURL).
		SetClientID(h.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	if h.cfg.Username != "" {
		opts.SetUsername(h.cfg.Username)
		opts.SetPassword(h.cfg.Password)
	}

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		h.logger.Error("mqtt connection lost", "error", err)
	})

	h.client = paho.NewClient(opts)
	if token := h.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	if err := h.subscribeHandlers(); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		h.client.Disconnect(100)
	}()

	return nil
}

func (h *Hub) subscribeHandlers() error {
	if token := h.client.Subscribe(TopicTerminalOnline(h.cfg.TopicPrefix), 1, h.handleOnline); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if token := h.client.Subscribe(TopicTerminalHeartbeat(h.cfg.TopicPrefix), 1, h.handleHeartbeat); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if token := h.client.Subscribe(TopicTerminalCapabilities(h.cfg.TopicPrefix), 1, h.handleCapabilities); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if token := h.client.Subscribe(TopicTerminalTranscript(h.cfg.TopicPrefix), 1, h.handleTranscript); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (h *Hub) handleOnline(_ paho.Client, msg paho.Message) {
	terminalID, err := ParseTerminalID(msg.Topic(), h.cfg.TopicPrefix)
	if err != nil {
		h.logger.Warn("skip invalid online topic", "topic", msg.Topic(), "error", err)
		return
	}

	payload := strings.TrimSpace(strings.ToLower(string(msg.Payload())))
	online := payload == "1" || payload == "true" || payload == "online"
	h.registry.SetOnline(terminalID, online)
	h.logger.Info("terminal online status", "terminal_id", terminalID, "online", online)
}

func (h *Hub) handleHeartbeat(_ paho.Client, msg paho.Message) {
	terminalID, err := ParseTerminalID(msg.Topic(), h.cfg.TopicPrefix)
	if err != nil {
		h.logger.Warn("skip invalid heartbeat topic", "topic", msg.Topic(), "error", err)
		return
	}
	h.registry.Touch(terminalID)
}

func (h *Hub) handleCapabilities(_ paho.Client, msg paho.Message) {
	terminalID, err := ParseTerminalID(msg.Topic(), h.cfg.TopicPrefix)
	if err != nil {
		h.logger.Warn("skip invalid capabilities topic", "topic", msg.Topic(), "error", err)
		return
	}

	var capabilities []string
	if err := json.Unmarshal(msg.Payload(), &capabilities); err != nil {
		h.logger.Warn("invalid capabilities payload", "terminal_id", terminalID, "error", err)
		return
	}
	h.registry.SetCapabilities(terminalID, capabilities)
	h.logger.Info("terminal capabilities updated", "terminal_id", terminalID, "capabilities", capabilities)
}

func (h *Hub) handleTranscript(_ paho.Client, msg paho.Message) {
	requestID := ParseRequestID(msg.Topic())
	if requestID == "" {
		return
	}

	var transcript domain.Transcript
	if err := json.Unmarshal(msg.Payload(), &transcript); err != nil {
		h.logger.Warn("invalid transcript payload", "topic", msg.Topic(), "error", err)
		return
	}
	if transcript.RequestID == "" {
		transcript.RequestID = requestID
	}

	h.pendingMu.Lock()
	ch, ok := h.pending[transcript.RequestID]
	h.pendingMu.Unlock()
	if !ok {
		return
	}

	select {
	case ch <- transcript:
	default:
	}
}

// Listen asks an online terminal to capture one utterance. Unrecognized
// audio is retried up to the configured budget; timeouts and transport
// failures surface immediately so the caller can fall back to manual input.
func (h *Hub) Listen(ctx context.Context) (string, error) {
	terminal, ok := h.registry.FirstListener()
	if !ok {
		return "", &speech.ListenError{Kind: speech.KindNetwork, Detail: "no voice terminal online"}
	}

	for attempt := 1; attempt <= h.cfg.MaxRetries; attempt++ {
		text, err := h.listenOnce(ctx, terminal.TerminalID)
		if err == nil {
			return text, nil
		}

		var lerr *speech.ListenError
		if errors.As(err, &lerr) && lerr.Kind == speech.KindUnknown && attempt < h.cfg.MaxRetries {
			h.logger.Info("speech not recognized, retrying", "terminal_id", terminal.TerminalID, "attempt", attempt)
			continue
		}
		return "", err
	}
	return "", &speech.ListenError{Kind: speech.KindMaxRetries}
}

func (h *Hub) listenOnce(ctx context.Context, terminalID string) (string, error) {
	requestID := uuid.NewString()
	payload := domain.ListenRequest{
		RequestID:      requestID,
		TimeoutSeconds: int(h.cfg.ListenTimeout / time.Second),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	transcriptCh := make(chan domain.Transcript, 1)
	h.pendingMu.Lock()
	h.pending[requestID] = transcriptCh
	h.pendingMu.Unlock()
	defer func() {
		h.pendingMu.Lock()
		delete(h.pending, requestID)
		h.pendingMu.Unlock()
	}()

	topic := TopicListen(h.cfg.TopicPrefix, terminalID, requestID)
	if token := h.client.Publish(topic, 1, false, body); token.Wait() && token.Error() != nil {
		return "", &speech.ListenError{Kind: speech.KindNetwork, Detail: token.Error().Error()}
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case transcript := <-transcriptCh:
		if !transcript.OK {
			return "", speech.ParseListenError(transcript.Error)
		}
		return transcript.Text, nil
	case <-time.After(h.cfg.ListenTimeout):
		return "", &speech.ListenError{Kind: speech.KindTimeout}
	}
}

// Speak pushes text-to-speech output to every online terminal, along with
// the voice settings the terminal should render it with.
func (h *Hub) Speak(text string) {
	style, rate, volume, muted := h.voice.Settings()
	payload := domain.SpeakMessage{
		Text:   text,
		Style:  style,
		Rate:   rate,
		Volume: volume,
		Muted:  muted,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn("marshal speak payload failed", "error", err)
		return
	}

	online := h.registry.ListOnline()
	if len(online) == 0 {
		h.logger.Warn("no terminal online for speak", "text", text)
		return
	}
	for _, terminal := range online {
		topic := TopicSpeak(h.cfg.TopicPrefix, terminal.TerminalID)
		if token := h.client.Publish(topic, 1, false, body); token.Wait() && token.Error() != nil {
			h.logger.Warn("speak publish failed", "terminal_id", terminal.TerminalID, "error", token.Error())
		}
	}
}
