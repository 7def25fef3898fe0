package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"

	"hotable/internal/db"
	"hotable/internal/domain"
)

var ErrNotConnected = errors.New("mqtt client is not connected")

type HubConfig struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// Hub bridges restaurant availability feeds and chat turn events over MQTT.
// With a nil repository it only publishes.
type Hub struct {
	cfg    HubConfig
	client paho.Client
	repo   db.Repository
	logger *slog.Logger
}

func NewHub(cfg HubConfig, repo db.Repository, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
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
	// Subscriptions are not kept across reconnects of a clean session.
	opts.SetOnConnectHandler(func(_ paho.Client) {
		if err := h.subscribeHandlers(); err != nil {
			h.logger.Error("mqtt subscribe failed", "error", err)
		}
	})

	h.client = paho.NewClient(opts)
	token := h.client.Connect()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return err
		}
	case <-ctx.Done():
		h.client.Disconnect(0)
		return ctx.Err()
	}

	go func() {
		<-ctx.Done()
		h.client.Disconnect(100)
	}()

	return nil
}

func (h *Hub) subscribeHandlers() error {
	if h.repo == nil {
		return nil
	}
	if token := h.client.Subscribe(TopicRestaurantAvailability(h.cfg.TopicPrefix), 1, h.handleAvailability); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (h *Hub) handleAvailability(_ paho.Client, msg paho.Message) {
	update, err := h.ApplyAvailability(context.Background(), msg.Topic(), msg.Payload())
	if err != nil {
		h.logger.Warn("availability update rejected", "topic", msg.Topic(), "error", err)
		return
	}
	h.logger.Info("availability updated", "restaurant", update.Restaurant, "available_tables", update.AvailableTables)
}

// ApplyAvailability decodes one availability message and writes it to the
// repository. The payload is {"available_tables": n} or a bare integer; a
// restaurant named in the payload wins over the topic slug.
func (h *Hub) ApplyAvailability(ctx context.Context, topic string, payload []byte) (domain.AvailabilityUpdate, error) {
	if h.repo == nil {
		return domain.AvailabilityUpdate{}, fmt.Errorf("no repository configured")
	}
	slug, err := ParseRestaurantSlug(topic, h.cfg.TopicPrefix)
	if err != nil {
		return domain.AvailabilityUpdate{}, err
	}
	update, err := decodeAvailability(payload)
	if err != nil {
		return domain.AvailabilityUpdate{}, err
	}

	name := strings.TrimSpace(update.Restaurant)
	if name == "" {
		name = Unslug(slug)
	}
	// "porto-azzurro" lands on "Porto Azzurro"; "porto" lands nowhere.
	rest, err := h.repo.UpdateAvailability(ctx, name, update.AvailableTables)
	if err != nil {
		return domain.AvailabilityUpdate{}, fmt.Errorf("update %q: %w", name, err)
	}
	update.Restaurant = rest.Name
	return update, nil
}

func decodeAvailability(payload []byte) (domain.AvailabilityUpdate, error) {
	raw := strings.TrimSpace(string(payload))
	if n, err := strconv.Atoi(raw); err == nil {
		return domain.AvailabilityUpdate{AvailableTables: n}, nil
	}
	var update domain.AvailabilityUpdate
	if err := json.Unmarshal([]byte(raw), &update); err != nil {
		return domain.AvailabilityUpdate{}, fmt.Errorf("invalid availability payload: %w", err)
	}
	return update, nil
}

func (h *Hub) PublishAvailability(ctx context.Context, restaurant string, tables int) error {
	body, err := json.Marshal(domain.AvailabilityUpdate{Restaurant: restaurant, AvailableTables: tables})
	if err != nil {
		return err
	}
	return h.publish(ctx, TopicAvailability(h.cfg.TopicPrefix, restaurant), true, body)
}

func (h *Hub) PublishTurn(ctx context.Context, event domain.TurnEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return h.publish(ctx, TopicTurn(h.cfg.TopicPrefix, event.SessionID), false, body)
}

func (h *Hub) publish(ctx context.Context, topic string, retained bool, body []byte) error {
	if h.client == nil || !h.client.IsConnected() {
		return ErrNotConnected
	}
	token := h.client.Publish(topic, 1, retained, body)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
		return token.Error()
	}
}
