// Package notification implementa el envío de notificaciones push vía FCM
// (API legacy). El envío es best-effort: el caller decide si el error se
// degrada a warning.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tu-usuario/pharma-pos/pkg/config"
	"github.com/tu-usuario/pharma-pos/pkg/logger"
)

// FCMSink envía notificaciones a FCM por HTTP. Cada usuario está suscrito al
// topic "user-<id>" desde la app móvil, así el backend no guarda device
// tokens.
type FCMSink struct {
	serverKey string
	endpoint  string
	client    *http.Client
	log       *logger.Logger
}

// NewFCMSink construye el sink con la configuración de notificaciones.
func NewFCMSink(cfg config.NotifyConfig, log *logger.Logger) *FCMSink {
	return &FCMSink{
		serverKey: cfg.FCMServerKey,
		endpoint:  cfg.FCMEndpoint,
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       log,
	}
}

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send publica la notificación en el topic del usuario. Sin server key
// configurada solo se loguea (entornos de desarrollo).
func (s *FCMSink) Send(ctx context.Context, userID, title, body, notifType string, data map[string]string) error {
	if s.serverKey == "" {
		s.log.Info().
			Str("user_id", userID).
			Str("type", notifType).
			Str("title", title).
			Msg("notificación (FCM sin configurar, solo log)")
		return nil
	}

	if data == nil {
		data = map[string]string{}
	}
	data["type"] = notifType

	payload, err := json.Marshal(fcmMessage{
		To:           "/topics/user-" + userID,
		Notification: fcmNotification{Title: title, Body: body},
		Data:         data,
	})
	if err != nil {
		return fmt.Errorf("fcm: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("fcm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.serverKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fcm: enviar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("fcm: respuesta %d", resp.StatusCode)
	}
	return nil
}
