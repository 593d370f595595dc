// Package ws - websocket-сервис сцен: одноразовая выдача и прием
// сериализованной сцены целиком. Потоковые обновления не поддерживаются.
package ws

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"x-scene/internal/objectstream"
	"x-scene/internal/scene"
)

// Message - входящее сообщение клиента
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// SceneService раздает и принимает сцены по websocket
type SceneService struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	current *scene.Scene
}

// NewSceneService создает сервис с начальной сценой
func NewSceneService(initial *scene.Scene) *SceneService {
	return &SceneService{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		current: initial,
	}
}

// CurrentScene возвращает текущую сцену сервиса
func (s *SceneService) CurrentScene() *scene.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// HandleWS обслуживает одно websocket-соединение
func (s *SceneService) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Ошибка апгрейда соединения: %v", err)
		return
	}
	writer := NewSafeWriter(conn)
	defer writer.Close()

	for {
		_, raw, err := writer.ReadMessage()
		if err != nil {
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendError(writer, "malformed message")
			continue
		}

		switch msg.Type {
		case "load_scene":
			s.handleLoad(writer)
		case "save_scene":
			s.handleSave(writer, msg.Data)
		default:
			s.sendError(writer, "unknown message type "+msg.Type)
		}
	}
}

// handleLoad сериализует текущую сцену и отправляет клиенту
func (s *SceneService) handleLoad(writer *SafeWriter) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	var buf bytes.Buffer
	if err := objectstream.Write(&buf, current); err != nil {
		log.Printf("[WS] Ошибка записи сцены: %v", err)
		s.sendError(writer, "failed to serialize scene")
		return
	}

	if err := writer.WriteJSON(map[string]interface{}{
		"type": "scene",
		"data": json.RawMessage(buf.Bytes()),
	}); err != nil {
		log.Printf("[WS] Ошибка отправки сцены: %v", err)
	}
}

// handleSave читает присланную сцену и делает ее текущей.
// Негодный поток отклоняется целиком, текущая сцена не меняется.
func (s *SceneService) handleSave(writer *SafeWriter, data json.RawMessage) {
	if len(data) == 0 {
		s.sendError(writer, "save_scene without data")
		return
	}

	sc, err := objectstream.Read(bytes.NewReader(data))
	if err != nil {
		log.Printf("[WS] Ошибка чтения сцены: %v", err)
		s.sendError(writer, "failed to deserialize scene")
		return
	}

	s.mu.Lock()
	s.current = sc
	s.mu.Unlock()

	log.Printf("[WS] Принята сцена: %d тел, %d ограничений, %d мягких тел",
		len(sc.Bodies), len(sc.Constraints), len(sc.SoftBodies))

	if err := writer.WriteJSON(map[string]interface{}{
		"type":        "ack",
		"bodies":      len(sc.Bodies),
		"constraints": len(sc.Constraints),
		"soft_bodies": len(sc.SoftBodies),
	}); err != nil {
		log.Printf("[WS] Ошибка отправки подтверждения: %v", err)
	}
}

func (s *SceneService) sendError(writer *SafeWriter, message string) {
	if err := writer.WriteJSON(map[string]interface{}{
		"type":    "error",
		"message": message,
	}); err != nil {
		log.Printf("[WS] Ошибка отправки сообщения об ошибке: %v", err)
	}
}
