package ws

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"

	"x-scene/internal/objectstream"
	"x-scene/internal/scene"
)

// Небольшая сцена для тестов сервиса
func buildTestScene() *scene.Scene {
	sc := scene.NewScene()
	sc.AddBody(&scene.BodyDescription{
		Shape:    scene.NewSphereShape(0.5, &scene.Material{Name: "Test Material", Color: "#ff0000"}),
		Position: mgl32.Vec3{0, 1, 0},
		Rotation: mgl32.QuatIdent(),
		Motion:   scene.MotionDynamic,
		Layer:    scene.LayerMoving,
	})
	sc.AddBody(&scene.BodyDescription{
		Shape:    scene.NewBoxShape(mgl32.Vec3{0.2, 0.2, 0.4}, 0.01, nil),
		Position: mgl32.Vec3{0, 2, 0},
		Rotation: mgl32.QuatIdent(),
		Motion:   scene.MotionDynamic,
		Layer:    scene.LayerMoving,
	})
	sc.AddConstraint(&scene.DistanceConstraintData{Space: scene.SpaceWorld}, 0, 1)
	return sc
}

func dialService(t *testing.T, service *SceneService) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(service.HandleWS))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket server: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSceneService_LoadScene(t *testing.T) {
	service := NewSceneService(buildTestScene())
	conn := dialService(t, service)

	if err := conn.WriteJSON(map[string]string{"type": "load_scene"}); err != nil {
		t.Fatalf("Failed to send load_scene: %v", err)
	}

	var resp struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}
	if resp.Type != "scene" {
		t.Fatalf("Expected scene response, got %q", resp.Type)
	}

	// Присланный поток читается обратно в эквивалентную сцену
	sc, err := objectstream.Read(bytes.NewReader(resp.Data))
	if err != nil {
		t.Fatalf("Failed to decode scene stream: %v", err)
	}
	if len(sc.Bodies) != 2 || len(sc.Constraints) != 1 {
		t.Errorf("Expected 2 bodies and 1 constraint, got %d and %d", len(sc.Bodies), len(sc.Constraints))
	}
}

func TestSceneService_SaveScene(t *testing.T) {
	service := NewSceneService(scene.NewScene())
	conn := dialService(t, service)

	var buf bytes.Buffer
	if err := objectstream.Write(&buf, buildTestScene()); err != nil {
		t.Fatalf("Failed to serialize test scene: %v", err)
	}

	if err := conn.WriteJSON(map[string]interface{}{
		"type": "save_scene",
		"data": json.RawMessage(buf.Bytes()),
	}); err != nil {
		t.Fatalf("Failed to send save_scene: %v", err)
	}

	var resp struct {
		Type        string `json:"type"`
		Bodies      int    `json:"bodies"`
		Constraints int    `json:"constraints"`
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}
	if resp.Type != "ack" {
		t.Fatalf("Expected ack response, got %q", resp.Type)
	}
	if resp.Bodies != 2 || resp.Constraints != 1 {
		t.Errorf("Expected 2 bodies and 1 constraint, got %d and %d", resp.Bodies, resp.Constraints)
	}

	// Сервис принял сцену как текущую
	current := service.CurrentScene()
	if len(current.Bodies) != 2 {
		t.Errorf("Expected service to hold 2 bodies, got %d", len(current.Bodies))
	}
}

func TestSceneService_RejectsMalformedScene(t *testing.T) {
	service := NewSceneService(buildTestScene())
	conn := dialService(t, service)

	if err := conn.WriteJSON(map[string]interface{}{
		"type": "save_scene",
		"data": json.RawMessage(`{"format": "other"}`),
	}); err != nil {
		t.Fatalf("Failed to send save_scene: %v", err)
	}

	var resp struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}
	if resp.Type != "error" {
		t.Fatalf("Expected error response, got %q", resp.Type)
	}

	// Текущая сцена не изменилась
	if len(service.CurrentScene().Bodies) != 2 {
		t.Errorf("Current scene must stay intact after rejected save")
	}
}

func TestSceneService_UnknownMessageType(t *testing.T) {
	service := NewSceneService(scene.NewScene())
	conn := dialService(t, service)

	if err := conn.WriteJSON(map[string]string{"type": "dance"}); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}

	var resp struct {
		Type string `json:"type"`
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}
	if resp.Type != "error" {
		t.Fatalf("Expected error response, got %q", resp.Type)
	}
}
