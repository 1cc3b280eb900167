package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/campuslabs/unionvote/internal/logger"
	"github.com/campuslabs/unionvote/internal/models"
)

func TestNew_CreatesHub(t *testing.T) {
	log := logger.New()

	hub := New(log)

	if hub == nil {
		t.Fatal("expected hub to be created")
	}
	if hub.log == nil {
		t.Error("expected logger to be set")
	}
	if hub.clients == nil {
		t.Error("expected clients map to be initialized")
	}
	if hub.broadcast == nil {
		t.Error("expected broadcast channel to be initialized")
	}
	if hub.register == nil {
		t.Error("expected register channel to be initialized")
	}
	if hub.unregister == nil {
		t.Error("expected unregister channel to be initialized")
	}
}

func TestHub_BroadcastMessage(t *testing.T) {
	log := logger.New()
	hub := New(log)
	hub.Start()

	// Give hub time to start
	time.Sleep(10 * time.Millisecond)

	// BroadcastMessage should not block even with no clients
	done := make(chan bool)
	go func() {
		hub.BroadcastMessage("test", map[string]string{"key": "value"})
		done <- true
	}()

	select {
	case <-done:
		// Success - didn't block
	case <-time.After(100 * time.Millisecond):
		t.Error("BroadcastMessage blocked with no clients")
	}
}

func TestHub_BroadcastResultAnnounced_ImplementsBroadcaster(t *testing.T) {
	log := logger.New()
	hub := New(log)
	hub.Start()

	time.Sleep(10 * time.Millisecond)

	result := models.Result{
		Post: models.PostPresident,
		Winner: models.WinnerSnapshot{
			CandidateID: 1,
			Name:        "Aarav Sharma",
			Department:  "Computer Science",
			Year:        "3rd Year",
		},
		TotalVotes:  42,
		Announced:   true,
		AnnouncedAt: time.Now().UTC(),
	}

	done := make(chan bool)
	go func() {
		hub.BroadcastResultAnnounced(result)
		done <- true
	}()

	select {
	case <-done:
		// Success
	case <-time.After(100 * time.Millisecond):
		t.Error("BroadcastResultAnnounced blocked")
	}
}

func TestHub_Start_RunsInBackground(t *testing.T) {
	log := logger.New()
	hub := New(log)

	// Start should return immediately (runs in goroutine)
	done := make(chan bool)
	go func() {
		hub.Start()
		done <- true
	}()

	select {
	case <-done:
		// Success - Start returned immediately
	case <-time.After(100 * time.Millisecond):
		t.Error("Start() blocked instead of running in background")
	}
}

func TestHub_ClientRegistration(t *testing.T) {
	log := logger.New()
	hub := New(log)
	hub.Start()

	time.Sleep(10 * time.Millisecond)

	// Create a mock client
	client := &Client{
		hub:  hub,
		send: make(chan models.WSMessage, 256),
	}

	// Register client
	hub.register <- client
	time.Sleep(50 * time.Millisecond)

	// Verify client was registered
	hub.mutex.RLock()
	_, exists := hub.clients[client]
	hub.mutex.RUnlock()

	if !exists {
		t.Error("expected client to be registered")
	}
	if hub.ClientCount() != 1 {
		t.Errorf("expected ClientCount 1, got %d", hub.ClientCount())
	}
}

func TestHub_ClientUnregistration(t *testing.T) {
	log := logger.New()
	hub := New(log)
	hub.Start()

	time.Sleep(10 * time.Millisecond)

	// Create and register a mock client
	client := &Client{
		hub:  hub,
		send: make(chan models.WSMessage, 256),
	}

	hub.register <- client
	time.Sleep(50 * time.Millisecond)

	// Unregister client
	hub.unregister <- client
	time.Sleep(50 * time.Millisecond)

	// Verify client was unregistered
	hub.mutex.RLock()
	_, exists := hub.clients[client]
	hub.mutex.RUnlock()

	if exists {
		t.Error("expected client to be unregistered")
	}
}

// ==================== WebSocket Integration Tests ====================

func TestServeWs_ClientConnection(t *testing.T) {
	log := logger.New()
	hub := New(log)
	hub.Start()

	// Create test HTTP server
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	// Convert http://... to ws://...
	url := "ws" + server.URL[4:]

	// Connect WebSocket client
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer ws.Close()

	// Give server time to register client
	time.Sleep(100 * time.Millisecond)

	// Verify client was registered
	if got := hub.ClientCount(); got != 1 {
		t.Errorf("expected 1 client, got %d", got)
	}
}

func TestServeWs_NoReplayOnConnect(t *testing.T) {
	log := logger.New()
	hub := New(log)
	hub.Start()

	// Announce before anyone is connected
	hub.BroadcastResultAnnounced(models.Result{
		Post:      models.PostSecretary,
		Winner:    models.WinnerSnapshot{CandidateID: 7, Name: "Sneha Patel"},
		Announced: true,
	})

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + server.URL[4:]
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer ws.Close()

	// A late joiner must not receive past announcements
	ws.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, _, err := ws.ReadMessage(); err == nil {
		t.Error("expected no message for late joiner, but received one")
	}
}

func TestServeWs_BroadcastResultToClient(t *testing.T) {
	log := logger.New()
	hub := New(log)
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + server.URL[4:]
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer ws.Close()

	// Give server time to register client
	time.Sleep(100 * time.Millisecond)

	announcedAt := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	hub.BroadcastResultAnnounced(models.Result{
		Post: models.PostTreasurer,
		Winner: models.WinnerSnapshot{
			CandidateID: 3,
			Name:        "Rohan Mehta",
			Department:  "Commerce",
			Year:        "2nd Year",
		},
		TotalVotes:  17,
		Announced:   true,
		AnnouncedAt: announcedAt,
	})

	// Read the broadcasted message from WebSocket
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	// Verify message content
	var msg struct {
		Type    string            `json:"type"`
		Payload AnnouncementEvent `json:"payload"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}

	if msg.Type != "result_announced" {
		t.Errorf("expected type 'result_announced', got %s", msg.Type)
	}
	if msg.Payload.Post != "Treasurer" {
		t.Errorf("expected post 'Treasurer', got %s", msg.Payload.Post)
	}
	if msg.Payload.Winner.Name != "Rohan Mehta" {
		t.Errorf("expected winner 'Rohan Mehta', got %s", msg.Payload.Winner.Name)
	}
	if msg.Payload.TotalVotes != 17 {
		t.Errorf("expected total_votes 17, got %d", msg.Payload.TotalVotes)
	}
	if !msg.Payload.AnnouncedAt.Equal(announcedAt) {
		t.Errorf("expected announced_at %v, got %v", announcedAt, msg.Payload.AnnouncedAt)
	}
}

func TestServeWs_ClientDisconnect(t *testing.T) {
	log := logger.New()
	hub := New(log)
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + server.URL[4:]
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	// Give server time to register client
	time.Sleep(100 * time.Millisecond)

	// Close connection
	ws.Close()

	// Give server time to unregister client
	time.Sleep(200 * time.Millisecond)

	// Verify client was unregistered
	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after disconnect, got %d", got)
	}
}

func TestServeWs_MultipleClients(t *testing.T) {
	log := logger.New()
	hub := New(log)
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + server.URL[4:]

	// Connect 3 clients
	ws1, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect client 1: %v", err)
	}
	defer ws1.Close()

	ws2, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect client 2: %v", err)
	}
	defer ws2.Close()

	ws3, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect client 3: %v", err)
	}
	defer ws3.Close()

	// Give server time to register all clients
	time.Sleep(200 * time.Millisecond)

	// Verify 3 clients registered
	if got := hub.ClientCount(); got != 3 {
		t.Errorf("expected 3 clients, got %d", got)
	}

	// Broadcast message
	hub.BroadcastMessage("broadcast_test", map[string]int{"count": 123})

	// All clients should receive the message
	for i, ws := range []*websocket.Conn{ws1, ws2, ws3} {
		ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, message, err := ws.ReadMessage()
		if err != nil {
			t.Errorf("client %d failed to read message: %v", i+1, err)
			continue
		}

		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			t.Errorf("client %d failed to unmarshal: %v", i+1, err)
			continue
		}

		if msg.Type != "broadcast_test" {
			t.Errorf("client %d got wrong type: %s", i+1, msg.Type)
		}
	}
}

func TestReadPump_IncomingMessage(t *testing.T) {
	log := logger.New()
	hub := New(log)
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + server.URL[4:]
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer ws.Close()

	time.Sleep(100 * time.Millisecond)

	// Send a message from client
	testMsg := models.WSMessage{
		Type:    "client_message",
		Payload: map[string]string{"data": "test"},
	}
	msgBytes, _ := json.Marshal(testMsg)

	if err := ws.WriteMessage(websocket.TextMessage, msgBytes); err != nil {
		t.Fatalf("failed to write message: %v", err)
	}

	// Give server time to process
	time.Sleep(100 * time.Millisecond)

	// readPump should have logged the message (we can't directly verify but exercise the code)
}

func TestServeWs_UpgradeError(t *testing.T) {
	log := logger.New()
	hub := New(log)
	hub.Start()

	// Create a request without upgrade headers - should fail
	req := httptest.NewRequest("GET", "/ws", nil)
	w := httptest.NewRecorder()

	hub.ServeWs(w, req)

	// The upgrade fails because the request doesn't have proper WS headers
	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after failed upgrade, got %d", got)
	}
}

func TestReadPump_PongHandler(t *testing.T) {
	log := logger.New()
	hub := New(log)
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + server.URL[4:]
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer ws.Close()

	time.Sleep(100 * time.Millisecond)

	// Send a pong message from client to server
	// This will trigger the server's SetPongHandler which updates the read deadline
	if err := ws.WriteControl(websocket.PongMessage, []byte("pong"), time.Now().Add(time.Second)); err != nil {
		t.Fatalf("failed to send pong: %v", err)
	}

	// Give server time to process pong
	time.Sleep(100 * time.Millisecond)

	if err := ws.WriteMessage(websocket.TextMessage, []byte("test")); err != nil {
		t.Errorf("connection should still be alive after pong: %v", err)
	}
}

func TestWritePump_WriteError(t *testing.T) {
	log := logger.New()
	hub := New(log)
	hub.Start()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	url := "ws" + server.URL[4:]
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	// Close connection from client side
	ws.Close()
	time.Sleep(50 * time.Millisecond)

	// Try to broadcast a message - server will attempt to write to closed connection
	hub.BroadcastMessage("test", map[string]string{"key": "value"})

	// Give server time to detect write error and clean up
	time.Sleep(200 * time.Millisecond)

	// Verify client was cleaned up after write error
	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after write error, got %d", got)
	}
}
