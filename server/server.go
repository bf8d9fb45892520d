package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/supplysift/supplysift/internal/types"
	"github.com/supplysift/supplysift/pkg/pipeline"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Be careful with this in production
	},
}

// Message is the websocket envelope in both directions. Client messages
// carry a command in Type ("rfi" or "docs") and an optional blob prefix in
// Content; server messages carry progress and results.
type Message struct {
	ID      string      `json:"id,omitempty"`
	Type    string      `json:"type"`
	Content string      `json:"content,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type Config struct {
	Port string
}

type WSServer struct {
	config   Config
	store    types.BlobStore
	analyzer types.Analyzer
	batch    pipeline.PipelineConfig
}

// NewWSServer keeps the pipeline collaborators rather than a pipeline so that
// each message gets its own pipeline with an event sink scoped to that
// connection. Connections are served on separate goroutines and must not
// share one.
func NewWSServer(config Config, store types.BlobStore, analyzer types.Analyzer, batch pipeline.PipelineConfig) *WSServer {
	if config.Port == "" {
		config.Port = "8080"
	}
	return &WSServer{config: config, store: store, analyzer: analyzer, batch: batch}
}

func (s *WSServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Error reading message: %v", err)
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		s.handleMessage(conn, msg)
	}
}

func (s *WSServer) handleMessage(conn *websocket.Conn, msg Message) {
	prefix := strings.TrimSpace(msg.Content)

	// Progress events from the batch stream back over the same connection.
	batch := s.batch
	batch.OnEvent = func(e pipeline.Event) {
		s.send(conn, Message{ID: uuid.NewString(), Type: "progress", Data: e})
	}
	p := pipeline.New(batch, s.store, s.analyzer)

	var (
		result *pipeline.BatchResult
		err    error
	)
	switch msg.Type {
	case "rfi":
		result, err = p.ProcessRFIBatch(context.Background(), prefix)
	case "docs":
		result, err = p.ProcessProposals(context.Background(), prefix)
	default:
		s.send(conn, Message{Type: "error", Content: fmt.Sprintf("unknown command: %s", msg.Type)})
		return
	}

	if err != nil {
		s.send(conn, Message{Type: "error", Content: err.Error()})
		return
	}
	s.send(conn, Message{ID: uuid.NewString(), Type: "result", Data: result})
}

func (s *WSServer) send(conn *websocket.Conn, msg Message) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// Handler returns the websocket and health routes.
func (s *WSServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

// ListenAndServe blocks on the HTTP listener.
func (s *WSServer) ListenAndServe() error {
	addr := ":" + s.config.Port
	log.Printf("Starting WebSocket server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}
