package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type RouteRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type RouteResponse struct {
	Path    Route   `json:"path"`
	Points  []Point `json:"points"`
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Hops    int     `json:"hops"`
	Length  float64 `json:"length,omitempty"` // in map percent
}

// Server exposes one loaded floor over HTTP and WebSocket
type Server struct {
	cfg       *Config
	floor     *FloorMap
	graph     *GraphIndex
	locations *LocationIndex
	clock     FrameClock
	upgrader  websocket.Upgrader
}

func NewServer(cfg *Config, floor *FloorMap, clock FrameClock) *Server {
	if floor == nil {
		floor = EmptyFloorMap()
	}
	graph := floor.Graph()
	return &Server{
		cfg:       cfg,
		floor:     floor,
		graph:     graph,
		locations: NewLocationIndex(graph.Locations()),
		clock:     clock,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/route", corsMiddleware(s.routeHandler))
	mux.HandleFunc("/map", corsMiddleware(s.mapHandler))
	mux.HandleFunc("/graphLines", corsMiddleware(s.graphLinesHandler))
	mux.HandleFunc("/health", corsMiddleware(s.healthHandler))
	mux.HandleFunc("/ws", s.wsHandler)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️  Failed to encode response: %v\n", err)
	}
}

// POST /route - Shortest route between two waypoint ids
func (s *Server) routeHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📍 Route request received")
	defer log.Println("========================================")

	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.From == "" || req.To == "" {
		http.Error(w, "from and to are required", http.StatusBadRequest)
		return
	}

	log.Printf("   From: %s\n", req.From)
	log.Printf("   To:   %s\n", req.To)

	route := ShortestPath(s.graph, req.From, req.To)
	recordRoute(route)

	if len(route) == 0 {
		err := fmt.Errorf("%w: %s -> %s", ErrEmptyRoute, req.From, req.To)
		log.Printf("❌ %v\n", err)
		writeJSON(w, http.StatusOK, RouteResponse{
			Path:    Route{},
			Points:  []Point{},
			Success: false,
			Message: err.Error(),
		})
		return
	}

	points := s.graph.Points(route)
	response := RouteResponse{
		Path:    route,
		Points:  points,
		Success: true,
		Hops:    route.Hops(),
		Length:  PolylineLength(points),
	}

	log.Printf("✅ Route found with %d hops\n", response.Hops)
	log.Printf("   Path: %v\n", route)
	writeJSON(w, http.StatusOK, response)
}

// GET /map - Floor dataset for renderers (studios, nodes, edges, doors, walls)
func (s *Server) mapHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := s.floor.JSON()
	if err != nil {
		log.Printf("❌ Failed to encode map: %v\n", err)
		http.Error(w, "map unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// GET /graphLines - Routing graph edges as line segments for visualization
func (s *Server) graphLinesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	lines := s.graph.EdgeSegments()
	locations, junctions, _ := s.graph.Stats()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"lines":    lines,
		"numNodes": locations + junctions,
		"numEdges": len(lines),
	})
}

// GET /health - Health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	locations, junctions, edges := s.graph.Stats()

	status := "ready"
	if locations == 0 {
		status = ErrMapNotLoaded.Error()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       status,
		"numLocations": locations,
		"numJunctions": junctions,
		"numEdges":     edges,
	})
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// route reports an empty route itself
		if errors.Is(err, ErrEmptyRoute) {
			os.Exit(2)
		}
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
