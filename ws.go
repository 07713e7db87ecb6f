package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const writeWait = 10 * time.Second

// Surface is the client's current floor plan size in pixels
type Surface struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// defaultSurface maps percentages one to one until the client reports its size
var defaultSurface = Surface{Width: 100, Height: 100}

// ToPixels converts a floor plan percentage to surface pixels
func (s Surface) ToPixels(p Point) Point {
	return Point{X: p.X * s.Width / 100, Y: p.Y * s.Height / 100}
}

// ToPercent converts surface pixels back to floor plan percentages
func (s Surface) ToPercent(p Point) Point {
	if s.Width <= 0 || s.Height <= 0 {
		return p
	}
	return Point{X: p.X * 100 / s.Width, Y: p.Y * 100 / s.Height}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type pickPayload struct {
	Element ElementRef `json:"element"`
	ID      string     `json:"id"`
}

// renderMessage is one renderer call sent to the browser
type renderMessage struct {
	Type     string       `json:"type"`
	Session  string       `json:"session,omitempty"`
	Element  ElementRef   `json:"element,omitempty"`
	Elements []ElementRef `json:"elements,omitempty"`
	Text     *string      `json:"text,omitempty"`
	Points   []Point      `json:"points,omitempty"`
	Position *Point       `json:"position,omitempty"`
	Visible  *bool        `json:"visible,omitempty"`
	Enabled  *bool        `json:"enabled,omitempty"`
	Label    string       `json:"label,omitempty"`
}

// wsRenderer implements Renderer by forwarding each call as a JSON frame.
// Coordinates are converted to pixels for the client's reported surface.
type wsRenderer struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	surface Surface
	broken  bool
}

func newWSRenderer(conn *websocket.Conn) *wsRenderer {
	return &wsRenderer{conn: conn, surface: defaultSurface}
}

func (r *wsRenderer) send(msg renderMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.broken {
		return
	}
	r.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := r.conn.WriteJSON(msg); err != nil {
		log.Printf("⚠️  Failed to send %s: %v\n", msg.Type, err)
		r.broken = true
	}
}

func (r *wsRenderer) setSurface(s Surface) {
	if s.Width <= 0 || s.Height <= 0 {
		return
	}
	r.mu.Lock()
	r.surface = s
	r.mu.Unlock()
}

func (r *wsRenderer) currentSurface() Surface {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surface
}

func (r *wsRenderer) HighlightAsStart(el ElementRef) {
	r.send(renderMessage{Type: "highlightStart", Element: el})
}

func (r *wsRenderer) HighlightAsDestination(el ElementRef) {
	r.send(renderMessage{Type: "highlightDestination", Element: el})
}

func (r *wsRenderer) ClearHighlights(el ElementRef) {
	r.send(renderMessage{Type: "clearHighlights", Element: el})
}

func (r *wsRenderer) BlinkSynchronized(els []ElementRef) {
	r.send(renderMessage{Type: "blink", Elements: els})
}

func (r *wsRenderer) SetStartLabel(text string) {
	r.send(renderMessage{Type: "startLabel", Text: &text})
}

func (r *wsRenderer) SetDestinationLabel(text string) {
	r.send(renderMessage{Type: "destinationLabel", Text: &text})
}

func (r *wsRenderer) DrawRoute(points []Point) {
	surface := r.currentSurface()
	pixels := make([]Point, 0, len(points))
	for _, p := range points {
		pixels = append(pixels, surface.ToPixels(p))
	}
	r.send(renderMessage{Type: "drawRoute", Points: pixels})
}

func (r *wsRenderer) ClearRoute() {
	r.send(renderMessage{Type: "clearRoute"})
}

func (r *wsRenderer) SetEntityVisible(visible bool) {
	r.send(renderMessage{Type: "entityVisible", Visible: &visible})
}

func (r *wsRenderer) SetEntityPosition(p Point) {
	px := r.currentSurface().ToPixels(p)
	r.send(renderMessage{Type: "entityPosition", Position: &px})
}

func (r *wsRenderer) SetCommitAction(enabled bool, label string) {
	r.send(renderMessage{Type: "commitAction", Enabled: &enabled, Label: label})
}

// GET /ws - One navigation session per connection
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v\n", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	renderer := newWSRenderer(conn)
	nav := NewNavigator(s.graph, s.locations, renderer, s.clock, DefaultNavigatorOptions(s.cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer nav.Close()

	sessionsActive.Inc()
	defer sessionsActive.Dec()
	log.Printf("🔌 Session %s connected\n", sessionID)

	renderer.send(renderMessage{Type: "session", Session: sessionID})
	nav.Start()

	limiter := rate.NewLimiter(rate.Limit(s.cfg.Session.EventsPerSecond), s.cfg.Session.Burst)

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️  Session %s read error: %v\n", sessionID, err)
			}
			log.Printf("🔌 Session %s closed\n", sessionID)
			return
		}
		if !limiter.Allow() {
			log.Printf("⚠️  Session %s throttled, dropping %s\n", sessionID, msg.Type)
			continue
		}
		handleInbound(ctx, nav, renderer, msg)
	}
}

func handleInbound(ctx context.Context, nav *Navigator, renderer *wsRenderer, msg inboundMessage) {
	switch msg.Type {
	case "pick":
		var p pickPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			log.Printf("⚠️  Bad pick payload: %v\n", err)
			return
		}
		el := p.Element
		if el == "" {
			el = ElementRef(p.ID)
		}
		nav.Pick(el, p.ID)

	case "pickAt":
		var px Point
		if err := json.Unmarshal(msg.Payload, &px); err != nil {
			log.Printf("⚠️  Bad pickAt payload: %v\n", err)
			return
		}
		nav.PickAt(renderer.currentSurface().ToPercent(px))

	case "navigate":
		nav.Navigate(ctx)

	case "resize":
		var surface Surface
		if err := json.Unmarshal(msg.Payload, &surface); err != nil {
			log.Printf("⚠️  Bad resize payload: %v\n", err)
			return
		}
		renderer.setSurface(surface)

	default:
		log.Printf("⚠️  Unknown message type %q\n", msg.Type)
	}
}
