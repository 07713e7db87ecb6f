package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// MapDataset is one floor as exported by the map editor. Studios are the
// selectable locations, nodes are routing junctions. Doors and walls are
// geometry for renderers and are passed through untouched.
type MapDataset struct {
	Studios []Waypoint        `json:"studios"`
	Nodes   []Waypoint        `json:"nodes"`
	Edges   []Edge            `json:"edges"`
	Doors   []json.RawMessage `json:"doors"`
	Walls   []json.RawMessage `json:"walls"`
}

// FloorMap is a loaded dataset together with the bytes it was read from
type FloorMap struct {
	Dataset MapDataset
	Source  string
	raw     []byte
}

// LoadMap reads and normalizes a floor dataset from disk
func LoadMap(path string) (*FloorMap, error) {
	cleanPath := filepath.Clean(path)
	log.Printf("📂 Loading floor map from %s...\n", cleanPath)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read map %q: %w", cleanPath, err)
	}

	dataset, err := ParseMap(data)
	if err != nil {
		return nil, fmt.Errorf("parse map %q: %w", cleanPath, err)
	}

	log.Printf("   ✅ Loaded %d studios, %d nodes, %d edges\n",
		len(dataset.Studios), len(dataset.Nodes), len(dataset.Edges))
	return &FloorMap{Dataset: dataset, Source: cleanPath, raw: data}, nil
}

// EmptyFloorMap is used when no dataset could be loaded; every route on it
// comes back empty.
func EmptyFloorMap() *FloorMap {
	return &FloorMap{Dataset: normalizeDataset(MapDataset{})}
}

// ParseMap decodes a dataset. Absent sections become empty collections and
// records without ids are dropped with a warning.
func ParseMap(data []byte) (MapDataset, error) {
	var dataset MapDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return MapDataset{}, err
	}
	return normalizeDataset(dataset), nil
}

func normalizeDataset(d MapDataset) MapDataset {
	d.Studios = validWaypoints("studio", d.Studios)
	d.Nodes = validWaypoints("node", d.Nodes)

	edges := make([]Edge, 0, len(d.Edges))
	for i, e := range d.Edges {
		if e.From == "" || e.To == "" {
			log.Printf("⚠️  Skipping edge %d with missing endpoint (%q -> %q)\n", i, e.From, e.To)
			continue
		}
		edges = append(edges, e)
	}
	d.Edges = edges

	if d.Doors == nil {
		d.Doors = []json.RawMessage{}
	}
	if d.Walls == nil {
		d.Walls = []json.RawMessage{}
	}
	return d
}

func validWaypoints(kind string, in []Waypoint) []Waypoint {
	out := make([]Waypoint, 0, len(in))
	for i, w := range in {
		if w.ID == "" {
			log.Printf("⚠️  Skipping %s %d without id\n", kind, i)
			continue
		}
		if !w.Position().InPercentRange() {
			log.Printf("⚠️  %s %q lies outside the floor plan (%.2f, %.2f)\n", kind, w.ID, w.X, w.Y)
		}
		out = append(out, w)
	}
	return out
}

// Graph builds the routing index for this floor
func (m *FloorMap) Graph() *GraphIndex {
	return BuildGraphIndex(m.Dataset.Studios, m.Dataset.Nodes, m.Dataset.Edges)
}

// JSON returns the dataset as served to renderers. The file as read is
// returned verbatim when available so editor-only fields survive.
func (m *FloorMap) JSON() ([]byte, error) {
	if len(m.raw) > 0 {
		return m.raw, nil
	}
	return json.Marshal(m.Dataset)
}
