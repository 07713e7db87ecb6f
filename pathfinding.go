package main

// Route is an ordered list of waypoint ids from start to destination.
// An empty route means no path was found.
type Route []string

// Adjacency is the view of the routing graph the search needs
type Adjacency interface {
	HasNode(id string) bool
	NeighborsOf(id string) []string
}

// Hops returns the number of edges walked along the route
func (r Route) Hops() int {
	if len(r) == 0 {
		return 0
	}
	return len(r) - 1
}

// ShortestPath computes the minimum-hop route between two waypoints using
// breadth-first search. Every edge costs the same, so the first time the
// destination is reached the path is minimal. Neighbors are expanded in
// edge declaration order, which fixes the chosen route among equal-length
// alternatives.
//
// Returns [startID] when both ids are equal and an empty route when the
// destination is unreachable or either id is missing from the graph.
func ShortestPath(graph Adjacency, startID, endID string) Route {
	if startID == endID {
		return Route{startID}
	}
	if graph == nil || !graph.HasNode(startID) || !graph.HasNode(endID) {
		return Route{}
	}

	// BFS with parent tracking; nodes are marked when enqueued
	visited := map[string]bool{startID: true}
	parent := make(map[string]string)
	queue := []string{startID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range graph.NeighborsOf(current) {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = current

			if next == endID {
				return reconstructRoute(parent, startID, endID)
			}
			queue = append(queue, next)
		}
	}

	return Route{}
}

func reconstructRoute(parent map[string]string, startID, endID string) Route {
	reversed := Route{endID}
	for node := endID; node != startID; {
		node = parent[node]
		reversed = append(reversed, node)
	}

	route := make(Route, len(reversed))
	for i, id := range reversed {
		route[len(reversed)-1-i] = id
	}
	return route
}
