package main

import "errors"

// Sentinel errors shared by the loader, the route endpoint and the CLI.
var (
	// ErrWaypointNotFound is returned when an id has no coordinates in
	// either the location or the junction table.
	ErrWaypointNotFound = errors.New("waypoint not found")

	// ErrEmptyRoute is returned when no walkable route connects two waypoints.
	ErrEmptyRoute = errors.New("no route between waypoints")

	// ErrMapNotLoaded is returned when a request arrives before a map dataset
	// has been loaded.
	ErrMapNotLoaded = errors.New("map not loaded")
)
