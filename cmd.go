package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newRootCmd() *cobra.Command {
	var configPath, mapPath string

	root := &cobra.Command{
		Use:           "floornav",
		Short:         "Shortest walkable routes on a single-floor map",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "floornav.toml", "path to TOML config")
	root.PersistentFlags().StringVar(&mapPath, "map", "", "floor dataset JSON (overrides config)")

	settings := func() (*Config, error) {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		if mapPath != "" {
			cfg.Map.Path = mapPath
		}
		return cfg, nil
	}

	root.AddCommand(newServeCmd(settings), newRouteCmd(settings), newLocationsCmd(settings))
	return root
}

func newServeCmd(settings func() (*Config, error)) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the map, route API and navigation sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := settings()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (e.g. 127.0.0.1:8080)")
	return cmd
}

func serve(ctx context.Context, cfg *Config) error {
	log.Println("========================================")
	log.Println("🚀 Floor Navigator Server")
	log.Println("========================================")

	floor, err := LoadMap(cfg.Map.Path)
	if err != nil {
		log.Printf("⚠️  %v\n", err)
		log.Println("   Starting with an empty floor; every route will be empty")
		floor = EmptyFloorMap()
	}

	srv := NewServer(cfg, floor, NewTickerClock(cfg.FrameInterval()))
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	log.Printf("Server starting on %s\n", cfg.Server.Addr)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /route        - Shortest route between two waypoint ids")
	log.Println("  GET  /map          - Floor dataset for renderers")
	log.Println("  GET  /graphLines   - Routing graph edges for visualization")
	log.Println("  GET  /health       - Check server status")
	log.Println("  GET  /ws           - Navigation session (WebSocket)")
	log.Println("  GET  /metrics      - Prometheus metrics")
	log.Println("========================================")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("🛑 Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newRouteCmd(settings func() (*Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "route FROM TO",
		Short: "Print the shortest route between two waypoints",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := settings()
			if err != nil {
				return err
			}
			floor, err := LoadMap(cfg.Map.Path)
			if err != nil {
				return err
			}
			return printRoute(cmd, floor.Graph(), args[0], args[1])
		},
	}
}

func printRoute(cmd *cobra.Command, graph *GraphIndex, from, to string) error {
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	route := ShortestPath(graph, from, to)
	if len(route) == 0 {
		err := fmt.Errorf("%w: %s -> %s", ErrEmptyRoute, from, to)
		color.New(color.FgRed).Fprintln(out, err)
		return err
	}

	bold.Fprintf(out, "Route %s -> %s (%d hops)\n", from, to, route.Hops())
	for i, id := range route {
		p, err := graph.Lookup(id)
		kind := "junction"
		if graph.IsLocation(id) {
			kind = "location"
		}
		if err != nil {
			fmt.Fprintf(out, "  %2d: %s %s\n", i, id, dim.Sprintf("(%v)", err))
			continue
		}
		name := id
		if kind == "location" {
			name = green.Sprint(id)
		}
		fmt.Fprintf(out, "  %2d: %-12s (%6.2f, %6.2f) %s\n", i, name, p.X, p.Y, dim.Sprint(kind))
	}
	fmt.Fprintf(out, "Length: %.2f%% of the floor plan\n", PolylineLength(graph.Points(route)))
	return nil
}

func newLocationsCmd(settings func() (*Config, error)) *cobra.Command {
	var near []float64

	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List selectable locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(near) != 0 && len(near) != 2 {
				return fmt.Errorf("--near takes x,y in map percent, got %v", near)
			}
			cfg, err := settings()
			if err != nil {
				return err
			}
			floor, err := LoadMap(cfg.Map.Path)
			if err != nil {
				return err
			}
			graph := floor.Graph()
			out := cmd.OutOrStdout()

			if len(near) == 2 {
				return printNearest(cmd, NewLocationIndex(graph.Locations()), Point{X: near[0], Y: near[1]})
			}
			for _, w := range graph.Locations() {
				fmt.Fprintf(out, "%-12s (%6.2f, %6.2f) %d neighbors\n", w.ID, w.X, w.Y, len(graph.NeighborsOf(w.ID)))
			}
			return nil
		},
	}
	cmd.Flags().Float64SliceVar(&near, "near", nil, "only print the location closest to x,y")
	return cmd
}

func printNearest(cmd *cobra.Command, index *LocationIndex, p Point) error {
	w, ok := index.Nearest(p)
	if !ok {
		return fmt.Errorf("%w: no locations on this floor", ErrWaypointNotFound)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%-12s (%6.2f, %6.2f) %.2f away\n", color.GreenString(w.ID), w.X, w.Y, p.Distance(w.Position()))
	return nil
}
