// ABOUTME: Client subcommands that talk to a running holonet server
// ABOUTME: health checks /health and characters prints a filtered table

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/2389/holonet/internal/config"
	"github.com/2389/holonet/internal/store"
)

// serverURL returns the base URL for the configured HTTP address. An
// unspecified listen host is dialled on loopback.
func serverURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// resolveBaseURL prefers --addr, then the config file.
func resolveBaseURL(addr string) (string, error) {
	if addr != "" {
		return serverURL(addr), nil
	}
	cfg, err := config.LoadOrDefault(config.DefaultPath())
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}
	return serverURL(cfg.Server.HTTPAddr), nil
}

func runHealth(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	ready := fs.Bool("ready", false, "check store readiness instead of liveness")
	addr := fs.String("addr", "", "server HTTP address (defaults to config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	base, err := resolveBaseURL(*addr)
	if err != nil {
		return err
	}

	path := "/health"
	if *ready {
		path = "/health/ready"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	if *ready {
		fmt.Fprintln(out, "ready")
	} else {
		fmt.Fprintln(out, "healthy")
	}
	return nil
}

func runCharacters(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("characters", flag.ContinueOnError)
	addr := fs.String("addr", "", "server HTTP address (defaults to config)")
	name := fs.String("name", "", "filter by name substring")
	faction := fs.String("faction", "", "filter by faction substring")
	homeland := fs.String("homeland", "", "filter by homeworld substring")
	species := fs.String("species", "", "filter by species substring")
	if err := fs.Parse(args); err != nil {
		return err
	}

	base, err := resolveBaseURL(*addr)
	if err != nil {
		return err
	}

	q := url.Values{}
	for key, v := range map[string]string{"name": *name, "faction": *faction, "homeland": *homeland, "species": *species} {
		if v != "" {
			q.Set(key, v)
		}
	}

	characters, err := fetchCharacters(ctx, base, q)
	if err != nil {
		return err
	}
	printCharacters(out, characters)
	return nil
}

func fetchCharacters(ctx context.Context, base string, q url.Values) ([]store.Character, error) {
	target := base + "/sw-characters"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("listing characters: status %d %s", resp.StatusCode, body.Error)
	}

	var characters []store.Character
	if err := json.NewDecoder(resp.Body).Decode(&characters); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return characters, nil
}

func printCharacters(out io.Writer, characters []store.Character) {
	if len(characters) == 0 {
		fmt.Fprintln(out, color.HiBlackString("no characters"))
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFACTION\tHOMEWORLD\tSPECIES")
	for _, c := range characters {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Faction, c.Homeworld, c.Species)
	}
	_ = tw.Flush()
}
