// corpusctl is the content-author CLI for the knowledge corpus:
//
//	corpusctl validate <dir>          check corpus invariants
//	corpusctl embed <dir>             precompute missing entry embeddings
//	corpusctl reload --addr <addr>    ask a running server to swap in new content
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/config"
	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/core"
	"github.com/Nopriorauthorization/nopriorauthorization-app-sub004/internal/llm"
)

var (
	provider      string
	embedModel    string
	embedEndpoint string
	serverAddr    string
)

var rootCmd = &cobra.Command{
	Use:   "corpusctl",
	Short: "Maintain the persona knowledge corpus",
}

var validateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Check corpus invariants (ids, personas, tiers, embedding dimensions)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := core.LoadLibrary(args[0])
		if err != nil {
			return err
		}
		if err := lib.Validate(); err != nil {
			return err
		}
		fmt.Printf("ok: %d entries\n", lib.Len())
		return nil
	},
}

var embedCmd = &cobra.Command{
	Use:   "embed <dir>",
	Short: "Precompute embeddings for entries that lack one, rewriting the files in place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		apiKey := os.Getenv("OPENAI_API_KEY")
		if provider == "genai" {
			apiKey = os.Getenv("GENAI_API_KEY")
		}
		embedder, err := llm.NewEmbedder(ctx, provider, apiKey, embedModel, embedEndpoint)
		if err != nil {
			return err
		}
		return embedDir(ctx, embedder, args[0])
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Trigger an atomic corpus reload on a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Post(serverAddr+"/api/admin/reload", "application/json", nil)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned %s", resp.Status)
		}
		var out struct {
			Entries int `json:"entries"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return err
		}
		fmt.Printf("reloaded: %d entries\n", out.Entries)
		return nil
	},
}

// embedDir walks every .json corpus file, fills in missing embeddings with
// bounded concurrency, and rewrites each changed file.
func embedDir(ctx context.Context, embedder llm.Embedder, dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var names []string
	for _, f := range files {
		if !f.IsDir() && filepath.Ext(f.Name()) == ".json" {
			names = append(names, f.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var entries []core.KnowledgeEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		changed := 0
		for i := range entries {
			if len(entries[i].Embedding) > 0 {
				continue
			}
			i := i
			changed++
			g.Go(func() error {
				text := entries[i].Title + "\n" + entries[i].Summary + "\n" + entries[i].Body
				vec, err := embedder.Embed(gctx, text)
				if err != nil {
					return fmt.Errorf("embedding %s: %w", entries[i].ID, err)
				}
				entries[i].Embedding = vec
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if changed == 0 {
			continue
		}
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
			return err
		}
		fmt.Printf("%s: embedded %d entries\n", name, changed)
	}
	return nil
}

func init() {
	embedCmd.Flags().StringVar(&provider, "provider", config.Default().Embedding.Provider, "Embedding provider: openai or genai")
	embedCmd.Flags().StringVar(&embedModel, "model", "", "Embedding model (provider default when empty)")
	embedCmd.Flags().StringVar(&embedEndpoint, "endpoint", "", "Base URL override for the openai provider")
	reloadCmd.Flags().StringVar(&serverAddr, "addr", "http://localhost:8080", "Base URL of the running server")
	rootCmd.AddCommand(validateCmd, embedCmd, reloadCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
