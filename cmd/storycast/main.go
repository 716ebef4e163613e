package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/benwest/storycast/internal/batch"
	"github.com/benwest/storycast/internal/codex"
	"github.com/benwest/storycast/internal/config"
	"github.com/benwest/storycast/internal/llm"
	"github.com/benwest/storycast/internal/review"
	"github.com/benwest/storycast/internal/scene"
	"github.com/benwest/storycast/internal/store"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "storycast",
	Short:   "In-character posts from a story bible",
	Long:    "Storycast parses a story-bible export into a character codex and generates in-character social posts for human review.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(draftsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("storycast", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/storycast/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to point at your story-bible export and LLM provider.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show codex and draft ledger status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cdx, err := codex.Load(cfg.CodexPath()); err == nil {
			fmt.Printf("Codex: %d characters (generated %s)\n", len(cdx.Characters), cdx.GeneratedAt)
		} else {
			fmt.Println("Codex: not parsed yet. Run 'storycast parse'.")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("\nDrafts:")
		fmt.Printf("  Runs: %d\n", stats.Runs)
		fmt.Printf("  Total: %d\n", stats.TotalDrafts)
		fmt.Printf("  Approved: %d\n", stats.ApprovedDrafts)
		fmt.Printf("  Pending: %d\n", stats.PendingDrafts)
		fmt.Printf("  Characters: %d\n", stats.Characters)
		return nil
	},
}

// --- parse command ---

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse the story-bible export into the character codex",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Parsing export: %s\n\n", cfg.Source.ExportDir)

		cdx := codex.ParseExport(cfg.Source.ExportDir)
		fmt.Println(cdx.Summary())

		if err := cdx.Save(cfg.CodexPath()); err != nil {
			return fmt.Errorf("saving codex: %w", err)
		}
		fmt.Printf("Saved codex: %s\n", cfg.CodexPath())
		return nil
	},
}

// --- generate command ---

var (
	sceneTitle string
	postTypes  []string
	maxRetries int
	dryRun     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate posts for the rostered characters",
	RunE: func(cmd *cobra.Command, args []string) error {
		cdx, err := codex.Load(cfg.CodexPath())
		if err != nil {
			return fmt.Errorf("loading codex (run 'storycast parse' first): %w", err)
		}
		return generate(cdx)
	},
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, runCmd} {
		c.Flags().StringVar(&sceneTitle, "scene", "", "Scene title (defaults to the first scene)")
		c.Flags().StringSliceVar(&postTypes, "types", nil, "Post types to generate (default social,blog)")
		c.Flags().IntVar(&maxRetries, "max-retries", 0, "Override generation retries")
		c.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be generated without calling the provider")
	}
}

func generate(cdx *codex.Codex) error {
	lib, err := loadScenes()
	if err != nil {
		return err
	}

	retries := cfg.Generation.MaxRetries
	if maxRetries > 0 {
		retries = maxRetries
	}
	opts := batch.Options{
		Scene:      sceneTitle,
		PostTypes:  postTypes,
		MaxRetries: retries,
		DraftsDir:  cfg.DraftsDir(),
	}

	if dryRun {
		d := batch.New(cdx, lib, nil, nil)
		planned, err := d.Plan(opts)
		if err != nil {
			return err
		}
		fmt.Printf("Would generate %d posts:\n", len(planned))
		for _, p := range planned {
			fmt.Printf("  %s: %s\n", p.Character, p.PostType)
		}
		return nil
	}

	provider := llm.CreateProvider(context.Background(), cfg.ProviderConfig())
	if provider == nil {
		return fmt.Errorf("no LLM provider available; check the generation section of your config")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	d := batch.New(cdx, lib, provider, st)
	d.VoiceStyle = cfg.Generation.VoiceStyle
	d.MaxTokens = cfg.Generation.MaxTokens
	d.Timeout = cfg.Timeout()

	result, err := d.Run(context.Background(), opts)
	if err != nil {
		return err
	}

	if verbose {
		for i, p := range result.Posts {
			fmt.Println(p.Format(i + 1))
		}
	}

	fmt.Printf("\nScene: %s\n", result.Scene)
	for _, cr := range result.Characters {
		fmt.Printf("  %s: %d generated, %d failed\n", cr.Character, cr.Generated, cr.Failed)
	}
	fmt.Printf("\nTotal: %d generated, %d failed\n", result.Generated, result.Failed)
	fmt.Printf("Manifest: %s\n", result.ManifestFile)
	fmt.Println("Run 'storycast preview' to review the drafts.")
	return nil
}

func loadScenes() (*scene.Library, error) {
	if cfg.Source.ScenesFile != "" {
		return scene.LoadFile(cfg.Source.ScenesFile)
	}
	return scene.Default()
}

// --- run command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: parse -> generate",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Parsing export: %s\n", cfg.Source.ExportDir)
		cdx := codex.ParseExport(cfg.Source.ExportDir)
		if err := cdx.Save(cfg.CodexPath()); err != nil {
			return fmt.Errorf("saving codex: %w", err)
		}
		fmt.Printf("Parsed %d characters.\n\n", len(cdx.Characters))

		return generate(cdx)
	},
}

// --- preview command ---

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render pending drafts to an HTML page",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		drafts, err := st.GetDrafts(false)
		if err != nil {
			return err
		}

		path := filepath.Join(cfg.DraftsDir(), "preview.html")
		if err := review.WritePreview(path, drafts); err != nil {
			return err
		}
		fmt.Printf("Wrote preview of %d drafts: %s\n", len(drafts), path)
		return nil
	},
}

// --- drafts command ---

var draftsPending bool

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Manage the draft ledger",
}

var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		drafts, err := st.GetDrafts(draftsPending)
		if err != nil {
			return err
		}

		if len(drafts) == 0 {
			fmt.Println("No drafts. Run 'storycast generate' to create some.")
			return nil
		}

		for _, d := range drafts {
			state := " "
			if d.Approved {
				state = "*"
			}
			preview := d.Content
			if len(preview) > 60 {
				preview = preview[:60] + "..."
			}
			fmt.Printf("  %s %s  %s/%s\n", state, d.ID, d.Character, d.PostType)
			fmt.Printf("        %s\n", preview)
		}
		return nil
	},
}

var draftsApproveCmd = &cobra.Command{
	Use:   "approve [id]",
	Short: "Approve a draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		id := args[0]
		draft, err := st.GetDraft(id)
		if err != nil {
			return err
		}
		if draft == nil {
			return fmt.Errorf("draft %s not found", id)
		}

		if err := st.ApproveDraft(id); err != nil {
			return err
		}
		fmt.Printf("Approved draft %s (%s/%s)\n", id, draft.Character, draft.PostType)
		return nil
	},
}

func init() {
	draftsListCmd.Flags().BoolVar(&draftsPending, "pending", false, "Only show unapproved drafts")
	draftsCmd.AddCommand(draftsListCmd)
	draftsCmd.AddCommand(draftsApproveCmd)
}

func openStore() (*store.Store, error) {
	return store.Open(cfg.DBPath())
}
