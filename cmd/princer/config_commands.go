package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"princer/internal/config"
	"princer/internal/services/llm"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigCheckCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set the AcoustID and OpenRouter api keys (or export ACOUSTID_API_KEY and OPENROUTER_API_KEY).")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			rows := [][]string{
				{"paths.vault_db", cfg.Paths.VaultDB},
				{"paths.log_dir", cfg.Paths.LogDir},
				{"acoustid.api_key", redactSecret(cfg.AcoustID.APIKey)},
				{"acoustid.base_url", cfg.AcoustID.BaseURL},
				{"acoustid.fpcalc_binary", cfg.AcoustID.FpcalcBinary},
				{"musicbrainz.base_url", cfg.MusicBrainz.BaseURL},
				{"musicbrainz.rate_limit_ms", strconv.Itoa(cfg.MusicBrainz.RateLimitMS)},
				{"llm.api_key", redactSecret(cfg.LLM.APIKey)},
				{"llm.model", cfg.LLM.Model},
				{"llm.timeout_seconds", strconv.Itoa(cfg.LLM.TimeoutSeconds)},
				{"matching.min_confidence", fmt.Sprintf("%.2f", cfg.Matching.MinConfidence)},
				{"matching.search_limit", strconv.Itoa(cfg.Matching.SearchLimit)},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
			}
			fmt.Fprintln(out, renderTable(out, []string{"Setting", "Value"}, rows, nil))
			return nil
		},
	}
}

func newConfigCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check external dependencies and service connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := false

			if _, err := exec.LookPath(cfg.AcoustID.FpcalcBinary); err != nil {
				failed = true
				fmt.Fprintf(out, "fpcalc: ERROR (%s not found in PATH)\n", cfg.AcoustID.FpcalcBinary)
			} else {
				fmt.Fprintln(out, "fpcalc: OK")
			}

			if _, err := os.Stat(cfg.Paths.VaultDB); err != nil {
				fmt.Fprintf(out, "vault: WARN (database not found at %s)\n", cfg.Paths.VaultDB)
			} else {
				fmt.Fprintln(out, "vault: OK")
			}

			if strings.TrimSpace(cfg.AcoustID.APIKey) == "" {
				fmt.Fprintln(out, "acoustid: WARN (api_key not set)")
			} else {
				fmt.Fprintln(out, "acoustid: OK")
			}

			if strings.TrimSpace(cfg.LLM.APIKey) == "" {
				fmt.Fprintln(out, "llm: WARN (api_key not set)")
			} else {
				client := llm.NewClient(llm.Config{
					APIKey:         cfg.LLM.APIKey,
					BaseURL:        cfg.LLM.BaseURL,
					Model:          cfg.LLM.Model,
					Referer:        cfg.LLM.Referer,
					Title:          cfg.LLM.Title,
					TimeoutSeconds: cfg.LLM.TimeoutSeconds,
				})
				if err := client.HealthCheck(cmd.Context()); err != nil {
					failed = true
					fmt.Fprintf(out, "llm: ERROR (%v)\n", err)
				} else {
					fmt.Fprintln(out, "llm: OK")
				}
			}

			if failed {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}
}

func redactSecret(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(not set)"
	}
	return "********"
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configFlag, _ := cmd.Flags().GetString("config")
			cfg, path, exists, err := config.Load(strings.TrimSpace(configFlag))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			if strings.TrimSpace(cfg.AcoustID.APIKey) == "" {
				fmt.Fprintln(out, "Warning: acoustid api_key is not set (identify will fail without it)")
			}
			if strings.TrimSpace(cfg.LLM.APIKey) == "" {
				fmt.Fprintln(out, "Warning: llm api_key is not set (identify requires --skip-llm without it)")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
