package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"princer/internal/audio"
	"princer/internal/config"
	"princer/internal/identify"
	"princer/internal/logging"
	"princer/internal/services/acoustid"
	"princer/internal/services/llm"
	"princer/internal/services/musicbrainz"
	"princer/internal/vault"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var skipLLM bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "identify <file>",
		Short: "Identify a recording and reconcile its metadata",
		Long: `Fingerprint an audio file with fpcalc, look up candidate recordings through
AcoustID and MusicBrainz, fuzzy-match the PrinceVault corpus, and ask the
configured language model to reconcile everything into normalized tags.

The fingerprint step is mandatory; the secondary sources degrade to empty
sections when unavailable. Use --skip-llm to inspect the collected evidence
without calling the model.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}

			info, err := audio.Probe(args[0])
			if err != nil {
				return err
			}

			if strings.TrimSpace(cfg.AcoustID.APIKey) == "" {
				return fmt.Errorf("acoustid api_key is not configured (set it in the config file or export ACOUSTID_API_KEY)")
			}

			fingerprinter := acoustid.NewClient(acoustid.Config{
				APIKey:       cfg.AcoustID.APIKey,
				BaseURL:      cfg.AcoustID.BaseURL,
				FpcalcBinary: cfg.AcoustID.FpcalcBinary,
			})

			opts := []identify.CollectorOption{
				identify.WithLogger(logger),
				identify.WithMaxRecordings(cfg.MusicBrainz.MaxRecording),
				identify.WithRecordingLookup(musicbrainz.NewClient(musicbrainz.Config{
					BaseURL:     cfg.MusicBrainz.BaseURL,
					UserAgent:   cfg.MusicBrainz.UserAgent,
					RateLimitMS: cfg.MusicBrainz.RateLimitMS,
				}, musicbrainz.WithLogger(logger))),
			}

			store, err := ctx.openVault(cfg)
			if err != nil {
				logger.Warn("vault unavailable, continuing without wiki evidence", logging.Error(err))
			} else {
				defer store.Close()
				opts = append(opts, identify.WithWikiSearcher(vault.NewMatcher(store, logger)))
			}

			collector := identify.NewCollector(fingerprinter, opts...)
			bundle, err := collector.Collect(cmd.Context(), info)
			if err != nil {
				return err
			}

			var metadata *identify.NormalizedMetadata
			if !skipLLM {
				metadata, err = reconcileBundle(cmd.Context(), cfg, logger, bundle)
				if err != nil {
					return err
				}
			}

			if jsonOut {
				return writeJSON(cmd, identifyPayload(bundle, metadata))
			}
			renderIdentifyResult(cmd, bundle, metadata)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipLLM, "skip-llm", false, "Collect evidence only, without model reconciliation")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of tables")
	return cmd
}

func reconcileBundle(ctx context.Context, cfg *config.Config, logger *slog.Logger, bundle *identify.EvidenceBundle) (*identify.NormalizedMetadata, error) {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		return nil, fmt.Errorf("llm api_key is not configured (set it, export OPENROUTER_API_KEY, or pass --skip-llm)")
	}

	client := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})

	// The client retries transient failures, so the outer deadline covers a
	// few attempts rather than a single request.
	if cfg.LLM.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 3*time.Duration(cfg.LLM.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	reconciler := identify.NewReconciler(client, cfg.LLM.SystemPrompt, cfg.LLM.UserPromptTemplate, logger)
	metadata, err := reconciler.Reconcile(ctx, bundle)
	if err != nil {
		return nil, fmt.Errorf("reconcile metadata: %w (rerun with --skip-llm to inspect the evidence)", err)
	}
	return metadata, nil
}

type identifyOutput struct {
	RunID       string                       `json:"run_id"`
	File        *audio.Info                  `json:"file"`
	Fingerprint *acoustid.Result             `json:"fingerprint"`
	Recordings  []musicbrainz.Recording      `json:"recordings,omitempty"`
	WikiMatches []searchResultPayload        `json:"princevault_matches,omitempty"`
	Metadata    *identify.NormalizedMetadata `json:"metadata,omitempty"`
}

func identifyPayload(bundle *identify.EvidenceBundle, metadata *identify.NormalizedMetadata) identifyOutput {
	return identifyOutput{
		RunID:       bundle.RunID,
		File:        bundle.File,
		Fingerprint: bundle.Fingerprint,
		Recordings:  bundle.Recordings,
		WikiMatches: searchPayload(bundle.WikiMatches),
		Metadata:    metadata,
	}
}

func renderIdentifyResult(cmd *cobra.Command, bundle *identify.EvidenceBundle, metadata *identify.NormalizedMetadata) {
	out := cmd.OutOrStdout()
	info := bundle.File

	fileRows := [][]string{
		{"File", info.Filename},
		{"Format", strings.ToUpper(strings.TrimPrefix(info.Extension, "."))},
		{"Size", audio.FormatSize(info.SizeBytes)},
	}
	if info.DurationSeconds > 0 {
		fileRows = append(fileRows, []string{"Duration", audio.FormatDuration(info.DurationSeconds)})
	}
	fmt.Fprintln(out, renderTable(out, []string{"Property", "Value"}, fileRows, nil))

	if bundle.Fingerprint != nil && len(bundle.Fingerprint.Matches) > 0 {
		rows := make([][]string, 0, len(bundle.Fingerprint.Matches))
		for _, match := range bundle.Fingerprint.Matches {
			rows = append(rows, []string{
				fmt.Sprintf("%.3f", match.Score),
				orDash(match.Title),
				orDash(match.Artist),
				strconv.Itoa(len(match.RecordingIDs)),
			})
		}
		fmt.Fprintln(out, "AcoustID matches:")
		headers := []string{"Score", "Title", "Artist", "Recordings"}
		aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight}
		fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
	} else {
		fmt.Fprintln(out, "No AcoustID matches.")
	}

	if len(bundle.Recordings) > 0 {
		rows := make([][]string, 0, len(bundle.Recordings))
		for _, recording := range bundle.Recordings {
			release := ""
			if len(recording.Releases) > 0 {
				release = recording.Releases[0].Title
			}
			rows = append(rows, []string{
				recording.Title,
				recording.ArtistName,
				orDash(recording.Date),
				orDash(release),
			})
		}
		fmt.Fprintln(out, "MusicBrainz recordings:")
		headers := []string{"Title", "Artist", "Date", "First Release"}
		fmt.Fprintln(out, renderTable(out, headers, rows, nil))
	}

	if len(bundle.WikiMatches) > 0 {
		rows := make([][]string, 0, len(bundle.WikiMatches))
		for _, match := range bundle.WikiMatches {
			rows = append(rows, []string{
				strconv.FormatInt(match.Song.ID, 10),
				match.Song.Title,
				fmt.Sprintf("%.2f", match.Confidence),
				match.Reason,
			})
		}
		fmt.Fprintln(out, "PrinceVault matches:")
		headers := []string{"ID", "Title", "Confidence", "Reason"}
		aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignLeft}
		fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
	}

	if metadata == nil {
		return
	}

	rows := [][]string{
		{"Title", metadata.Title},
		{"Artist", metadata.Artist},
	}
	rows = appendIfSet(rows, "Album", metadata.Album)
	if metadata.TrackNumber > 0 {
		rows = append(rows, []string{"Track", strconv.Itoa(metadata.TrackNumber)})
	}
	if metadata.Year > 0 {
		rows = append(rows, []string{"Year", strconv.Itoa(metadata.Year)})
	}
	rows = appendIfSet(rows, "Date", metadata.Date)
	rows = appendIfSet(rows, "Category", displayCategory(metadata.Category))
	rows = appendIfSet(rows, "Recording date", metadata.RecordingDate)
	rows = appendIfSet(rows, "Venue", metadata.Venue)
	rows = appendIfSet(rows, "Session", metadata.SessionInfo)
	rows = appendIfSet(rows, "Genre", metadata.Genre)
	rows = appendIfSet(rows, "Comments", metadata.Comments)
	rows = append(rows, []string{"Confidence", fmt.Sprintf("%.2f", metadata.Confidence)})

	fmt.Fprintln(out, "Normalized metadata:")
	fmt.Fprintln(out, renderTable(out, []string{"Field", "Value"}, rows, nil))
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
