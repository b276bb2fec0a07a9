package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"styleme/internal/capture"
	"styleme/internal/domain"
	"styleme/internal/generation"
	"styleme/internal/handoff"
	"styleme/internal/remote"
	"styleme/internal/session"
	"styleme/pkg/zip"
)

var (
	imageFlag       string
	cameraFrameFlag string
	categoryFlag    string
	countFlag       int
	outFlag         string
	selectFlag      string
	notesFlag       string
	remoteFlag      string
	remoteURLFlag   string
	geminiModelFlag string
	pacingFlag      time.Duration
	zipFlag         bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render a batch of style previews for a photo",
	RunE:  runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&imageFlag, "image", "i", "", "Photo to upload")
	f.StringVar(&cameraFrameFlag, "camera-frame", "", "Still frame served through the camera path")
	f.StringVarP(&categoryFlag, "category", "c", "male", "Style category (male or female)")
	f.IntVarP(&countFlag, "count", "n", 6, "Number of styles")
	f.StringVarP(&outFlag, "out", "o", "styleme-out", "Output directory")
	f.StringVar(&selectFlag, "select", "", "Style to confirm, by 1-based index or id")
	f.StringVar(&notesFlag, "notes", "", "Notes attached to the confirmed selection")
	f.StringVar(&remoteFlag, "remote", "none", "Remote generator: none, http or gemini")
	f.StringVar(&remoteURLFlag, "remote-url", os.Getenv("REMOTE_BASE_URL"), "Base URL of the hairstyle service")
	f.StringVar(&geminiModelFlag, "gemini-model", "", "Gemini image model")
	f.DurationVar(&pacingFlag, "pacing", generation.DefaultPacing, "Pause between remote requests")
	f.BoolVar(&zipFlag, "zip", false, "Also write styles.zip")
	generateCmd.MarkFlagsMutuallyExclusive("image", "camera-frame")
	generateCmd.MarkFlagsOneRequired("image", "camera-frame")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	category, err := domain.ParseCategory(categoryFlag)
	if err != nil {
		return err
	}
	rc, err := cliRemote(ctx)
	if err != nil {
		return err
	}
	store := handoff.NewMemoryStore()
	registry := session.NewRegistry(session.Deps{
		Orchestrator: generation.New(generation.Options{
			Remote:           rc,
			Pacing:           pacingFlag,
			ProgressInterval: generation.DefaultProgressInterval,
			Logger:           logger,
		}),
		Capture: capture.NewAdapter(capture.Options{Logger: logger}),
		Store:   store,
		Logger:  logger,
	})
	sess := registry.Create("")

	if cameraFrameFlag != "" {
		_, err = sess.Capture(ctx, capture.FileDevice{Path: cameraFrameFlag})
	} else {
		var data []byte
		if data, err = os.ReadFile(imageFlag); err == nil {
			_, err = sess.Upload(data)
		}
	}
	if err != nil {
		return fmt.Errorf("load photo: %w", err)
	}

	progress := make(chan int)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for p := range progress {
			fmt.Fprintf(cmd.ErrOrStderr(), "\rgenerating %3d%%", p)
		}
		fmt.Fprintln(cmd.ErrOrStderr())
	}()
	batch, err := sess.Generate(ctx, category, countFlag, progress)
	close(progress)
	<-printed
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outFlag, 0o755); err != nil {
		return err
	}
	var assets []zip.Asset
	for i, style := range batch {
		img, ok := localImage(style)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", i+1, style.ID, style.Source, style.ImageURL)
			continue
		}
		name := fmt.Sprintf("%02d-%s%s", i+1, style.Key, extensionFor(img.MIME))
		if err := os.WriteFile(filepath.Join(outFlag, name), img.Data, 0o644); err != nil {
			return err
		}
		assets = append(assets, zip.Asset{Filename: name, MIME: img.MIME, Data: img.Data})
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%.2f\t%s\n", i+1, style.ID, style.Source, style.Confidence, name)
	}
	if zipFlag {
		archive, err := zip.ArchiveAssets(assets)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(outFlag, "styles.zip"), archive, 0o644); err != nil {
			return err
		}
	}

	if selectFlag == "" {
		return nil
	}
	id, err := resolveSelection(batch, selectFlag)
	if err != nil {
		return err
	}
	if err := sess.Select(id); err != nil {
		return err
	}
	if _, err := sess.Confirm(ctx, notesFlag); err != nil {
		return err
	}
	rec, err := handoff.Load(ctx, store, sess.HandoffKey())
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(outFlag, "selection.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "selection written to %s\n", path)
	return nil
}

func cliRemote(ctx context.Context) (remote.Client, error) {
	switch remoteFlag {
	case "", "none":
		return remote.Disabled{}, nil
	case "http":
		return remote.NewHTTPClient(remote.HTTPOptions{BaseURL: remoteURLFlag, Logger: logger})
	case "gemini":
		return remote.NewGeminiClient(ctx, remote.GeminiOptions{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  geminiModelFlag,
			Logger: logger,
		})
	default:
		return nil, fmt.Errorf("unsupported remote %q", remoteFlag)
	}
}

// resolveSelection accepts a 1-based index into batch or a style id.
func resolveSelection(batch []domain.GeneratedStyle, v string) (string, error) {
	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 || n > len(batch) {
			return "", fmt.Errorf("%w: index %d out of range 1..%d", domain.ErrInvalidSelection, n, len(batch))
		}
		return batch[n-1].ID, nil
	}
	for _, style := range batch {
		if style.ID == v || style.Key == v {
			return style.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidSelection, v)
}

func localImage(style domain.GeneratedStyle) (domain.Image, bool) {
	if style.Image != nil && len(style.Image.Data) > 0 {
		return *style.Image, true
	}
	if mime, data, ok := domain.DecodeDataURI(style.ImageURL); ok && len(data) > 0 {
		return domain.Image{MIME: mime, Data: data}, true
	}
	return domain.Image{}, false
}

func extensionFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
