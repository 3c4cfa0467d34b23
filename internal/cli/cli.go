// Package cli wires the engine, orchestrator, session, glossary, provider,
// and store packages into a cobra command surface, following the
// teacher's internal/cli.go pattern: a root command, one
// constructor-function per subcommand, and a runXxx function each wraps
// that builds dependencies and returns an error.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"game-localizer/internal/config"
	"game-localizer/internal/engine"
	"game-localizer/internal/glossary"
	"game-localizer/internal/model"
	"game-localizer/internal/providerhttp"
	"game-localizer/internal/session"
	"game-localizer/internal/store"
	"game-localizer/internal/worker"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "localizer",
		Short: "Game-localization pipeline for RPG Maker MV/MZ and Wolf RPG Editor projects",
		Long:  "Extracts translatable text from RPG Maker and Wolf RPG project trees, drives a sequential translation session, and injects translations back into byte-faithful copies of the originals.",
	}

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(injectCmd())
	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(glossaryServeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// ---------------------------------------------------------------------
// scan
// ---------------------------------------------------------------------

func scanCmd() *cobra.Command {
	var outPath string
	var useDB bool

	cmd := &cobra.Command{
		Use:   "scan <root>...",
		Short: "Detect each project's engine, validate its structure, and extract every translatable TextUnit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args, outPath, useDB)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "textunits.json", "path to write extracted TextUnits as JSON")
	cmd.Flags().BoolVar(&useDB, "use-db", false, "also upsert extracted TextUnits into the configured Postgres store")
	return cmd
}

// scanResult is one root's extraction outcome, used both for the errgroup
// pool below and for the JSON the command writes out.
type scanResult struct {
	Root  string            `json:"root"`
	Name  engine.Name       `json:"engine"`
	Units []model.TextUnit  `json:"text_units"`
	Errs  []string          `json:"errors,omitempty"`
	Warns []string          `json:"warnings,omitempty"`
}

// runScan extracts texts from one or more project roots concurrently: each
// root is an independent tree walk with its own engine handler, so they
// fan out over the bounded worker pool (§5: "extraction ... the
// orchestrator may run them on a single thread" per file, but nothing
// forbids running independent roots concurrently).
func runScan(roots []string, outPath string, useDB bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	pool := worker.NewPool(cfg.WorkerCount, func(ctx context.Context, root string) (scanResult, error) {
		return scanOneRoot(root)
	})
	tasks, err := pool.Execute(ctx, roots)
	if err != nil {
		return fmt.Errorf("cli: scan: %w", err)
	}

	var all []scanResult
	var totalUnits int
	for _, t := range tasks {
		if t.Err != nil {
			log.Error().Err(t.Err).Str("root", t.Input).Msg("scan: root failed")
			continue
		}
		all = append(all, t.Result)
		totalUnits += len(t.Result.Units)
		log.Info().
			Str("root", t.Result.Root).
			Str("engine", string(t.Result.Name)).
			Int("units", len(t.Result.Units)).
			Int("errors", len(t.Result.Errs)).
			Msg("scan: root complete")
	}

	if useDB {
		pgPool, err := connectPostgres(ctx, cfg)
		if err != nil {
			return err
		}
		defer pgPool.Close()
		s := store.NewPostgres(pgPool)
		if err := s.EnsureSchema(ctx); err != nil {
			return err
		}
		for _, r := range all {
			if err := s.Upsert(ctx, r.Units); err != nil {
				log.Error().Err(err).Str("root", r.Root).Msg("scan: upsert to store failed")
			}
		}
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("cli: marshal scan results: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("cli: write %s: %w", outPath, err)
	}

	log.Info().Int("roots", len(all)).Int("units", totalUnits).Str("out", outPath).Msg("scan complete")
	return nil
}

func scanOneRoot(root string) (scanResult, error) {
	h, err := engine.Detect(root)
	if err != nil {
		return scanResult{}, fmt.Errorf("detect %s: %w", root, err)
	}

	validation, err := h.ValidateProjectStructure(root)
	if err != nil {
		return scanResult{}, fmt.Errorf("validate %s: %w", root, err)
	}
	for _, w := range validation.Warnings {
		log.Warn().Str("root", root).Msg(w)
	}
	if !validation.Valid {
		return scanResult{Root: root, Name: h.EngineName(), Errs: validation.Errors, Warns: validation.Warnings},
			fmt.Errorf("%s: invalid project structure: %v", root, validation.Errors)
	}

	units, err := h.ExtractAllTexts(root)
	if err != nil {
		return scanResult{}, fmt.Errorf("extract %s: %w", root, err)
	}

	return scanResult{Root: root, Name: h.EngineName(), Units: units, Warns: validation.Warnings}, nil
}

// ---------------------------------------------------------------------
// inject
// ---------------------------------------------------------------------

func injectCmd() *cobra.Command {
	var translationsPath string
	var fromDB bool

	cmd := &cobra.Command{
		Use:   "inject <root>",
		Short: "Write translations back into a project's data files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInject(args[0], translationsPath, fromDB)
		},
	}
	cmd.Flags().StringVar(&translationsPath, "translations", "translations.json", "path to a JSON array of {id, translated_text}")
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "read committed translations from the configured Postgres store instead of --translations")
	return cmd
}

func runInject(root, translationsPath string, fromDB bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	h, err := engine.Detect(root)
	if err != nil {
		return err
	}

	var translations []model.Translation
	if fromDB {
		cfg := config.Load()
		pgPool, err := connectPostgres(ctx, cfg)
		if err != nil {
			return err
		}
		defer pgPool.Close()
		s := store.NewPostgres(pgPool)
		translations, err = s.Translations(ctx)
		if err != nil {
			return fmt.Errorf("cli: read translations from store: %w", err)
		}
	} else {
		data, err := os.ReadFile(translationsPath)
		if err != nil {
			return fmt.Errorf("cli: read %s: %w", translationsPath, err)
		}
		if err := json.Unmarshal(data, &translations); err != nil {
			return fmt.Errorf("cli: decode %s: %w", translationsPath, err)
		}
	}

	if err := h.InjectAllTexts(root, translations); err != nil {
		return fmt.Errorf("cli: inject %s: %w", root, err)
	}

	log.Info().Str("root", root).Int("translations", len(translations)).Msg("inject complete")
	return nil
}

// ---------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------

func translateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Drive the sequential translation session manager",
	}
	cmd.AddCommand(translateRunCmd())
	cmd.AddCommand(translateSuggestCmd())
	return cmd
}

func translateRunCmd() *cobra.Command {
	var sourceLang, targetLang, modelName string
	var projectID int64
	var hasProjectID bool
	var pauseBatchSize, pauseDuration int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <root>",
		Short: "Extract, translate one entry at a time, and inject the results back into <root>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pid *int64
			if hasProjectID {
				pid = &projectID
			}
			return runTranslate(args[0], sourceLang, targetLang, modelName, pid, pauseBatchSize, pauseDuration, dryRun)
		},
	}

	cfg := config.Load()
	cmd.Flags().StringVar(&sourceLang, "source-language", cfg.SourceLanguage, "source language code")
	cmd.Flags().StringVar(&targetLang, "target-language", cfg.TargetLanguage, "target language code")
	cmd.Flags().StringVar(&modelName, "model", cfg.TranslationModel, "provider model name")
	cmd.Flags().Int64Var(&projectID, "project-id", 0, "glossary project scope id")
	cmd.Flags().BoolVar(&hasProjectID, "has-project-id", false, "set to scope glossary lookups to --project-id")
	cmd.Flags().IntVar(&pauseBatchSize, "pause-batch-size", cfg.PauseBatchSize, "entries per batch before a cooldown pause")
	cmd.Flags().IntVar(&pauseDuration, "pause-duration-minutes", cfg.PauseDurationMinutes, "cooldown pause duration in minutes")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "extract and translate but do not write files")
	return cmd
}

// runTranslate runs the whole pipeline synchronously in one process:
// extract, start a session, poll get-progress until completion while
// honoring SIGUSR1 as a pause/resume toggle (the single-process realization
// of the session control surface §6 names), then inject.
func runTranslate(root, sourceLang, targetLang, modelName string, projectID *int64, pauseBatchSize, pauseDuration int, dryRun bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	if cfg.AnthropicAPIKey == "" {
		return fmt.Errorf("cli: ANTHROPIC_API_KEY is required to translate (Config kind)")
	}

	h, err := engine.Detect(root)
	if err != nil {
		return err
	}
	units, err := h.ExtractAllTexts(root)
	if err != nil {
		return fmt.Errorf("cli: extract %s: %w", root, err)
	}
	log.Info().Int("units", len(units)).Msg("translate: extraction complete")
	if len(units) == 0 {
		return nil
	}

	provider := providerhttp.NewClient(cfg.AnthropicAPIKey, modelName)
	responder, closeResponder := buildResponder(ctx, cfg)
	defer closeResponder()

	mgr := session.NewManager(provider, responder)
	settings := session.Settings{SourceLanguage: sourceLang, TargetLanguage: targetLang, Model: modelName, ProjectID: projectID}
	pauseCfg := session.PauseConfig{Enabled: pauseBatchSize > 0, BatchSize: pauseBatchSize, DurationMinutes: pauseDuration}

	sessionID := mgr.StartSession(units, settings, pauseCfg)
	log.Info().Str("session_id", sessionID).Msg("translate: session started")

	registerPauseResumeSignals(mgr, sessionID)

	translated := make(map[string]string, len(units))
	for {
		progress, err := mgr.GetProgress(sessionID)
		if err != nil {
			return fmt.Errorf("cli: get progress: %w", err)
		}
		for _, r := range progress.SuccessfulTranslations {
			translated[r.ID] = r.TranslatedText
		}
		for _, e := range progress.Errors {
			log.Warn().Str("id", e.ID).Str("message", e.Message).Msg("translate: entry failed")
		}
		log.Info().
			Str("status", string(progress.Status)).
			Int("processed", progress.ProcessedCount).
			Int("total", progress.TotalCount).
			Msg("translate: progress")

		if progress.Status == session.StatusCompleted || progress.Status == session.StatusError {
			break
		}
		select {
		case <-ctx.Done():
			_ = mgr.StopSession(sessionID)
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}

	if dryRun {
		log.Info().Int("translated", len(translated)).Msg("translate: dry run, skipping injection")
		return nil
	}

	var translations []model.Translation
	for id, text := range translated {
		translations = append(translations, model.Translation{ID: id, TranslatedText: text})
	}
	if err := h.InjectAllTexts(root, translations); err != nil {
		return fmt.Errorf("cli: inject %s: %w", root, err)
	}

	log.Info().Int("translated", len(translations)).Str("root", root).Msg("translate complete")
	return nil
}

// registerPauseResumeSignals wires SIGUSR1 to toggle pause/resume on the
// running session, since a single CLI invocation has no other channel for
// an operator to reach the pause/resume control surface mid-run.
func registerPauseResumeSignals(mgr *session.Manager, sessionID string) {
	var paused atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1)
	go func() {
		for range sigCh {
			if paused.Load() {
				if err := mgr.ResumeSession(sessionID); err != nil {
					log.Warn().Err(err).Msg("translate: resume failed")
					continue
				}
				paused.Store(false)
				log.Info().Msg("translate: resumed")
			} else {
				if err := mgr.PauseSession(sessionID); err != nil {
					log.Warn().Err(err).Msg("translate: pause failed")
					continue
				}
				paused.Store(true)
				log.Info().Msg("translate: paused (SIGUSR1 again to resume)")
			}
		}
	}()
}

func translateSuggestCmd() *cobra.Command {
	var sourceLang, targetLang, textType string
	var projectID int64
	var hasProjectID bool

	cmd := &cobra.Command{
		Use:   "suggest <source-text>",
		Short: "Look up glossary suggestions for a piece of text (the get-suggestions operation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pid *int64
			if hasProjectID {
				pid = &projectID
			}
			return runSuggest(args[0], sourceLang, targetLang, model.TextType(textType), pid)
		},
	}
	cfg := config.Load()
	cmd.Flags().StringVar(&sourceLang, "source-language", cfg.SourceLanguage, "source language code")
	cmd.Flags().StringVar(&targetLang, "target-language", cfg.TargetLanguage, "target language code")
	cmd.Flags().StringVar(&textType, "text-type", string(model.TextOther), "TextUnit text_type, drives category filtering")
	cmd.Flags().Int64Var(&projectID, "project-id", 0, "glossary project scope id")
	cmd.Flags().BoolVar(&hasProjectID, "has-project-id", false, "set to scope the lookup to --project-id")
	return cmd
}

func runSuggest(text, sourceLang, targetLang string, textType model.TextType, projectID *int64) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	responder, closeResponder := buildResponder(ctx, cfg)
	defer closeResponder()

	// A bare responder call through the documented fail-open entry point;
	// Provider is unused for a suggestion-only lookup, so pass a nil-safe
	// stand-in that a suggestion path never calls.
	mgr := session.NewManager(noopProvider{}, responder)
	suggestions := mgr.GetSuggestions(ctx, text, sourceLang, targetLang, textType, projectID)

	data, err := json.MarshalIndent(suggestions, "", "  ")
	if err != nil {
		return fmt.Errorf("cli: marshal suggestions: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

type noopProvider struct{}

func (noopProvider) Call(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("cli: provider not available in suggestion-only mode")
}
func (noopProvider) ListModels(context.Context) ([]string, error) { return nil, nil }
func (noopProvider) TestConnection(context.Context) error         { return nil }

// ---------------------------------------------------------------------
// glossary
// ---------------------------------------------------------------------

func glossaryServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glossary",
		Short: "Manage the Neo4j-backed glossary responder",
	}
	cmd.AddCommand(glossarySeedCmd())
	return cmd
}

func glossarySeedCmd() *cobra.Command {
	var termsPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Ensure the glossary schema and upsert terms from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGlossarySeed(termsPath)
		},
	}
	cmd.Flags().StringVar(&termsPath, "terms", "glossary_terms.json", "path to a JSON array of glossary.Entry")
	return cmd
}

func runGlossarySeed(termsPath string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()
	driver, err := connectNeo4j(ctx, cfg)
	if err != nil {
		return err
	}
	defer driver.Close(ctx)

	responder := glossary.NewNeo4jResponder(driver)
	if err := responder.EnsureSchema(ctx); err != nil {
		return err
	}

	data, err := os.ReadFile(termsPath)
	if err != nil {
		return fmt.Errorf("cli: read %s: %w", termsPath, err)
	}
	var entries []glossary.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("cli: decode %s: %w", termsPath, err)
	}

	if err := responder.SeedTerms(ctx, entries); err != nil {
		return err
	}
	log.Info().Int("terms", len(entries)).Str("source", termsPath).Msg("glossary seed complete")
	return nil
}

// ---------------------------------------------------------------------
// shared dependency wiring
// ---------------------------------------------------------------------

// connectPostgres opens and pings a pool, registering the pgvector type on
// every new connection, following the teacher's initDependencies pattern.
func connectPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("cli: parse DATABASE_URL: %w", err)
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return store.ConfigureTypes(ctx, conn)
	}

	pgPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("cli: connect PostgreSQL: %w", err)
	}
	if err := pgPool.Ping(ctx); err != nil {
		pgPool.Close()
		return nil, fmt.Errorf("cli: ping PostgreSQL: %w", err)
	}
	log.Info().Msg("cli: connected to PostgreSQL")
	return pgPool, nil
}

// connectNeo4j opens and verifies a driver, following the teacher's
// initDependencies pattern.
func connectNeo4j(ctx context.Context, cfg *config.Config) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("cli: connect Neo4j: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("cli: verify Neo4j connectivity: %w", err)
	}
	log.Info().Msg("cli: connected to Neo4j")
	return driver, nil
}

// buildResponder wires a Neo4j-backed glossary responder when NEO4J_URI
// points somewhere reachable, falling back to an empty in-memory responder
// (fail-open per §5's "no glossary terms for that entry" behavior) so
// translate/suggest still work without a graph database configured.
func buildResponder(ctx context.Context, cfg *config.Config) (glossary.Responder, func()) {
	driver, err := connectNeo4j(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("cli: glossary falling back to empty in-memory responder")
		return &glossary.MemoryResponder{}, func() {}
	}
	return glossary.NewNeo4jResponder(driver), func() { _ = driver.Close(ctx) }
}
