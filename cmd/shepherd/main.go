// Package main is the Shepherd CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/shepherd/internal/cli"
	"github.com/hyperjump/shepherd/internal/config"
	"github.com/hyperjump/shepherd/internal/corpus"
	"github.com/hyperjump/shepherd/internal/embedding"
	"github.com/hyperjump/shepherd/internal/generation"
	"github.com/hyperjump/shepherd/internal/guidance"
	"github.com/hyperjump/shepherd/internal/indexer"
	"github.com/hyperjump/shepherd/internal/language"
	"github.com/hyperjump/shepherd/internal/models"
	"github.com/hyperjump/shepherd/internal/ratelimit"
	"github.com/hyperjump/shepherd/internal/retrieval"
	"github.com/hyperjump/shepherd/internal/server"
	"github.com/hyperjump/shepherd/internal/storage"
	"github.com/hyperjump/shepherd/pkg/utils"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/shepherd/config.yaml"

// limiter idle entries are swept on this cadence while the server runs.
const prunePeriod = 5 * time.Minute

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "shepherd server" from the project dir uses the
// project's config (including debug). Returns the config and the path that
// was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "verses":
		runVerses()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("shepherd version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (per-request details, stream lifecycle, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	pruneCtx, pruneCancel := context.WithCancel(context.Background())
	defer pruneCancel()
	go func() {
		ticker := time.NewTicker(prunePeriod)
		defer ticker.Stop()
		for {
			select {
			case <-pruneCtx.Done():
				return
			case <-ticker.C:
				components.Limiter.PruneIdle(time.Now())
			}
		}
	}()

	srv := server.NewServer(
		components.Orchestrator,
		components.Notifier,
		components.Store,
		components.Retriever,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	pruneCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func printAskUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: shepherd ask [flags] <question>\n\n")
	fmt.Fprintf(fs.Output(), "The question is all remaining arguments joined by spaces. Multi-word questions work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  shepherd ask how do I find peace
  shepherd ask "how do I find peace"          # same as above
  shepherd ask --output json "what is hope"   # structured JSON for other apps
  shepherd ask --server "" "what is hope"     # run the pipeline locally
`)
}

// buildQuery joins all positional args with spaces so multi-word questions
// work the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// askArgsReorder moves any flags (and their values) that appear after the
// question to the front of the slice so that flag.Parse() sees them. Go's
// flag package stops at the first non-flag argument, so
// `shepherd ask "question" -output json` would otherwise leave -output
// unparsed.
func askArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func parseOutputFormat(raw string) (cli.OutputFormat, error) {
	switch raw {
	case "json":
		return cli.OutputJSON, nil
	case "text":
		return cli.OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", raw)
	}
}

func runAsk() {
	askArgs := askArgsReorder(os.Args[2:])
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = run the pipeline locally)")
	sessionID := fs.String("session", "", "session UUID to continue (default: a fresh session)")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	fs.Usage = func() { printAskUsage(fs) }
	_ = fs.Parse(askArgs)

	if fs.NArg() < 1 {
		printAskUsage(fs)
		os.Exit(1)
	}
	question := buildQuery(fs.Args())
	if question == "" {
		printAskUsage(fs)
		os.Exit(1)
	}
	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	sid := *sessionID
	if sid == "" {
		sid = uuid.NewString()
	}

	if *serverURL != "" {
		// Use the HTTP API when the server is running (avoids a second SQLite
		// writer on the same database).
		outcome, err := askViaHTTP(*serverURL, sid, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteOutcome(os.Stdout, outcome, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Local pipeline (when the server is not running).
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	outcome, err := components.Orchestrator.Handle(context.Background(), guidance.Request{
		SessionID: sid,
		Text:      question,
		ClientID:  "cli",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteOutcome(os.Stdout, outcome, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if outcome.Status == guidance.StatusRejected {
		os.Exit(1)
	}
}

func askViaHTTP(serverURL, sessionID, question string) (guidance.Outcome, error) {
	body, err := json.Marshal(models.ChatRequest{SessionID: sessionID, Message: question})
	if err != nil {
		return guidance.Outcome{}, err
	}
	resp, err := http.Post(serverURL+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return guidance.Outcome{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return guidance.Outcome{}, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var out models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return guidance.Outcome{}, fmt.Errorf("decode response: %w", err)
	}
	return guidance.Outcome{
		Status:    guidance.Status(out.Status),
		SessionID: out.SessionID,
		Language:  out.Language,
		Text:      out.Text,
		Citations: out.Citations,
	}, nil
}

func runVerses() {
	versesArgs := askArgsReorder(os.Args[2:])
	fs := flag.NewFlagSet("verses", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	lang := fs.String("language", "", "corpus language (default: detected from the query)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(versesArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: shepherd verses [flags] <query>")
		os.Exit(1)
	}
	query := buildQuery(fs.Args())
	if query == "" {
		fmt.Println("Usage: shepherd verses [flags] <query>")
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if !components.Retriever.Enabled() {
		fmt.Fprintln(os.Stderr, "Retrieval is disabled: no embedder available.")
		os.Exit(1)
	}

	queryLang := *lang
	if queryLang == "" {
		queryLang = language.Detect(query)
	}
	citations := components.Retriever.Retrieve(context.Background(), query, queryLang)

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(citations); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		if len(citations) == 0 {
			fmt.Println("No verses within the distance threshold.")
			return
		}
		cli.WriteCitations(os.Stdout, citations)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

// statusResponse is the shape of GET /api/status.
type statusResponse struct {
	Sessions          int64                    `json:"sessions"`
	Messages          int64                    `json:"messages"`
	StreamSubscribers int                      `json:"stream_subscribers"`
	Retrieval         *statusRetrievalResponse `json:"retrieval,omitempty"`
}

type statusRetrievalResponse struct {
	Enabled bool           `json:"enabled"`
	Verses  map[string]int `json:"verses"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger, cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		ctx := context.Background()
		sessionCount, err := components.Store.CountSessions(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count sessions failed: %v\n", err)
			os.Exit(1)
		}
		messageCount, err := components.Store.CountMessages(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count messages failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Sessions: sessionCount,
			Messages: messageCount,
			Retrieval: &statusRetrievalResponse{
				Enabled: components.Retriever.Enabled(),
				Verses:  components.Retriever.Stats(),
			},
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("sessions:            %d   # stored chat sessions\n", status.Sessions)
		fmt.Printf("messages:            %d   # stored chat messages\n", status.Messages)
		fmt.Printf("stream_subscribers:  %d   # open SSE connections\n", status.StreamSubscribers)
		if status.Retrieval != nil {
			fmt.Printf("retrieval_enabled:   %t\n", status.Retrieval.Enabled)
			langs := make([]string, 0, len(status.Retrieval.Verses))
			for lang := range status.Retrieval.Verses {
				langs = append(langs, lang)
			}
			sort.Strings(langs)
			for _, lang := range langs {
				fmt.Printf("verses.%s: %d\n", lang, status.Retrieval.Verses[lang])
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Components holds initialized services.
type Components struct {
	Store        *storage.SQLiteStore
	Embedder     embedding.Embedder
	Retriever    *retrieval.Service
	Generator    generation.Generator
	Limiter      *ratelimit.Limiter
	Notifier     *guidance.Notifier
	Orchestrator *guidance.Orchestrator
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// A failed embedder does not abort startup: the service runs with
	// retrieval disabled and every chat answer carries zero citations.
	var embedder embedding.Embedder
	if cfg.Embedding.Type == "mock" {
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	} else {
		onnxEmbedder, err := embedding.NewONNXEmbedder(
			cfg.Embedding.ModelPath,
			cfg.Embedding.Dimensions,
			cfg.Embedding.MaxTokens,
			cfg.Embedding.CacheSize,
		)
		if err != nil {
			logger.Warn("embedder unavailable, retrieval disabled",
				zap.String("model_path", cfg.Embedding.ModelPath),
				zap.Error(err))
		} else {
			embedder = onnxEmbedder
		}
	}

	var indices map[string]*retrieval.LanguageIndex
	if embedder != nil {
		collections, err := corpus.Load(cfg.Corpus.Dir, cfg.Corpus.Languages)
		if err != nil {
			return nil, fmt.Errorf("failed to load corpus: %w", err)
		}

		builderOpts := []indexer.BuilderOption{indexer.WithWorkers(cfg.Embedding.Workers)}
		if debug {
			builderOpts = append(builderOpts, indexer.WithLogger(logger))
		}
		indices, err = indexer.NewBuilder(embedder, builderOpts...).Build(context.Background(), collections)
		if err != nil {
			return nil, fmt.Errorf("failed to build verse indices: %w", err)
		}
		logger.Info("verse indices built",
			zap.Int("languages", len(indices)),
			zap.Int("dimensions", embedder.Dimensions()))
	}

	retriever := retrieval.NewService(embedder, indices, retrieval.Options{
		TopK:              cfg.Retrieval.TopK,
		MaxDistance:       cfg.Retrieval.MaxDistance,
		FallbackToDefault: cfg.Retrieval.FallbackToDefault,
		DefaultLanguage:   cfg.Corpus.DefaultLanguage,
	}, logger)

	generator := newGenerator(cfg, logger)
	limiter := ratelimit.NewLimiter(
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		cfg.RateLimit.MaxRequests,
	)
	notifier := guidance.NewNotifier()
	orchestrator := guidance.NewOrchestrator(store, generator, retriever, limiter, notifier,
		guidance.Options{
			GenerationTimeout: time.Duration(cfg.Generation.TimeoutSeconds) * time.Second,
			SystemPrompt:      cfg.Generation.SystemPrompt,
			MinResponseRunes:  cfg.Generation.MinResponseChars,
			Fallbacks:         fallbacksFromConfig(cfg.Fallbacks),
			DefaultLanguage:   cfg.Corpus.DefaultLanguage,
		}, logger)

	return &Components{
		Store:        store,
		Embedder:     embedder,
		Retriever:    retriever,
		Generator:    generator,
		Limiter:      limiter,
		Notifier:     notifier,
		Orchestrator: orchestrator,
	}, nil
}

// newGenerator wires the OpenAI-compatible client, falling back to disabled
// generation when no usable credentials are configured.
func newGenerator(cfg *config.Config, logger *zap.Logger) generation.Generator {
	generator, err := generation.NewOpenAIGenerator(generation.OpenAIOptions{
		BaseURL:     cfg.Generation.BaseURL,
		APIKey:      resolveAPIKey(cfg),
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
	}, logger)
	if err != nil {
		if errors.Is(err, generation.ErrNoCredentials) {
			logger.Warn("generation disabled: no API key configured; replies will use fallback texts")
		} else {
			logger.Warn("generation client unavailable", zap.Error(err))
		}
		return generation.Disabled{}
	}
	return generator
}

// resolveAPIKey prefers the environment so keys stay out of config files.
func resolveAPIKey(cfg *config.Config) string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return cfg.Generation.APIKey
}

func fallbacksFromConfig(sets map[string]config.FallbackSet) map[string]guidance.FallbackSet {
	out := make(map[string]guidance.FallbackSet, len(sets))
	for lang, set := range sets {
		out[lang] = guidance.FallbackSet{
			Delayed:     set.Delayed,
			Rephrase:    set.Rephrase,
			Unavailable: set.Unavailable,
		}
	}
	return out
}

func printUsage() {
	fmt.Println(`shepherd - Scripture-grounded guidance chat service

Usage:
  shepherd server [flags]           Start the HTTP server
  shepherd ask [flags] <question>   Ask one question and print the reply
  shepherd verses [flags] <query>   Find the closest verses for a query
  shepherd status [flags]           Show store/retrieval status
  shepherd version                  Show version
  shepherd help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/shepherd/config.yaml)
  --debug            Enable debug logging (per-request details, stream lifecycle, etc.)

Ask Flags:
  --config string    Config file path (for local pipeline mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to run the pipeline locally.
  --session string   Session UUID to continue an existing conversation (default: a fresh session)
  --output string    Output format: text or json (default: text)

Verses Flags:
  --config string    Config file path
  --language string  Corpus language (default: detected from the query)
  --output string    Output format: text or json (default: text)

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --output string    Output format: text or json (default: text)

Examples:
  shepherd server
  shepherd ask "how do I find peace"
  shepherd ask --output json "what is hope"
  shepherd ask --session 6ba7b810-9dad-11d1-80b4-00c04fd430c8 "tell me more"
  shepherd verses anxiety and worry
  shepherd status --output json`)
}
