// Command charlie-bot runs the WhatsApp conversational assistant.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/proelectricos/charlie-bot/internal/api"
	"github.com/proelectricos/charlie-bot/internal/config"
	"github.com/proelectricos/charlie-bot/internal/genai"
	"github.com/proelectricos/charlie-bot/internal/lockfile"
	"github.com/proelectricos/charlie-bot/internal/whatsapp"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for Charlie Bot state data
	DefaultStateDir = "/var/lib/charliebot"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "whatsmeow.db"
	// DefaultTokenFileName is the default Google OAuth token filename
	DefaultTokenFileName = "google-token.json"
)

func main() {
	initializeLogger()

	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	flags := parseCommandLineFlags()

	cfg, err := config.Load(*flags.configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	applyFlagOverrides(&cfg, flags)
	applyStateDirDefaults(&cfg)

	if err := ensureDirectoriesExist(cfg); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	// One instance per state directory: a second process sharing the device
	// store would corrupt the WhatsApp session.
	lock, err := lockfile.AcquireLock(cfg.StateDir)
	if err != nil {
		slog.Error("Failed to acquire state directory lock", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	waOpts := buildWhatsAppOptions(flags)
	genaiOpts := buildGenAIOptions(flags)

	slog.Info("Bootstrapping Charlie Bot with configured modules")
	slog.Debug("Final configuration",
		"api_addr", cfg.APIAddr,
		"transport", cfg.Transport,
		"order_base_url", cfg.OrderBaseURL,
		"state_dir", cfg.StateDir,
		"dsn_set", cfg.DBDSN != "",
		"session_ttl", cfg.SessionTTL)
	if err := api.Run(cfg, waOpts, genaiOpts); err != nil {
		slog.Error("Charlie Bot failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("Charlie Bot exited successfully")
}

// Flags holds command line flag values
type Flags struct {
	configPath *string
	qrOutput   *string
	numeric    *bool
	stateDir   *string
	dbDSN      *string
	apiAddr    *string
	openaiKey  *string
	transport  *string
}

// initializeLogger sets up structured logging with debug level
func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}

// parseCommandLineFlags parses command line arguments
func parseCommandLineFlags() Flags {
	flags := Flags{
		configPath: flag.String("config", "", "path to YAML configuration file"),
		qrOutput:   flag.String("qr-output", "", "path to write login QR code"),
		numeric:    flag.Bool("numeric-code", false, "use numeric login code instead of QR code"),
		stateDir:   flag.String("state-dir", "", "state directory for Charlie Bot data (overrides $CHARLIE_STATE_DIR)"),
		dbDSN:      flag.String("db-dsn", "", "database DSN for the WhatsApp device store (overrides $WHATSAPP_DB_DSN or $DATABASE_URL)"),
		apiAddr:    flag.String("api-addr", "", "API server address (overrides $API_ADDR)"),
		openaiKey:  flag.String("openai-api-key", "", "OpenAI-compatible API key (overrides $OPENAI_API_KEY / $GROQ_API_KEY)"),
		transport:  flag.String("transport", "", "message transport: whatsmeow or twilio (overrides $BOT_TRANSPORT)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"configPath", *flags.configPath,
		"qrOutput", *flags.qrOutput,
		"numeric", *flags.numeric,
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"apiAddr", *flags.apiAddr,
		"openaiKeySet", *flags.openaiKey != "",
		"transport", *flags.transport)
	return flags
}

// applyFlagOverrides lets explicit flags win over file and environment values.
func applyFlagOverrides(cfg *config.Config, flags Flags) {
	if *flags.stateDir != "" {
		cfg.StateDir = *flags.stateDir
	}
	if *flags.dbDSN != "" {
		cfg.DBDSN = *flags.dbDSN
	}
	if *flags.apiAddr != "" {
		cfg.APIAddr = *flags.apiAddr
	}
	if *flags.transport != "" {
		cfg.Transport = *flags.transport
	}
}

// applyStateDirDefaults places the device store and OAuth token under the
// state directory when no explicit locations were configured.
func applyStateDirDefaults(cfg *config.Config) {
	if cfg.StateDir == "" {
		cfg.StateDir = DefaultStateDir
		slog.Debug("No state directory configured, using default", "state_dir", cfg.StateDir)
	}
	if cfg.DBDSN == "" {
		cfg.DBDSN = filepath.Join(cfg.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", cfg.DBDSN)
	}
	if cfg.TokenPath == "" {
		cfg.TokenPath = filepath.Join(cfg.StateDir, DefaultTokenFileName)
		slog.Debug("No token path configured, defaulting under state directory", "token_path", cfg.TokenPath)
	}
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(cfg config.Config) error {
	if whatsapp.DetectDSNType(cfg.DBDSN) == "postgres" {
		return nil
	}
	stateDir := filepath.Dir(cfg.DBDSN)
	slog.Debug("Creating state directory for file-based database", "state_dir", stateDir)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		slog.Error("Failed to create state directory", "error", err, "state_dir", stateDir)
		return err
	}
	return nil
}

// buildWhatsAppOptions constructs WhatsApp configuration options
func buildWhatsAppOptions(flags Flags) []whatsapp.Option {
	var waOpts []whatsapp.Option
	if *flags.qrOutput != "" {
		waOpts = append(waOpts, whatsapp.WithQRCodeOutput(*flags.qrOutput))
	}
	if *flags.numeric {
		waOpts = append(waOpts, whatsapp.WithNumericCode())
	}
	return waOpts
}

// buildGenAIOptions constructs GenAI configuration options
func buildGenAIOptions(flags Flags) []genai.Option {
	var genaiOpts []genai.Option
	if *flags.openaiKey != "" {
		genaiOpts = append(genaiOpts, genai.WithAPIKey(*flags.openaiKey))
	}
	return genaiOpts
}
