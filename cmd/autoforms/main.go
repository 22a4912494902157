package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AnushM55/autoforms-backend/internal/forms"
	"github.com/AnushM55/autoforms-backend/internal/httpapi"
	"github.com/AnushM55/autoforms-backend/internal/mailer"
	"github.com/AnushM55/autoforms-backend/internal/model"
	"github.com/AnushM55/autoforms-backend/internal/service"
	"github.com/AnushM55/autoforms-backend/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "autoforms",
		Short: "Quiz authoring backend with Google Forms and email approval",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `autoforms --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz API server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "autoforms.db", "SQLite database path")
	f.String("google-credentials", "credentials.json", "Google service account credentials file")
	f.String("smtp-host", "smtp.gmail.com", "SMTP server host")
	f.Int("smtp-port", 587, "SMTP server port")
	f.String("smtp-username", "", "SMTP username")
	f.String("smtp-password", "", "SMTP password (or set AUTOFORMS_SMTP_PASSWORD)")
	f.String("smtp-sender", "", "Sender address (defaults to the SMTP username)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all quizzes as JSON, including soft-deleted ones",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "autoforms.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("AUTOFORMS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("autoforms")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/autoforms")
	v.AddConfigPath("/etc/autoforms")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// The form provider is optional: without credentials the server still
	// runs and quizzes are created without form linkage.
	formProvider, err := newFormProvider(cmd.Context(), v.GetString("google-credentials"))
	if err != nil {
		return err
	}

	sender := v.GetString("smtp-sender")
	if sender == "" {
		sender = v.GetString("smtp-username")
	}
	notifier, err := mailer.New(mailer.Config{
		Host:     v.GetString("smtp-host"),
		Port:     v.GetInt("smtp-port"),
		Username: v.GetString("smtp-username"),
		Password: v.GetString("smtp-password"),
		Sender:   sender,
	})
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}

	svc := service.New(db, formProvider, notifier)
	router := httpapi.NewRouter(svc)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"db", v.GetString("db"),
		"forms_enabled", formProvider != nil,
		"smtp_host", v.GetString("smtp-host"),
	)
	return http.ListenAndServe(addr, router)
}

// newFormProvider builds the Google Forms client, or returns a nil provider
// when the credentials file does not exist.
func newFormProvider(ctx context.Context, credentialsFile string) (service.FormProvider, error) {
	if _, err := os.Stat(credentialsFile); os.IsNotExist(err) {
		slog.Warn("Google credentials file not found, form creation disabled", "path", credentialsFile)
		return nil, nil
	}
	client, err := forms.New(ctx, credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("create forms client: %w", err)
	}
	return client, nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	quizzes, err := db.ExportAllQuizzes(cmd.Context())
	if err != nil {
		return fmt.Errorf("export quizzes: %w", err)
	}

	export := model.QuizExport{
		ExportedAt: time.Now().UTC(),
		QuizCount:  len(quizzes),
		Quizzes:    quizzes,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}
