package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/blogem/intern-timetracker/authenticator"
	"github.com/blogem/intern-timetracker/config"
	"github.com/blogem/intern-timetracker/database"
	"github.com/blogem/intern-timetracker/export"
	"github.com/blogem/intern-timetracker/models"

	// Embedded zone database so TIMEZONE works on minimal images
	_ "time/tzdata"
)

const (
	Version = "0.1.0"
	appName = "intern-timetracker"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Intern time and absence tracker",
		Long: `Records intern clock-ins, clock-outs and absences, reconstructs
per-intern timesheets and offers an admin review with spreadsheet export.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to LOG_LEVEL")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		migrateCmd(),
		timesheetCmd(),
		exportCmd(),
		hashPasswordCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}

func setupLogging(flagLevel string) {
	levelName := flagLevel
	if levelName == "" {
		levelName = os.Getenv("LOG_LEVEL")
	}

	level := slog.LevelInfo
	switch strings.ToLower(levelName) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := setupRouter(a)
	if err != nil {
		return fmt.Errorf("failed to setup router: %w", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("🚀 Intern Timetracker starting on port %s\n", cfg.Port)
	fmt.Printf("📂 Visit: http://localhost:%s\n", cfg.Port)
	fmt.Printf("🗃️  Database: %s\n", cfg.DatabasePath)
	fmt.Printf("🕒 Timezone: %s\n", cfg.Location)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := database.OpenDB(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.RunMigrations(cmd.Context(), db)
			if err != nil {
				return err
			}
			fmt.Printf("✅ Applied %d migration(s) to %s\n", applied, cfg.DatabasePath)
			return nil
		},
	}
}

func timesheetCmd() *cobra.Command {
	var pdfPath string

	cmd := &cobra.Command{
		Use:   "timesheet <employee-id>",
		Short: "Print an intern's timesheet, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if pdfPath != "" {
				f, err := os.Create(pdfPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", pdfPath, err)
				}
				defer f.Close()

				result, err := a.services.Timesheets.ExportPDF(cmd.Context(), f, args[0], models.UserInfo{})
				if err != nil {
					return err
				}
				fmt.Printf("📄 %s: %d record(s) written to %s\n", result.Title, result.Logs, pdfPath)
				return nil
			}

			logs, err := a.services.Timesheets.GetTimesheet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTimesheet(cmd, args[0], logs)
		},
	}
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Write the timesheet to this PDF file instead of printing it")
	return cmd
}

func printTimesheet(cmd *cobra.Command, employeeID string, logs []models.TimeLog) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, export.TimesheetTitle(employeeID))
	if len(logs) == 0 {
		fmt.Fprintln(out, "No records found for this ID.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTION\tTIMESTAMP\tDEVICE\tDURATION")
	for _, log := range logs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", log.Action, log.Timestamp, log.DeviceName, log.Duration)
	}
	return tw.Flush()
}

func exportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all time logs and absences to an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if outPath == "" {
				outPath = export.FilenamePrefix(models.UserInfo{FirstName: "Admin", LastName: "Export"}, time.Now().In(cfg.Location)) + ".xlsx"
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			defer f.Close()

			if err := a.services.Admin.ExportWorkbook(cmd.Context(), f); err != nil {
				return err
			}
			fmt.Printf("📊 Workbook written to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default <A>_Export_<date>_<time>.xlsx)")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Long:  "Print a bcrypt hash for ADMIN_PASSWORD_HASH. Without an argument the password is read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			hash, err := authenticator.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
