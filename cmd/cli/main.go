package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/ledgerlens/internal/adapter/export"
	"github.com/iho/ledgerlens/internal/adapter/http/dto"
	"github.com/iho/ledgerlens/internal/adapter/http/middleware"
	"github.com/iho/ledgerlens/internal/infrastructure/postgres"
)

type client struct {
	baseURL string
	token   string
	timeout time.Duration
	out     io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &client{out: out}

	rootCmd := &cobra.Command{
		Use:           "ledgerlens-cli",
		Short:         "LedgerLens CLI tool",
		Long:          `A command line interface for querying the LedgerLens reporting API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&c.baseURL, "url", envOr("LEDGERLENS_URL", "http://localhost:8080"), "Base URL of the LedgerLens API")
	rootCmd.PersistentFlags().StringVar(&c.token, "token", os.Getenv("LEDGERLENS_TOKEN"), "Bearer token")
	rootCmd.PersistentFlags().DurationVar(&c.timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(
		c.reportCmd(),
		c.kpisCmd(),
		c.exportCmd(),
		c.emailCmd(),
		c.tokenCmd(),
		migrateCmd(),
	)
	return rootCmd
}

// reportCmd runs any report endpoint, e.g. "report financial/cash-flow start_date=2024-04-01".
func (c *client) reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report PATH [key=value...]",
		Short: "Run a report under /api/v1",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := params(args[1:])
			if err != nil {
				return err
			}
			return c.getJSON(strings.Trim(args[0], "/"), q)
		},
	}
}

func (c *client) kpisCmd() *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "kpis",
		Short: "Show the KPI dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.getJSON("overview/kpis", url.Values{"start_date": {start}, "end_date": {end}})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func (c *client) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export NAME [key=value...]",
		Short: "Download a workbook (ledgers, transactions, stock, parties, kpis)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := params(args[1:])
			if err != nil {
				return err
			}
			if output == "" {
				output = args[0] + ".xlsx"
			}

			resp, err := c.do(http.MethodGet, "export/"+args[0]+".xlsx", q, nil)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}
			if resp.Header.Get("Content-Type") != export.ContentType {
				return envelopeError(resp.StatusCode, body)
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Wrote %s (%d bytes)\n", output, len(body))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	return cmd
}

func (c *client) emailCmd() *cobra.Command {
	var req dto.SendEmailRequest
	var key string
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Send an email through the delivery chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.postJSON("communication/email", req, key)
		},
	}
	cmd.Flags().StringSliceVar(&req.To, "to", nil, "Recipients")
	cmd.Flags().StringSliceVar(&req.CC, "cc", nil, "CC recipients")
	cmd.Flags().StringVar(&req.Subject, "subject", "", "Subject")
	cmd.Flags().StringVar(&req.Body, "body", "", "Body")
	cmd.Flags().BoolVar(&req.HTML, "html", false, "Send the body as HTML")
	cmd.Flags().StringVar(&key, "idempotency-key", "", "Idempotency key")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func (c *client) tokenCmd() *cobra.Command {
	var apiKey string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Exchange an API key for a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.postJSON("auth/token", dto.LoginRequest{APIKey: apiKey}, "")
		},
	}
	cmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("LEDGERLENS_API_KEY"), "API key")
	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, path string
	newMigrator := func() *postgres.Migrator {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		return postgres.NewMigrator(databaseURL, path, logger)
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the development schema",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL")
	cmd.PersistentFlags().StringVar(&path, "path", "migrations", "Migrations directory")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE:  func(cmd *cobra.Command, args []string) error { return newMigrator().Up() },
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE:  func(cmd *cobra.Command, args []string) error { return newMigrator().Down() },
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				v, dirty, err := newMigrator().Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %v\n", v, dirty)
				return nil
			},
		},
	)
	return cmd
}

func (c *client) do(method, path string, q url.Values, body io.Reader) (*http.Response, error) {
	target := strings.TrimRight(c.baseURL, "/") + "/api/v1/" + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := (&http.Client{Timeout: c.timeout}).Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	return resp, nil
}

func (c *client) getJSON(path string, q url.Values) error {
	resp, err := c.do(http.MethodGet, path, q, nil)
	if err != nil {
		return err
	}
	return c.print(resp)
}

func (c *client) postJSON(path string, payload any, idempotencyKey string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	target := strings.TrimRight(c.baseURL, "/") + "/api/v1/" + path
	req, err := http.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if idempotencyKey != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, idempotencyKey)
	}

	resp, err := (&http.Client{Timeout: c.timeout}).Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	return c.print(resp)
}

// print writes the envelope and fails on any error status.
func (c *client) print(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return envelopeError(resp.StatusCode, body)
	}

	var env dto.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	printJSON(c.out, env)
	return nil
}

func envelopeError(status int, body []byte) error {
	var env dto.Envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Message == "" {
		return fmt.Errorf("request failed (status %d): %s", status, truncate(string(body), 200))
	}
	return fmt.Errorf("%s (status %d, %s)", env.Message, status, env.ErrorKind)
}

func params(args []string) (url.Values, error) {
	q := url.Values{}
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, errors.New("parameters must be key=value, got " + a)
		}
		q.Add(k, v)
	}
	return q, nil
}

func printJSON(out io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "failed to format response: %v\n", err)
		return
	}
	fmt.Fprintln(out, string(data))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
