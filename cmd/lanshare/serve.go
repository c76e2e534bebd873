package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/sagarc03/lanshare"
	"github.com/sagarc03/lanshare/config"
	"github.com/sagarc03/lanshare/control"
	"github.com/sagarc03/lanshare/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags] [file...]",
	Short: "Start the file server",
	Long: `Start the file server and share the given files in addition to
the ones already in the catalog and the manifest.

Examples:
  # Share two files on port 8080
  lanshare serve ~/Movies/holiday.mp4 ~/report.pdf

  # Require a login, asking for it interactively
  lanshare serve --ask-credentials

  # Pick a free port and print a QR code for phones
  lanshare serve --port 0 --qr`,
	RunE: runServe,
}

var (
	serveAskCredentials bool
	serveQR             bool
)

func init() {
	serveCmd.Flags().String("host", "", "bind address (default: all interfaces)")
	serveCmd.Flags().Int("port", 8080, "listen port, 0 picks a free one")
	serveCmd.Flags().String("username", "", "Basic auth username")
	serveCmd.Flags().String("password", "", "Basic auth password")
	serveCmd.Flags().String("manifest", "", "YAML manifest of files to share")
	serveCmd.Flags().Bool("control", false, "enable the control API")
	serveCmd.Flags().String("control-addr", "", "control API listen address (default: 127.0.0.1:8081)")
	serveCmd.Flags().BoolVar(&serveAskCredentials, "ask-credentials", false, "prompt for the Basic auth username and password")
	serveCmd.Flags().BoolVar(&serveQR, "qr", false, "print a QR code for the first network URL")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs := server.NewFileServer(server.Config{
		Host:        cfg.Server.Host,
		IdleTimeout: time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Logger:      slog.Default(),
	})
	defer func() { _ = fs.Close() }()

	username, password := cfg.Auth.Username, cfg.Auth.Password
	if serveAskCredentials {
		if username, err = promptText("Username", username); err != nil {
			return err
		}
		if password, err = promptSecret("Password"); err != nil {
			return err
		}
	}
	fs.SetCredentials(username, password)

	repo, closeCatalog, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCatalog()

	catalog, err := lanshare.NewCatalog(repo, fs.Registry(), slog.Default())
	if err != nil {
		return err
	}

	if err := loadShares(ctx, catalog, cfg.Manifest, args); err != nil {
		return err
	}

	if err := fs.Start(cfg.Server.Port); err != nil {
		return err
	}

	printURLs(cmd, cfg.Server.Host, fs.Port(), fs.AuthEnabled())

	var controlSrv *http.Server
	if cfg.Control.Enabled {
		controlSrv = startControl(cfg, fs, catalog)
	}

	<-ctx.Done()
	slog.Info("shutting down")

	if controlSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := controlSrv.Shutdown(shutdownCtx); err != nil {
			slog.Error("control api shutdown error", "err", err)
		}
	}

	fs.Stop()
	return nil
}

// loadShares registers catalog entries, then the manifest, then args.
func loadShares(ctx context.Context, catalog *lanshare.Catalog, manifestPath string, paths []string) error {
	n, err := catalog.Load(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("catalog loaded", "files", n)
	}

	if manifestPath != "" {
		m, err := lanshare.LoadManifest(manifestPath)
		if err != nil {
			return err
		}

		for _, e := range m.Files {
			if _, err := catalog.Share(ctx, e.ShareRequest()); err != nil {
				return fmt.Errorf("manifest %s: %w", manifestPath, err)
			}
		}
	}

	for _, p := range paths {
		if _, err := catalog.Share(ctx, lanshare.ShareRequest{Path: p}); err != nil {
			return err
		}
	}

	return nil
}

func startControl(cfg *config.Config, fs *server.FileServer, catalog *lanshare.Catalog) *http.Server {
	handler := control.NewHandler(control.HandlerConfig{
		TokenHash: cfg.Control.TokenHash,
		CORS:      cfg.Control.CORS,
		Sharer:    catalog,
		Logger:    slog.Default(),
	}, fs, cfg.Server.Port)

	srv := &http.Server{
		Addr:              cfg.Control.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if cfg.Control.TokenHash == "" {
		slog.Warn("control api has no token; anyone on this host can drive the server", "addr", cfg.Control.Addr)
	}

	go func() {
		slog.Info("control api listening", "addr", cfg.Control.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("control api error", "err", err)
		}
	}()

	return srv
}

func printURLs(cmd *cobra.Command, host string, port int, auth bool) {
	out := cmd.OutOrStdout()

	var ips []net.IP
	if ip := net.ParseIP(host); ip != nil && !ip.IsUnspecified() {
		ips = []net.IP{ip}
	} else {
		var err error
		if ips, err = server.LocalIPv4s(); err != nil {
			slog.Warn("list network interfaces", "err", err)
		}
	}

	urls := server.URLs(ips, port)
	if len(urls) == 0 {
		urls = []string{fmt.Sprintf("http://localhost:%d", port)}
	}

	_, _ = fmt.Fprintln(out, "Serving on:")
	for _, u := range urls {
		_, _ = fmt.Fprintf(out, "  %s\n", u)
	}
	if auth {
		_, _ = fmt.Fprintln(out, "Basic auth is enabled.")
	}

	if !serveQR {
		return
	}

	qr, err := qrcode.New(urls[0], qrcode.Medium)
	if err != nil {
		slog.Warn("render qr code", "err", err)
		return
	}
	_, _ = fmt.Fprintln(out, qr.ToSmallString(false))
}
