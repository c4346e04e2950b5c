package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/internal/server"
	"github.com/kamal-hamza/folio/pkg/ui"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the published-posts grid and the posts API",
	Long: `Serve the published-posts grid and a read-only posts API.

  /                 grid of posts from the remote feed
  /posts/:id        a single feed post
  /api/posts/       published local posts (paginated, ?search=, ?category=)
  /api/posts/:id/   a single local post
  /healthz          health check

The grid is refreshed on feed_refresh_schedule (cron syntax).

Examples:
  folio serve
  folio serve --addr 127.0.0.1:8001`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := appConfig.ServeAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(server.Config{
		Addr:            addr,
		SiteTitle:       appConfig.SiteTitle,
		Author:          appConfig.AuthorName,
		RefreshSchedule: appConfig.FeedRefreshSchedule,
	}, postStore, feedService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(ui.FormatRocket("Serving on " + addr))
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	fmt.Println(ui.FormatInfo("Server stopped"))
	return nil
}
