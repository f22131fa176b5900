package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/hooks"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/web"
)

var (
	renderTimeout  time.Duration
	cacheStaleTime time.Duration
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the web front end",
	Long:  "Commands related to the HTML front end, which queries the gRPC server.",
}

var runWebCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the web front end",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient()
		if err != nil {
			return err
		}
		defer c.Close()

		if !cfg.Development {
			gin.SetMode(gin.ReleaseMode)
		}
		cache := hooks.NewMemoryCache(hooks.WithStaleTime(cacheStaleTime))
		engine := web.New(hooks.New(c, cache), logger, web.Options{
			RenderTimeout:  renderTimeout,
			SearchDebounce: cfg.SearchDebounce,
		})
		srv := &http.Server{Addr: cfg.WebAddr, Handler: engine, ReadHeaderTimeout: 10 * time.Second}

		go func() {
			<-cmd.Context().Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()

		logger.Info("starting web front end",
			zap.String("addr", cfg.WebAddr), zap.String("server", dialCfg.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {

	runWebCmd.Flags().StringVarP(&cfg.WebAddr,
		"listen", "l", cfg.WebAddr, "Address to serve HTTP on")

	runWebCmd.Flags().DurationVar(&renderTimeout,
		"render-timeout", 2*time.Second, "How long a page waits for data before rendering its loading state")

	runWebCmd.Flags().DurationVar(&cacheStaleTime,
		"cache-stale-time", 0, "How long a cached query is served before it is refetched")

	runWebCmd.Flags().DurationVar(&cfg.SearchDebounce,
		"search-debounce", cfg.SearchDebounce, "Quiet period of the search box")

	runWebCmd.Flags().AddFlagSet(dialFlags())

	webCmd.AddCommand(runWebCmd)
	rootCmd.AddCommand(webCmd)
}
