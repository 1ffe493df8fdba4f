package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/sosdash/internal/server"
	"github.com/KaramelBytes/sosdash/internal/snapshot"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	serveLoad string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: `Start the HTTP API. Upload a workbook with POST /api/upload (multipart field
"file"); queries answer from the most recent successful upload. Environment
variables may be placed in .env.local or .env.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, f := range []string{".env.local", ".env"} {
			_ = godotenv.Load(f)
		}
		// env files may change SOSDASH_ settings
		loadConfig()
		log.SetOutput(os.Stderr)

		c := settings()
		opt, err := c.Options()
		if err != nil {
			return err
		}
		sc := c.Server()
		if serveAddr != "" {
			sc.Addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := snapshot.New(opt)
		if serveLoad != "" {
			if _, err := store.LoadFile(ctx, serveLoad); err != nil {
				fmt.Fprintf(os.Stderr, "⚠ Warning: initial load failed: %v\n", err)
			}
		}
		return server.New(sc, store).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveLoad, "load", "", "workbook to load at startup")
}
