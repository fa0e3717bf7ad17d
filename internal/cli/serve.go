// File path: internal/cli/serve.go
package cli

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ykosuru/cobolscan/internal/api"
	"github.com/ykosuru/cobolscan/internal/cobol"
	"github.com/ykosuru/cobolscan/internal/common"
	"github.com/ykosuru/cobolscan/internal/config"
	"github.com/ykosuru/cobolscan/internal/store"
)

var (
	serveAddr    string
	serveCatalog string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction engine over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8081", "listen address")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "", "SQLite catalog path for persisted runs")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := common.Logger()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	var catalog *store.Store
	if serveCatalog != "" {
		catalog, err = store.Open(serveCatalog)
		if err != nil {
			return err
		}
		defer catalog.Close()
	}
	server, err := api.NewServer(cobol.New(cfg), catalog)
	if err != nil {
		return err
	}
	reachable := serveAddr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("cli: server listening", "addr", serveAddr, "health", fmt.Sprintf("http://%s/healthz", reachable))
	return http.ListenAndServe(serveAddr, server)
}
