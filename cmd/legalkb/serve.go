package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/cognicore/legalkb/internal/httpapi"
)

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := a.knowledgeBase(cmd.Context())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.HTTPAddr
			}

			stats := kb.Stats()
			log.Printf("legalkb: serving %d codes, %d articles on %s", stats.TotalCodes, stats.TotalArticles, addr)
			return httpapi.NewServer(kb, a.cfg.MaxResults).Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default http_addr from config)")

	return cmd
}
