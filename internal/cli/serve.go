package cli

import (
	"github.com/spf13/cobra"

	"github.com/meet1785/shortclips/internal/logging"
	"github.com/meet1785/shortclips/internal/ports/adapters/ytdlp"
	"github.com/meet1785/shortclips/internal/server"
)

func runServe(cmd *cobra.Command, _ []string) error {
	settings, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}

	dl := ytdlp.New(settings.YtdlpPath, settings.DownloadsDir)
	srv := server.New(settings, dl, logging.WithComponent(log, "server"))
	return srv.Start()
}
