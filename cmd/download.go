package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tgfetch/TGFetch/internal/config"
	"github.com/tgfetch/TGFetch/internal/meta"
	"github.com/tgfetch/TGFetch/internal/session"
	"github.com/tgfetch/TGFetch/internal/updates"
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Scan the configured chat and download new media",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogger()
		ll := logrus.WithField("at", "download")
		ll.Infof("%s v%s", meta.DeviceModel, meta.Version)
		ctx := context.Background()
		store := buildConfigStore()
		doc, err := loadDocument(store)
		if err != nil {
			logrus.WithError(err).Fatal("can not load config")
		}
		client, err := buildTgClient(doc)
		if err != nil {
			logrus.WithError(err).Fatal("can not build telegram client")
		}
		sess := session.NewSession(client, store, doc, session.Options{})
		summary, err := sess.Run(ctx)
		if summary != nil {
			fmt.Println(summary.Render())
			ll.Infof("download session complete: %s", summary)
			failed := doc.IntSlice("ids_to_retry")
			if len(failed) > 0 {
				ll.Infof("downloading of %d files failed. failed message ids are added to config file and will be downloaded on the next run", len(failed))
			}
		}
		if err != nil {
			logrus.WithError(err).Fatal("download session failed")
		}
		if config.Runtime().CheckUpdates {
			updates.Check(ctx)
		}
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}
