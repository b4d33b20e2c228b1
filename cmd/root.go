/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/tgfetch/TGFetch/internal/config"
	"github.com/tgfetch/TGFetch/internal/log"
	"github.com/tgfetch/TGFetch/internal/tlg"
	"github.com/tgfetch/TGFetch/internal/validate"
)

var rootCmd = &cobra.Command{
	Use:   "TGFetch",
	Short: "Bulk Telegram media downloader",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func buildConfigStore() config.IStore {
	rt := config.Runtime()
	return config.NewStore(rt.ConfigPath, config.DefaultMaxBackups)
}

func loadDocument(store config.IStore) (config.Document, error) {
	doc, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("can not load config: %w", err)
	}
	return doc, nil
}

func buildSessionConfig(doc config.Document) (*tlg.SessionConfig, error) {
	rt := config.Runtime()
	appID, err := validate.APIID(doc["api_id"])
	if err != nil {
		return nil, err
	}
	appHash, err := validate.APIHash(doc["api_hash"])
	if err != nil {
		return nil, err
	}
	return &tlg.SessionConfig{
		SocksProxy: proxyURL(doc),
		SessionDir: rt.SessionDir,
		AppID:      appID,
		AppHash:    appHash,
		Phone:      rt.Phone,
	}, nil
}

// proxyURL assembles a proxy URL from the config's proxy descriptor
// (scheme, hostname, port, optional username/password).
func proxyURL(doc config.Document) string {
	m := doc.Map("proxy")
	if len(m) == 0 {
		return ""
	}
	sub := config.Document(m)
	host := sub.Str("hostname")
	if host == "" {
		return ""
	}
	scheme := sub.Str("scheme")
	if scheme == "" {
		scheme = "socks5"
	}
	u := &url.URL{Scheme: scheme, Host: host}
	if port, err := sub.Int("port", 0); err == nil && port > 0 {
		u.Host = fmt.Sprintf("%s:%d", host, port)
	}
	if user := sub.Str("username"); user != "" {
		u.User = url.UserPassword(user, sub.Str("password"))
	}
	return u.String()
}

func buildTgClient(doc config.Document) (tlg.IClient, error) {
	sessCfg, err := buildSessionConfig(doc)
	if err != nil {
		return nil, err
	}
	return tlg.NewTgClient(sessCfg), nil
}

func setupLogger() {
	rt := config.Runtime()
	log.Setup(rt.LogLevel)
}
