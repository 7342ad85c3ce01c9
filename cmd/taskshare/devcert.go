// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package main

import (
	"time"

	"github.com/spf13/cobra"

	tlscerts "github.com/taskshare/taskshare/internal/tls"
	"github.com/taskshare/taskshare/internal/xdg"
)

// devCertConfig holds flags for the devcert command.
type devCertConfig struct {
	dir      string
	hosts    []string
	validFor time.Duration
}

// NewDevCertCmd creates the devcert subcommand.
func NewDevCertCmd() *cobra.Command {
	cfg := &devCertConfig{}

	cmd := &cobra.Command{
		Use:   "devcert",
		Short: "Generate a self-signed HTTPS certificate for local development",
		Long: `Generate a self-signed certificate and key for serving the API over
HTTPS locally. Pass the printed paths to serve with --tls-cert and --tls-key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDevCert(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.dir, "dir", "", "output directory (default: XDG_CONFIG_HOME/taskshare/certs)")
	cmd.Flags().StringSliceVar(&cfg.hosts, "host", []string{"localhost", "127.0.0.1"}, "DNS name or IP address to include (repeatable)")
	cmd.Flags().DurationVar(&cfg.validFor, "valid-for", tlscerts.DefaultValidity, "certificate lifetime")

	return cmd
}

func runDevCert(cmd *cobra.Command, cfg *devCertConfig) error {
	dir := cfg.dir
	if dir == "" {
		dir = xdg.CertsDir()
	}

	cert, err := tlscerts.GenerateSelfSigned(cfg.hosts, cfg.validFor)
	if err != nil {
		return err
	}
	certPath, keyPath, err := cert.Save(dir)
	if err != nil {
		return err
	}

	cmd.Printf("Certificate: %s\n", certPath)
	cmd.Printf("Key:         %s\n", keyPath)
	cmd.Printf("Expires:     %s\n", cert.Certificate.NotAfter.Format(time.RFC3339))
	return nil
}
