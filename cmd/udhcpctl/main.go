package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/athena-dhcpd/udhcpd/internal/config"
	"github.com/athena-dhcpd/udhcpd/internal/dhcp"
	"github.com/athena-dhcpd/udhcpd/internal/lease"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "udhcpctl",
		Short:         "Inspect udhcpd configuration and lease files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newDumpLeasesCommand(time.Now))
	cmd.AddCommand(newCheckConfigCommand())
	cmd.AddCommand(newOptionsCommand())
	return cmd
}

func newDumpLeasesCommand(now func() time.Time) *cobra.Command {
	var (
		leaseFile  string
		configFile string
		remaining  bool
		absolute   bool
	)

	cmd := &cobra.Command{
		Use:   "dumpleases",
		Short: "Print the records of a lease file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if remaining && absolute {
				return fmt.Errorf("--remaining and --absolute are mutually exclusive")
			}

			// The storage mode and default path come from udhcpd.conf unless overridden.
			cfg := config.Defaults()
			if configFile != "" {
				var err error
				if cfg, err = config.Load(configFile); err != nil {
					return err
				}
			}
			if leaseFile == "" {
				leaseFile = cfg.LeaseFile
			}
			stored := cfg.Remaining
			switch {
			case remaining:
				stored = true
			case absolute:
				stored = false
			}

			f, err := os.Open(leaseFile)
			if err != nil {
				return fmt.Errorf("opening lease file: %w", err)
			}
			defer f.Close()

			recs, err := lease.ReadRecords(f)
			if err != nil {
				return err
			}
			return printLeases(cmd.OutOrStdout(), recs, stored, now())
		},
	}

	cmd.Flags().StringVarP(&leaseFile, "file", "f", "", "Lease file to read (default: lease_file from the config)")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "udhcpd.conf to take lease_file and remaining from")
	cmd.Flags().BoolVarP(&remaining, "remaining", "r", false, "Treat expiry fields as seconds remaining")
	cmd.Flags().BoolVarP(&absolute, "absolute", "a", false, "Treat expiry fields as absolute Unix times")
	return cmd
}

func printLeases(w io.Writer, recs []lease.Record, remaining bool, now time.Time) error {
	header := "Expires at"
	if remaining {
		header = "Expires in"
	}
	if _, err := fmt.Fprintf(w, "%-20s%-16s%s\n", "Mac Address", "IP-Address", header); err != nil {
		return err
	}

	for _, rec := range recs {
		l := rec.Lease(remaining, now)
		var expires string
		switch {
		case remaining && l.IsExpired(now):
			expires = "expired"
		case remaining:
			expires = l.Remaining(now).String()
		default:
			expires = l.Expires.UTC().Format(time.RFC3339)
		}
		if _, err := fmt.Fprintf(w, "%-20s%-16s%s\n", l.MAC(6), l.IP(), expires); err != nil {
			return err
		}
	}
	return nil
}

func newCheckConfigCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "checkconfig",
		Short: "Parse udhcpd.conf and print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if err := config.WriteConfig(cmd.OutOrStdout(), cfg); err != nil {
				return err
			}
			for _, w := range cfg.Warnings() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", config.DefaultConfigFile, "udhcpd.conf to check")
	return cmd
}

func newOptionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the DHCP options udhcpd.conf can set",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-10s%-6s%-8s%s\n", "Name", "Code", "Type", "List")
			for _, def := range dhcp.Schema() {
				if !def.Configurable {
					continue
				}
				list := "no"
				if def.List {
					list = "yes"
				}
				fmt.Fprintf(w, "%-10s%-6d%-8s%s\n", def.Name, def.Code, def.Type, list)
			}
			return nil
		},
	}
}
