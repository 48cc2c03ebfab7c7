package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chuckie/llmc/internal/adapters/llm"
	"github.com/chuckie/llmc/internal/config"
	"github.com/chuckie/llmc/internal/observability"
)

func newConfigCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}
	cmd.AddCommand(newConfigPathCmd(o), newConfigInitCmd(o), newConfigShowCmd(o))
	return cmd
}

func newConfigPathCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.ResolvePath(o.cfgPath)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(o.errOut, "Created default config at %s\n", path)
			}
			fmt.Fprintln(o.out, path)
			return nil
		},
	}
}

func newConfigInitCmd(o *options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in defaults to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := initPath(o.cfgPath)
			if err != nil {
				return err
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintf(o.out, "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// initPath is where `config init` writes: --config, LLMC_CONFIG, then the
// per-user default.
func initPath(flag string) (string, error) {
	if p := strings.TrimSpace(flag); p != "" {
		return p, nil
	}
	if p := strings.TrimSpace(os.Getenv("LLMC_CONFIG")); p != "" {
		return p, nil
	}
	return config.DefaultConfigPath()
}

func newConfigShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active settings and credential status per model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig(cmd)
			if err != nil {
				return err
			}

			fmt.Fprintf(o.out, "config:             %s\n", cfg.Path)
			fmt.Fprintf(o.out, "default_model:      %s\n", cfg.DefaultModel)
			fmt.Fprintf(o.out, "token_limit:        %d\n", cfg.TokenLimit)
			fmt.Fprintf(o.out, "strict_token_limit: %t\n", cfg.StrictTokenLimit)
			fmt.Fprintf(o.out, "redact_secrets:     %t\n", cfg.RedactSecrets)
			fmt.Fprintf(o.out, "request_timeout:    %s\n", cfg.Timeout)
			fmt.Fprintf(o.out, "error_log:          %s\n", logPath())
			fmt.Fprintln(o.out, "models:")
			for _, m := range cfg.Models {
				fmt.Fprintf(o.out, "  %s\t%s/%s\t%s\n", m.Name, m.Provider, m.ModelID, llm.KeyStatus(m))
			}
			return nil
		},
	}
}

func logPath() string {
	if p := observability.Path(); p != "" {
		return p
	}
	return "(disabled)"
}
