package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chuckie/llmc/internal/adapters/git"
	"github.com/chuckie/llmc/internal/adapters/llm"
	"github.com/chuckie/llmc/internal/app"
	"github.com/chuckie/llmc/internal/config"
	"github.com/chuckie/llmc/internal/domain"
	"github.com/chuckie/llmc/internal/observability"
	"github.com/chuckie/llmc/internal/telemetry"
	"github.com/chuckie/llmc/internal/ui"
)

type options struct {
	model     string
	modelList bool
	limit     int
	cfgPath   string
	verbose   bool
	plain     bool
	trace     bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	closeLog func()
}

// NewRootCmd builds the llmc command tree bound to the given streams.
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	o := &options{in: in, out: out, errOut: errOut, closeLog: func() {}}

	cmd := &cobra.Command{
		Use:   "llmc",
		Short: "Generate a commit message for staged changes with an LLM",
		Long: "llmc reads the staged diff of the current repository, asks the configured " +
			"model for a commit message and commits it once you confirm.",
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var mirror io.Writer
			if o.verbose {
				mirror = o.errOut
			}
			cleanup, err := observability.Init(observability.DefaultLogPath(), mirror)
			if err != nil && o.verbose {
				fmt.Fprintf(o.errOut, "llmc: error log unavailable: %v\n", err)
			}
			o.closeLog = cleanup
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			o.closeLog()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetGlobalNormalizationFunc(normalizeFlag)

	cmd.PersistentFlags().StringVarP(&o.cfgPath, "config", "c", "", "config file path (default: $LLMC_CONFIG or the user config dir)")
	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "mirror the error log to stderr")
	cmd.PersistentFlags().BoolVar(&o.plain, "plain", false, "line-based prompts even on a terminal")
	cmd.Flags().StringVarP(&o.model, "model", "m", "", "model name from the config (default: $LLMC_MODEL or default_model)")
	cmd.Flags().BoolVar(&o.modelList, "model-list", false, "list configured models and exit")
	cmd.Flags().IntVar(&o.limit, "limit", 0, "override token_limit for this run")
	cmd.Flags().BoolVar(&o.trace, "trace", false, "print pipeline spans to stderr")

	cmd.AddCommand(newModelsCmd(o), newConfigCmd(o))
	return cmd
}

// normalizeFlag lets --model_list and --model-list mean the same flag.
func normalizeFlag(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// Execute runs llmc against the process streams. The error has already
// been printed when non-nil.
func Execute(ctx context.Context) error {
	cmd := NewRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func (o *options) run(cmd *cobra.Command) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}
	interaction := o.interaction()

	if o.modelList {
		interaction.DisplayModelList(cfg.Models, cfg.DefaultModel)
		return nil
	}

	model, err := cfg.ActiveModel(o.model)
	if err != nil {
		return err
	}
	backend, err := llm.New(model)
	if err != nil {
		return err
	}
	if f, ok := o.errOut.(*os.File); ok && isTerminal(f) && !o.plain {
		backend = ui.WithSpinner(backend, f, fmt.Sprintf("asking %s (%s)...", model.Name, model.ModelID))
	}
	observability.Logger().Printf("cli: model=%s provider=%s config=%s", model.Name, model.Provider, cfg.Path)

	if o.trace {
		shutdown, err := telemetry.Setup(o.errOut)
		if err != nil {
			return err
		}
		defer func() { _ = shutdown(context.WithoutCancel(cmd.Context())) }()
	}

	wd, err := os.Getwd()
	if err != nil {
		return domain.Errorf(domain.KindIO, err, "get working directory")
	}

	application := app.NewApp(cfg, git.NewRepository(), backend, interaction)
	_, err = application.Run(cmd.Context(), wd)
	return err
}

// loadConfig resolves, loads and applies command-line overrides.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, created, err := config.ResolvePath(o.cfgPath)
	if err != nil {
		return nil, err
	}
	if created {
		fmt.Fprintf(o.errOut, "Created default config at %s\n", path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("limit"); f != nil && f.Changed {
		if o.limit <= 0 {
			return nil, domain.Errorf(domain.KindConfig, nil, "--limit must be positive, got %d", o.limit)
		}
		cfg.TokenLimit = o.limit
	}
	return cfg, nil
}
