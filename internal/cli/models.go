package cli

import "github.com/spf13/cobra"

func newModelsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "models",
		Aliases: []string{"list"},
		Short:   "List configured models",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig(cmd)
			if err != nil {
				return err
			}
			o.interaction().DisplayModelList(cfg.Models, cfg.DefaultModel)
			return nil
		},
	}
}
