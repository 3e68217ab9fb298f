package cli

import (
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/image-evaluator/internal/infra/content"
)

func newCatalogCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the effective narrative catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := content.Default()
			if path != "" {
				var err error
				if catalog, err = content.Load(path); err != nil {
					return err
				}
			}
			data, err := catalog.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&path, "catalog", "", "Catalog YAML merged over the built-in one")
	return cmd
}
