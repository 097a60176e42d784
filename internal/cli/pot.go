package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/yairfalse/polmon/internal/output"
	"github.com/yairfalse/polmon/pkg/group"
)

var potCmd = &cobra.Command{
	Use:   "pot NAME...",
	Short: "Show the pot name and CI job encoded in group names",
	Example: `  polmon pot boundary_nodes_pre_master__boundary_nodes_pot-2784039865
  polmon pot -o json some_pot-2784039865--pseudo`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		names := make([]output.NameInfo, 0, len(args))
		for _, name := range args {
			g := group.New(name, nil, group.WithJobURLTemplate(cfg.CI.JobURLTemplate))
			info := output.NameInfo{
				Name:  name,
				Pot:   g.PotName(),
				Local: group.IsLocalName(strings.TrimSuffix(name, group.PseudoSuffix)),
			}
			if id, ok := g.JobReference(); ok {
				info.JobID = &id
				info.JobURL, _ = g.JobURL()
			}
			names = append(names, info)
		}

		formatter, err := output.NewFormatter(cfg.Output.Format, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return formatter.PrintNames(names)
	},
}
