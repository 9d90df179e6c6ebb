package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aaronopela/dtools/config"
	"github.com/aaronopela/dtools/delegate"
)

func newEntitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities",
		Short: "Manage Doctrine entities",
	}
	cmd.AddCommand(newEntitiesRefreshCmd("refresh"))
	return cmd
}

func newEntitiesRefreshCmd(name string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " [name]",
		Short: "Regenerate Doctrine entities",
		Long: `Run doctrine:generate:entities for a bundle, namespace or entity
(default: the configured bundle).

--no-backup wins over --force-backup; without either the configured
default applies.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(config.EnvDev)
			if err != nil {
				return err
			}
			command, err := p.cfg.EntitiesCommand()
			if err != nil {
				return err
			}

			req := delegate.EntityRequest{
				Name:     bundleArg(args, p.cfg),
				NoBackup: resolvePair(cmd.Flags(), "no-backup", "force-backup", p.cfg.Entities.Defaults.NoBackup),
			}
			if req.Name == "" {
				return fmt.Errorf("no bundle, namespace or entity given and no bundle configured")
			}

			gen := &delegate.EntityGenerator{Command: command, Runner: p.runner()}
			if err := gen.Generate(cmd.Context(), req); err != nil {
				return err
			}
			logSuccess("Done!")
			return nil
		},
	}

	cmd.Flags().Bool("no-backup", false, "Do not keep backups of the generated files")
	cmd.Flags().Bool("force-backup", false, "Keep backups of the generated files")

	return cmd
}
