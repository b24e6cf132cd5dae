package cmd

import (
	"fmt"
	"sort"

	tomlrepo "github.com/bnema/diva/internal/adapters/repo/toml"
	"github.com/bnema/diva/internal/domain"
	"github.com/spf13/cobra"
)

func newCommandsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "Manage the command code table",
	}

	cmd.AddCommand(
		newCommandsListCmd(app),
		newCommandsSetCmd(app),
		newCommandsRemoveCmd(app),
	)

	return cmd
}

func newCommandsListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List command codes and their phrases",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := commandRepository(app)
			if err != nil {
				return err
			}
			table, err := repo.Load(cmd.Context())
			if err != nil {
				return err
			}

			entries := table.Entries()
			codes := make([]string, 0, len(entries))
			for code := range entries {
				codes = append(codes, code)
			}
			sort.Strings(codes)

			for _, code := range codes {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", code, entries[code]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newCommandsSetCmd(app *app) *cobra.Command {
	var code string
	var phrase string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Map a command code to a phrase",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := commandRepository(app)
			if err != nil {
				return err
			}
			return repo.Set(cmd.Context(), code, phrase)
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Command code typed on stdin")
	cmd.Flags().StringVar(&phrase, "phrase", "", "Phrase sent to the assistant")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("phrase")

	return cmd
}

func newCommandsRemoveCmd(app *app) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a command code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := commandRepository(app)
			if err != nil {
				return err
			}
			return repo.Remove(cmd.Context(), code)
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Command code")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func commandRepository(app *app) (*tomlrepo.CommandRepository, error) {
	repo, err := tomlrepo.NewCommandRepository(app.viper.GetString(keyCommands), domain.DefaultCommands)
	if err != nil {
		return nil, fmt.Errorf("wire command repository: %w", err)
	}
	return repo, nil
}
