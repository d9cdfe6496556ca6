package locmerge

import (
	"fmt"
	"os"
	"strings"

	"github.com/citizenwiki/locmerge/pkg/cache"
	"github.com/citizenwiki/locmerge/pkg/config"
	"github.com/citizenwiki/locmerge/pkg/core"
	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/filesystem"
	"github.com/citizenwiki/locmerge/pkg/variant"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRunCmd(g *globalOptions) *cobra.Command {
	var (
		variants []string
		useCache bool
	)

	cmd := &cobra.Command{
		Use:     "run",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.renderer(cmd)
			if err != nil {
				return err
			}
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if useCache {
				cfg.Sources.UseCache = true
			}

			summary, err := core.Run(cmd.Context(), core.Options{
				Config:   cfg,
				Variants: normalizeVariants(variants),
			})
			if summary != nil {
				if rerr := r.RenderSummary(summary); rerr != nil {
					return rerr
				}
			}
			return err
		},
	}

	cmd.Flags().StringSliceVar(&variants, "variant", nil, MsgFlagVariant)
	cmd.Flags().BoolVar(&useCache, "cache", false, MsgFlagCache)
	_ = cmd.RegisterFlagCompletionFunc("variant", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return variant.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newCheckCmd(g *globalOptions) *cobra.Command {
	var variants []string

	cmd := &cobra.Command{
		Use:     "check",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.renderer(cmd)
			if err != nil {
				return err
			}
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			report, err := core.Check(cmd.Context(), core.Options{
				Config:   cfg,
				Variants: normalizeVariants(variants),
			})
			if err != nil {
				return err
			}
			if err := r.RenderCheck(report); err != nil {
				return err
			}
			if report.Integrity != nil {
				return report.Integrity
			}
			if !report.OK() {
				return errors.Newf(errors.ErrConfigInvalid, "check failed: %d rule errors", len(report.RuleErrors))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&variants, "variant", nil, MsgFlagVariant)
	return cmd
}

func newExplainCmd(g *globalOptions) *cobra.Command {
	var variants []string

	cmd := &cobra.Command{
		Use:     "explain <key>",
		Short:   MsgExplainShort,
		Long:    MsgExplainLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.renderer(cmd)
			if err != nil {
				return err
			}
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			explanation, err := core.Explain(cmd.Context(), core.Options{
				Config:   cfg,
				Variants: normalizeVariants(variants),
			}, args[0])
			if err != nil {
				return err
			}
			return r.RenderExplanation(explanation)
		},
	}

	cmd.Flags().StringSliceVar(&variants, "variant", nil, MsgFlagVariant)
	return cmd
}

func newCacheCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Short:   MsgCacheShort,
		GroupID: "core",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import",
		Short: MsgCacheImportShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.renderer(cmd)
			if err != nil {
				return err
			}
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Paths.Sources == "" {
				return errors.New(errors.ErrConfigInvalid, "paths.sources is not set")
			}

			store, err := cache.Open(cmd.Context(), cfg.Paths.Cache)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			report, err := store.ImportDir(cmd.Context(), filesystem.NewOS(), cfg.Paths.Sources)
			if err != nil {
				return err
			}
			return r.RenderCacheImport(report)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: MsgCacheStatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.renderer(cmd)
			if err != nil {
				return err
			}
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			store, err := cache.Open(cmd.Context(), cfg.Paths.Cache)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			status, err := store.Status(cmd.Context())
			if err != nil {
				return err
			}
			return r.RenderCacheStatus(status)
		},
	})

	return cmd
}

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
	}

	var (
		output string
		force  bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: MsgConfigInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.renderer(cmd)
			if err != nil {
				return err
			}
			content, err := config.GenerateConfigContent()
			if err != nil {
				return err
			}
			if output == "-" {
				_, err := cmd.OutOrStdout().Write([]byte(content))
				return err
			}

			if _, err := os.Stat(output); err == nil && !force {
				return errors.Newf(errors.ErrInvalidInput, MsgConfigExists, output)
			}
			if err := filesystem.WriteFileAtomic(filesystem.NewOS(), output, []byte(content), 0644); err != nil {
				return err
			}
			log.Info().Str("path", output).Msg("Configuration written")
			return r.RenderMessage(fmt.Sprintf(MsgConfigWritten, output))
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", config.ConfigFileNames[0], MsgFlagOutput)
	initCmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	cmd.AddCommand(initCmd)

	return cmd
}

// normalizeVariants lower-cases and trims variant names from the command line
func normalizeVariants(names []string) []string {
	var out []string
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}
