// Package lcovsum wires the command line interface.
package lcovsum

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meza/lcov-summary/cmd/lcovsum/version"
	"github.com/meza/lcov-summary/internal/constants"
	"github.com/meza/lcov-summary/internal/environment"
	"github.com/meza/lcov-summary/internal/i18n"
	"github.com/meza/lcov-summary/internal/tui"
)

func Command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           constants.CommandName + " [path]",
		Short:         i18n.T("app.description"),
		Long:          i18n.T("cmd.report.long", i18n.Tvars{Data: &i18n.TData{"defaultPath": constants.DefaultReportPath}}),
		Version:       environment.AppVersion(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runReportCommand,
	}
	cobra.MousetrapHelpText = "" // allow the app to run in windows by clicking the exe

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SetHelpTemplate(rootCmd.HelpTemplate() + "\n" + i18n.T("cmd.help.more", i18n.Tvars{
		Data: &i18n.TData{"url": environment.HelpURL()},
	}) + "\n")

	registerReportFlags(rootCmd)
	rootCmd.AddCommand(version.Command())

	translateDefaultHelpFacilities(rootCmd)
	fixFlagUsageAlignment(rootCmd)

	return rootCmd
}

func registerReportFlags(rootCmd *cobra.Command) {
	persistent := rootCmd.PersistentFlags()
	persistent.String("config", constants.DefaultConfigPath, i18n.T("cmd.report.flag.config"))
	persistent.BoolP("quiet", "q", false, i18n.T("cmd.report.flag.quiet"))
	persistent.Bool("debug", false, i18n.T("cmd.report.flag.debug"))
	persistent.Bool("perf", false, i18n.T("cmd.report.flag.perf"))
	persistent.String("perf-out-dir", "", i18n.T("cmd.report.flag.perf_out_dir"))

	flags := rootCmd.Flags()
	flags.StringP("format", "f", "text", i18n.T("cmd.report.flag.format"))
	flags.Float64P("min", "m", 0, i18n.T("cmd.report.flag.min"))
	flags.StringArrayP("exclude", "x", nil, i18n.T("cmd.report.flag.exclude"))
	flags.BoolP("interactive", "i", false, i18n.T("cmd.report.flag.interactive"))
}

func translateDefaultHelpFacilities(rootCmd *cobra.Command) {
	subcommands := rootCmd.Commands()
	allCommands := make([]*cobra.Command, 0, len(subcommands)+1)
	allCommands = append(allCommands, rootCmd)
	allCommands = append(allCommands, subcommands...)

	for _, cmd := range allCommands {
		cmd.InitDefaultHelpFlag()
		flags := cmd.Flags()
		flags.Lookup("help").Usage = i18n.T("cmd.help.template", i18n.Tvars{
			Data: &i18n.TData{"command": cmd.Name()},
		})
	}

	rootCmd.InitDefaultVersionFlag()
	if versionFlag := rootCmd.Flags().Lookup("version"); versionFlag != nil {
		versionFlag.Usage = i18n.T("cmd.version.flag")
	}

	rootCmd.InitDefaultHelpCmd()
	helpCmd, _, e := rootCmd.Find([]string{"help"})

	if e == nil {
		helpCmd.Short = i18n.T("cmd.help.usage.short")
		helpCmd.Long = i18n.T("cmd.help.usage.long", i18n.Tvars{
			Data: &i18n.TData{"appName": rootCmd.Name()},
		})
		helpCmd.Run = func(c *cobra.Command, args []string) {
			cmd, _, e := c.Root().Find(args)
			if cmd == nil || e != nil || (cmd == c.Root() && len(args) > 0) {
				c.PrintErrln(i18n.T("cmd.help.error", i18n.Tvars{
					Data: &i18n.TData{"topic": fmt.Sprintf("%#q", args)},
				}) + "\n")
				cobra.CheckErr(c.Root().Usage())
			} else {
				cmd.InitDefaultHelpFlag()    // make possible 'help' flag to be shown
				cmd.InitDefaultVersionFlag() // make possible 'version' flag to be shown
				cobra.CheckErr(cmd.Help())
			}
		}
	}
}

func fixFlagUsageAlignment(rootCmd *cobra.Command) {
	width := tui.TerminalWidth(os.Stdout)
	usageTemplate := rootCmd.UsageTemplate()
	usageTemplate = strings.ReplaceAll(usageTemplate, ".FlagUsages", fmt.Sprintf(".FlagUsagesWrapped %d", width))
	rootCmd.SetUsageTemplate(usageTemplate)
}

// Execute runs the command line with args under ctx.
func Execute(ctx context.Context, args []string) error {
	rootCmd := Command()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
