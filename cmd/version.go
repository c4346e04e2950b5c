package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/pkg/ui"
)

// Version information - these can be set during build with ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  `Display the current version of folio along with build information.`,
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Fprintln(cmd.OutOrStdout(), ui.StyleTitle.Render("folio")+" - Blog Authoring Dashboard")
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderKeyValue("Version", Version))
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderKeyValue("Commit", GitCommit))
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderKeyValue("Build Date", BuildDate))
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderKeyValue("Go", runtime.Version()))
}
