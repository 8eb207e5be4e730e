package cmd

import (
	"fmt"
	"runtime"

	"github.com/msto63/mIDE/pkg/core/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Zeigt die Version an",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "mIDE v%s\n", version.Platform)
		fmt.Fprintf(out, "  Git Commit: %s\n", version.GitCommit)
		fmt.Fprintf(out, "  Build Date: %s\n", version.BuildDate)
		fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Fprintln(out, "  Komponenten:")
		for _, name := range []string{"lexer", "parser", "server", "inspector"} {
			fmt.Fprintf(out, "    %-10s %s\n", name, version.ComponentVersion(name))
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
