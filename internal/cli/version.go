package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"jvscan/internal/theme"
)

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the jvscan version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "%s %s %s\n",
				theme.Subtitle.Render("Java runtime scanner (jvscan)"),
				theme.Faint.Render("version"),
				theme.HighlightText(a.version))
			fmt.Fprintln(a.out, theme.Faint.Render(fmt.Sprintf("%s/%s, %s", runtime.GOOS, runtime.GOARCH, runtime.Version())))
		},
	}
}
