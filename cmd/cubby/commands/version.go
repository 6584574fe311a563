package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build details",
	Long:  `Print the cubby version along with the commit, build date and Go runtime it was built with.`,
	Run: func(cmd *cobra.Command, args []string) {
		if versionShort {
			fmt.Println(buildVersion)
			return
		}

		fmt.Printf("cubby %s\n", buildVersion)
		for _, row := range [][2]string{
			{"Commit", buildCommit},
			{"Built", buildDate},
			{"Go version", runtime.Version()},
			{"OS/Arch", runtime.GOOS + "/" + runtime.GOARCH},
		} {
			fmt.Printf("  %-11s %s\n", row[0]+":", row[1])
		}
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the bare version number")
}
