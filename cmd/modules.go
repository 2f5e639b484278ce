package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"digicreative/internal/content"
	"digicreative/internal/render"
)

var modulesAll bool

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the creation modules",
	Long:  `List the content modules shown on the dashboard, or every module with --all.`,
	RunE:  runModules,
}

func init() {
	modulesCmd.Flags().BoolVarP(&modulesAll, "all", "a", false, "Include modules not shown on the dashboard")
	rootCmd.AddCommand(modulesCmd)
}

func runModules(cmd *cobra.Command, args []string) error {
	modules := content.Dashboard()
	if modulesAll {
		modules = content.Catalog()
	}
	fmt.Print(render.Catalog(modules))
	return nil
}
