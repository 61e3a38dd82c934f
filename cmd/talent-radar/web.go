// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/talent-radar/internal/search"
)

var webCmd = &cobra.Command{
	Use:   "web <query...>",
	Short: "Search job boards for candidate profiles",
	Long: `Web sends one query to every configured job board (HeadHunter, Habr Career,
LinkedIn and Avito by default) through the search transport, restricting each
request to the board's domain. Boards are queried concurrently; a failing
board reports zero results without affecting the others.

The query may carry labels, as in "skills: Go, position: backend, город: Москва";
otherwise request phrases such as "find candidates" are dropped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWeb,
}

func runWeb(cmd *cobra.Command, args []string) error {
	raw := strings.Join(args, " ")

	agg, err := newAggregator(appCfg)
	if err != nil {
		return err
	}
	res := newService(nil, agg).WebSearch(cmd.Context(), raw)

	if out, _ := cmd.Flags().GetString("out"); out != "" && res.Available {
		if err := search.WriteResultFile(out, raw, res.Output); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Results saved to", out)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Print(res.Text)
	return nil
}

func init() {
	webCmd.Flags().Bool("json", false, "output the structured result as JSON")
	webCmd.Flags().String("out", "", "save the results to a YAML file")

	rootCmd.AddCommand(webCmd)
}
