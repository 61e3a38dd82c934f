// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/talent-radar/internal/present"
	"github.com/pdiddy/talent-radar/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List candidates saved in the SQLite store",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(appCfg)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}
		fmt.Print(present.Candidates(records, types.Filters{}, present.CandidateOptions{
			Source:     appCfg.Store.Path,
			MaxRecords: limit,
		}))
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of candidates to list")
	historyCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(historyCmd)
}
