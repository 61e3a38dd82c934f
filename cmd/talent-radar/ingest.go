// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/talent-radar/internal/store"
	"github.com/pdiddy/talent-radar/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Search candidate resumes posted in the Telegram channel",
	Long: `Ingest reads the most recent posts of the configured channel, parses the
ones that look like resumes, and prints those matching the filters. Parsed
posts are cached for an hour; --refresh forces a new read.

Filters combine with AND: --profession matches the position or any skill,
--level matches exactly (Junior, Middle, Senior, ...), --location matches
a substring.`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	var f types.Filters
	f.Profession, _ = cmd.Flags().GetString("profession")
	f.Level, _ = cmd.Flags().GetString("level")
	f.Location, _ = cmd.Flags().GetString("location")
	f.ForceRefresh, _ = cmd.Flags().GetBool("refresh")

	var st *store.Store
	if save, _ := cmd.Flags().GetBool("save"); save {
		s, err := openStore(appCfg)
		if err != nil {
			return err
		}
		defer s.Close()
		st = s
	}

	svc := newService(newCache(appCfg, st), nil)
	res := svc.IngestSearch(cmd.Context(), f)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Print(res.Text)
	return nil
}

func init() {
	ingestCmd.Flags().String("profession", "", "profession or skill, e.g. frontend or react")
	ingestCmd.Flags().String("level", "", "exact level: Intern, Trainee, Junior, Middle, Senior, Lead")
	ingestCmd.Flags().String("location", "", "location substring, e.g. Москва or remote")
	ingestCmd.Flags().Bool("refresh", false, "re-read the channel even if the cache is fresh")
	ingestCmd.Flags().Bool("json", false, "output the structured result as JSON")
	ingestCmd.Flags().Bool("save", false, "persist parsed candidates to the SQLite store")

	rootCmd.AddCommand(ingestCmd)
}
