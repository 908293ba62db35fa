package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/esang-logistics/spectra-cli/internal/store"
)

var (
	historyGrade string
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded identifications",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return eris.Wrap(err, "history: open store")
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "history: migrate store")
		}

		recs, err := st.ListIdentifications(ctx, store.HistoryFilter{
			GradeID: historyGrade,
			Limit:   historyLimit,
		})
		if err != nil {
			return eris.Wrap(err, "history: list identifications")
		}

		if historyJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWHEN\tAPI\tBSW\tTOP GRADE\tCONFIDENCE")
		for _, rec := range recs {
			api, bsw := 0.0, 0.0
			if rec.Sample.APIGravity != nil {
				api = *rec.Sample.APIGravity
			}
			if rec.Sample.BSW != nil {
				bsw = *rec.Sample.BSW
			}
			fmt.Fprintf(w, "%s\t%s\t%.1f\t%.2f\t%s\t%d\n",
				rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"), api, bsw, rec.TopGrade, rec.Confidence)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyGrade, "grade", "", "filter by top-match grade id")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max records to list")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(historyCmd)
}
