package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/telco-tools/cdr-uplink/pkg/services/config"
	"github.com/telco-tools/cdr-uplink/pkg/store/history"

	"github.com/spf13/cobra"
)

type HistoryCmd struct {
	cfgPath string
	limit   int
	out     io.Writer
}

func NewHistoryCmd(out io.Writer) *cobra.Command {
	hc := &HistoryCmd{out: out}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent uploads",
		RunE:  hc.run,
	}

	cmd.Flags().StringVar(&hc.cfgPath, "config", "", "Path to the configuration file")
	cmd.Flags().IntVar(&hc.limit, "limit", 20, "Maximum number of entries to show")

	return cmd
}

func (hc *HistoryCmd) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(hc.cfgPath)
	if err != nil {
		return err
	}

	db, err := history.NewDB(history.Settings{DbPath: cfg.HistoryDB})
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := history.NewStore(db)
	if err != nil {
		return err
	}

	entries, err := store.List(cmd.Context(), hc.limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(hc.out, "no uploads recorded yet")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(hc.out, "%s  %-11s %-28s %8d B  %-15s HTTP %d  %.1f ms\n",
			e.CreatedAt.Format(time.RFC3339),
			e.Target,
			e.FileName,
			e.SizeBytes,
			e.Outcome,
			e.StatusCode,
			e.ElapsedMs,
		)
	}
	return nil
}
