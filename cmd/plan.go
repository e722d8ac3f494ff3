package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kilianp07/planfit/config"
	coreplan "github.com/kilianp07/planfit/core/plan"
	"github.com/kilianp07/planfit/core/planner"
	"github.com/kilianp07/planfit/infra/logger"
	"github.com/kilianp07/planfit/infra/store"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run one placement pass and print the schedule",
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pl, err := planner.New(cfg.Planner, nil, nil, logger.New("plan-command"))
	if err != nil {
		return err
	}
	st, err := store.New(cfg.Store)
	if err != nil {
		return fmt.Errorf("snapshot store: %w", err)
	}
	defer func() { _ = st.Close() }()

	if snap, ok, err := st.Load(); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	} else if ok {
		if err := pl.Restore(snap); err != nil {
			return err
		}
	}

	res := pl.Reschedule()
	printResult(cmd, res)
	return nil
}

func printResult(cmd *cobra.Command, res coreplan.Result) {
	placements := append([]coreplan.Placement(nil), res.Placements...)
	sort.Slice(placements, func(i, j int) bool { return placements[i].Start.Before(placements[j].Start) })

	if len(placements) == 0 {
		cmd.Println("nothing scheduled")
	}
	for _, p := range placements {
		cmd.Printf("%s - %s  %s\n", p.Start.Format("Mon 02 Jan 15:04"), p.End.Format("15:04"), p.Name)
	}
	if len(res.Unscheduled) > 0 {
		cmd.Println("\ncould not schedule:")
		for _, t := range res.Unscheduled {
			cmd.Printf("  %s (%d min, priority %d, due %s)\n",
				t.Name, t.DurationMinutes, t.Priority, t.Deadline.Format("Mon 02 Jan"))
		}
	}
}
