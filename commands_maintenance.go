package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"library-persistence/library"

	"github.com/spf13/cobra"
)

var (
	sweepSchedule string
	sweepOnce     bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema",
	// Tables are created by the root pre-run; this only reports.
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Database ready at %s (%d tables)\n", db.Path(), len(library.TableNames()))
		return nil
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables in creation order",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := library.TableNames()
		if ok, err := printJSON(names); ok {
			return err
		}
		for i, name := range names {
			fmt.Printf("%2d. %s\n", i+1, name)
		}
		return nil
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Mark overdue loans and expire stale reservations",
	Long: `sweep runs the overdue sweep. With --once it runs a single pass and exits;
otherwise it runs on the cron schedule from --schedule (or sweep.schedule in
the config) until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		schedule := cfg.Sweep.Schedule
		if sweepSchedule != "" {
			schedule = sweepSchedule
		}
		s, err := library.NewSweeper(mgr, schedule, log)
		if err != nil {
			return err
		}

		if sweepOnce {
			res, err := s.RunOnce(ctxOf(cmd))
			if err != nil {
				return err
			}
			if ok, err := printJSON(res); ok {
				return err
			}
			fmt.Printf("Marked %d loans overdue, expired %d reservations\n", res.Overdue, res.Expired)
			if res.Skipped > 0 {
				fmt.Printf("Skipped %d loans with unreadable due dates\n", res.Skipped)
			}
			return nil
		}

		ctx, stop := signal.NotifyContext(ctxOf(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s.Start()
		<-ctx.Done()
		log.Info().Msg("shutting down sweeper")

		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.Stop(stopCtx)
	},
}

func init() {
	sweepCmd.Flags().StringVar(&sweepSchedule, "schedule", "", "Cron schedule, e.g. \"0 2 * * *\" or \"@hourly\"")
	sweepCmd.Flags().BoolVar(&sweepOnce, "once", false, "Run one sweep and exit")
	rootCmd.AddCommand(initCmd, tablesCmd, sweepCmd)
}
