package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/digital-guild/guild/internal/daemon"
)

func init() {
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(workersCmd)
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List posted jobs",
	RunE:  runJobs,
}

func runJobs(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	jobs, err := d.Repos.Jobs.List()
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs posted.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tREWARD\tINCENTIVE\tTAGS")
	for _, j := range jobs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n",
			j.ID, j.Title, j.Reward, j.AIIncentiveReward, strings.Join(j.Tags, ","))
	}
	return w.Flush()
}

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "List workers and their trust scores",
	RunE:  runWorkers,
}

func runWorkers(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	workers, err := d.Repos.Workers.List()
	if err != nil {
		return err
	}
	if len(workers) == 0 {
		fmt.Println("No workers registered.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tADDRESS\tTRUST\tRANK")
	for _, wk := range workers {
		passport, rank, err := d.Passports.Lookup(wk.ID)
		if err != nil {
			fmt.Fprintf(w, "%d\t%s\t%s\t-\t-\n", wk.ID, wk.Name, wk.Address)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			wk.ID, wk.Name, wk.Address, passport.TrustScore, rank)
	}
	return w.Flush()
}
