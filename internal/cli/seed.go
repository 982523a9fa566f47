package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digital-guild/guild/internal/daemon"
	"github.com/digital-guild/guild/internal/infra/seed"
)

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo data into the store",
	Long:  `Load demo workers, requesters, jobs, and subsidies. Idempotent: a second run is a no-op.`,
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}
	// Seeding is driven here, not at startup.
	cfg.Storage.SeedDemo = false

	d, err := daemon.NewWithConfig(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	ran, err := seed.Load(d.Store, d.Repos, d.Wallet, d.Market)
	if err != nil {
		return err
	}
	if !ran {
		fmt.Println("Store already seeded.")
		return nil
	}
	fmt.Println("Demo data loaded.")
	return nil
}
