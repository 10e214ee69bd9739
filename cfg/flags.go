package cfg

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BindFlags registers every flag pgkeeper accepts on flagSet and binds
// each one to the viper key matching its yaml tag, so the resulting
// Config can be produced by a single viper.Unmarshal regardless of
// whether a value came from a flag, the environment, or a config file.
func BindFlags(flagSet *pflag.FlagSet) error {
	def := GetDefaultConfig()

	flagSet.Bool("keeper", def.Keeper.Enabled, "Run the resident keeper.")
	if err := viper.BindPFlag("keeper.enabled", flagSet.Lookup("keeper")); err != nil {
		return err
	}

	flagSet.Int64("target-page-count", def.Keeper.TargetPageCount, "Number of pages the resident pool should keep active.")
	if err := viper.BindPFlag("keeper.target-page-count", flagSet.Lookup("target-page-count")); err != nil {
		return err
	}

	flagSet.StringSlice("directory", nil, "Directory to scan for candidate files (repeatable).")
	if err := viper.BindPFlag("keeper.directories", flagSet.Lookup("directory")); err != nil {
		return err
	}

	flagSet.String("fillup-file", def.Keeper.FillupFile, "Single file used to pad the pool toward target-page-count.")
	if err := viper.BindPFlag("keeper.fillup-file", flagSet.Lookup("fillup-file")); err != nil {
		return err
	}

	flagSet.Bool("map-executable", def.Keeper.MapExecutable, "Request execute-permission mappings where possible.")
	if err := viper.BindPFlag("keeper.map-executable", flagSet.Lookup("map-executable")); err != nil {
		return err
	}

	flagSet.Bool("refresh-only-resident", def.Keeper.RefreshOnlyResident, "Each cycle, touch only pages already resident.")
	if err := viper.BindPFlag("keeper.refresh-only-resident", flagSet.Lookup("refresh-only-resident")); err != nil {
		return err
	}

	flagSet.Bool("launch-rewarmer", def.Keeper.LaunchRewarmer, "Run the background rewarmer alongside the refresher.")
	if err := viper.BindPFlag("keeper.launch-rewarmer", flagSet.Lookup("launch-rewarmer")); err != nil {
		return err
	}

	flagSet.Bool("rt-sched-refresher", def.Keeper.RTSchedRefresher, "Run the refresher thread under SCHED_FIFO at max priority.")
	if err := viper.BindPFlag("keeper.rt-sched-refresher", flagSet.Lookup("rt-sched-refresher")); err != nil {
		return err
	}

	flagSet.Duration("status-interval", def.Keeper.StatusInterval, "How often the keeper logs a status summary.")
	if err := viper.BindPFlag("keeper.status-interval", flagSet.Lookup("status-interval")); err != nil {
		return err
	}

	flagSet.Bool("pager", def.Pager.Enabled, "Run the transient pager alongside the keeper.")
	if err := viper.BindPFlag("pager.enabled", flagSet.Lookup("pager")); err != nil {
		return err
	}

	flagSet.String("pager-pool-file", def.Pager.PoolFile, "Pool file the transient pager pages through.")
	if err := viper.BindPFlag("pager.pool-file", flagSet.Lookup("pager-pool-file")); err != nil {
		return err
	}

	flagSet.Duration("pager-period", def.Pager.TargetPeriod, "Target per-page pagein period.")
	if err := viper.BindPFlag("pager.target-period", flagSet.Lookup("pager-period")); err != nil {
		return err
	}

	flagSet.Bool("victim", def.Victim.Enabled, "Run the victim-page eviction-latency checker.")
	if err := viper.BindPFlag("victim.enabled", flagSet.Lookup("victim")); err != nil {
		return err
	}

	flagSet.String("victim-probe-file", def.Victim.ProbeFile, "File the victim checker maps its probe page from.")
	if err := viper.BindPFlag("victim.probe-file", flagSet.Lookup("victim-probe-file")); err != nil {
		return err
	}

	flagSet.Bool("meminfo", def.Meminfo.Enabled, "Run the standalone meminfo reporter.")
	if err := viper.BindPFlag("meminfo.enabled", flagSet.Lookup("meminfo")); err != nil {
		return err
	}

	flagSet.Int64("non-evictable-set-size", 0, "Bytes of anonymous memory to fill and hold, competing for RAM with the pool.")
	if err := viper.BindPFlag("hogger.non-evictable-set-bytes", flagSet.Lookup("non-evictable-set-size")); err != nil {
		return err
	}

	flagSet.String("log-severity", def.Logging.Severity, "Logging severity: TRACE, DEBUG, INFO, WARNING, or ERROR.")
	if err := viper.BindPFlag("logging.severity", flagSet.Lookup("log-severity")); err != nil {
		return err
	}

	flagSet.String("log-format", def.Logging.Format, "Logging output format: text or json.")
	if err := viper.BindPFlag("logging.format", flagSet.Lookup("log-format")); err != nil {
		return err
	}

	flagSet.String("log-file", def.Logging.FilePath, "Path to a log file; empty means standard output.")
	if err := viper.BindPFlag("logging.file-path", flagSet.Lookup("log-file")); err != nil {
		return err
	}

	return nil
}
