package cfg

import "fmt"

// Validate checks c for configuration-time errors that must be caught
// before any component starts: these correspond to the Config error
// category and, surfaced by the caller, exit code 1.
func Validate(c *Config) error {
	if c.Keeper.Enabled {
		if err := validateKeeper(&c.Keeper); err != nil {
			return fmt.Errorf("keeper: %w", err)
		}
	}
	if c.Pager.Enabled {
		if err := validatePager(&c.Pager); err != nil {
			return fmt.Errorf("pager: %w", err)
		}
	}
	if c.Victim.Enabled {
		if err := validateVictim(&c.Victim); err != nil {
			return fmt.Errorf("victim: %w", err)
		}
	}
	if c.Meminfo.Enabled && c.Meminfo.Interval <= 0 {
		return fmt.Errorf("meminfo: interval must be positive")
	}
	if c.Hogger.NonEvictableSetBytes < 0 {
		return fmt.Errorf("hogger: non-evictable-set-bytes must not be negative")
	}
	if err := validateLogRotate(&c.Logging.Rotate); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := ParseSeverity(c.Logging.Severity); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func validateKeeper(k *KeeperConfig) error {
	if k.TargetPageCount <= 0 {
		return fmt.Errorf("target-page-count must be positive")
	}
	if len(k.Directories) == 0 && k.FillupFile == "" {
		return fmt.Errorf("at least one of directories or fillup-file must be set")
	}
	if k.LaunchRewarmer && k.RewarmRingSize <= 0 {
		return fmt.Errorf("rewarm-ring-size must be positive when launch-rewarmer is set")
	}
	if k.StatusInterval <= 0 {
		return fmt.Errorf("status-interval must be positive")
	}
	return nil
}

func validatePager(p *PagerConfig) error {
	if p.PoolFile == "" {
		return fmt.Errorf("pool-file is required")
	}
	if p.TargetPeriod <= 0 {
		return fmt.Errorf("target-period must be positive")
	}
	return nil
}

func validateVictim(v *VictimConfig) error {
	if v.ProbeFile == "" {
		return fmt.Errorf("probe-file is required")
	}
	if v.PollInterval <= 0 {
		return fmt.Errorf("poll-interval must be positive")
	}
	if v.MeasureEvery <= 0 {
		return fmt.Errorf("measure-every must be positive")
	}
	return nil
}

func validateLogRotate(r *LogRotateConfig) error {
	if r.MaxFileSizeMB <= 0 {
		return fmt.Errorf("max-file-size-mb must be at least 1")
	}
	if r.BackupFileCount < 0 {
		return fmt.Errorf("backup-file-count must be 0 (retain all) or positive")
	}
	return nil
}

// ParseSeverity validates a logging severity string without importing
// internal/logger here, to keep cfg free of a dependency on the
// component it configures.
func ParseSeverity(s string) error {
	switch s {
	case "TRACE", "DEBUG", "INFO", "WARNING", "ERROR":
		return nil
	default:
		return fmt.Errorf("invalid severity %q: must be one of TRACE, DEBUG, INFO, WARNING, ERROR", s)
	}
}
