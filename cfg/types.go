// Package cfg holds pgkeeper's configuration surface: plain structs with
// yaml tags, a default-value constructor per section, a validation pass,
// and a rationalization pass that derives fields from other fields —
// mirroring how configuration is modeled throughout the rest of this
// codebase rather than threading ad hoc flag lookups through components.
package cfg

import "time"

// Config is the full configuration tree. Each top-level field groups the
// options one component consumes.
type Config struct {
	Keeper    KeeperConfig    `yaml:"keeper"`
	Pager     PagerConfig     `yaml:"pager"`
	Victim    VictimConfig    `yaml:"victim"`
	Meminfo   MeminfoConfig   `yaml:"meminfo"`
	Hogger    HoggerConfig    `yaml:"hogger"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// KeeperConfig is the resident keeper's configuration surface.
type KeeperConfig struct {
	Enabled bool `yaml:"enabled"`

	TargetPageCount int64    `yaml:"target-page-count"`
	Directories     []string `yaml:"directories"`
	FillupFile      string   `yaml:"fillup-file"`

	MapExecutable       bool `yaml:"map-executable"`
	RefreshOnlyResident bool `yaml:"refresh-only-resident"`
	LaunchRewarmer      bool `yaml:"launch-rewarmer"`
	RTSchedRefresher    bool `yaml:"rt-sched-refresher"`

	RewarmRingSize int           `yaml:"rewarm-ring-size"`
	StatusInterval time.Duration `yaml:"status-interval"`
}

// PagerConfig configures the optional transient pager.
type PagerConfig struct {
	Enabled bool `yaml:"enabled"`

	PoolFile      string        `yaml:"pool-file"`
	MapExecutable bool          `yaml:"map-executable"`
	TargetPeriod  time.Duration `yaml:"target-period"`
}

// VictimConfig configures the optional victim-page latency checker.
type VictimConfig struct {
	Enabled bool `yaml:"enabled"`

	ProbeFile     string        `yaml:"probe-file"`
	MapExecutable bool          `yaml:"map-executable"`
	PollInterval  time.Duration `yaml:"poll-interval"`
	MeasureEvery  time.Duration `yaml:"measure-every"`
}

// MeminfoConfig configures the standalone meminfo reporter, used when
// the keeper is inactive.
type MeminfoConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// HoggerConfig configures the supplemental anonymous memory hogger.
type HoggerConfig struct {
	Enabled       bool `yaml:"enabled"`
	NonEvictableSetBytes int64 `yaml:"non-evictable-set-bytes"`
}

// LoggingConfig mirrors the shape of this codebase's logging
// configuration elsewhere: a severity threshold, an output format, and
// rotation parameters for the file sink.
type LoggingConfig struct {
	Severity string             `yaml:"severity"`
	Format   string             `yaml:"format"`
	FilePath string             `yaml:"file-path"`
	Rotate   LogRotateConfig    `yaml:"log-rotate"`
}

// LogRotateConfig configures lumberjack-backed log rotation.
type LogRotateConfig struct {
	MaxFileSizeMB  int  `yaml:"max-file-size-mb"`
	BackupFileCount int `yaml:"backup-file-count"`
	Compress        bool `yaml:"compress"`
}
