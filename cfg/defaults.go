package cfg

import "time"

// GetDefaultConfig returns the configuration used when nothing has been
// overridden by flags, environment, or a config file yet.
func GetDefaultConfig() Config {
	return Config{
		Keeper:  GetDefaultKeeperConfig(),
		Pager:   GetDefaultPagerConfig(),
		Victim:  GetDefaultVictimConfig(),
		Meminfo: GetDefaultMeminfoConfig(),
		Hogger:  GetDefaultHoggerConfig(),
		Logging: GetDefaultLoggingConfig(),
	}
}

func GetDefaultKeeperConfig() KeeperConfig {
	return KeeperConfig{
		TargetPageCount: 16384,
		RewarmRingSize:  256,
		StatusInterval:  500 * time.Millisecond,
	}
}

func GetDefaultPagerConfig() PagerConfig {
	return PagerConfig{
		TargetPeriod: time.Millisecond,
	}
}

func GetDefaultVictimConfig() VictimConfig {
	return VictimConfig{
		PollInterval: time.Millisecond,
		MeasureEvery: time.Second,
	}
}

func GetDefaultMeminfoConfig() MeminfoConfig {
	return MeminfoConfig{
		Interval: 500 * time.Millisecond,
	}
}

func GetDefaultHoggerConfig() HoggerConfig {
	return HoggerConfig{}
}

func GetDefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Severity: "INFO",
		Format:   "text",
		Rotate: LogRotateConfig{
			MaxFileSizeMB:   512,
			BackupFileCount: 10,
			Compress:        true,
		},
	}
}
