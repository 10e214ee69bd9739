package cfg

// Rationalize derives fields from other fields after flags/env/file have
// all been merged, the way the rest of this codebase separates "is this
// combination allowed" (Validate) from "given an allowed combination,
// what follows from it" (Rationalize).
func Rationalize(c *Config) {
	// A rewarmer with no ring to pull from cannot do anything; the
	// explicit size default covers the common case, but the zero value
	// surviving both flags and a partial config file is still a silent
	// no-op to be avoided.
	if c.Keeper.LaunchRewarmer && c.Keeper.RewarmRingSize == 0 {
		c.Keeper.RewarmRingSize = GetDefaultKeeperConfig().RewarmRingSize
	}

	// Victim measurements only make sense as a repeating cycle; a caller
	// that enables victim checking without setting a cadence gets the
	// default rather than a single one-shot measurement.
	if c.Victim.Enabled && c.Victim.MeasureEvery == 0 {
		c.Victim.MeasureEvery = GetDefaultVictimConfig().MeasureEvery
	}

	// The meminfo reporter is redundant background noise once the
	// keeper's own status line is already reporting memory stats each
	// cycle; fold it into the keeper rather than running both loops.
	if c.Keeper.Enabled {
		c.Meminfo.Enabled = false
	}

	// The hogger has no separate on/off flag: a nonzero size is what
	// makes it meaningful, so enablement follows directly from size.
	c.Hogger.Enabled = c.Hogger.NonEvictableSetBytes > 0
}
