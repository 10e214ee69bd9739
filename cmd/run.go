package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"pgkeeper/cfg"
	"pgkeeper/internal/apperr"
	"pgkeeper/internal/clock"
	"pgkeeper/internal/faultshield"
	"pgkeeper/internal/hogger"
	"pgkeeper/internal/keeper"
	"pgkeeper/internal/logger"
	"pgkeeper/internal/meminfo"
	"pgkeeper/internal/pager"
	"pgkeeper/internal/victim"
)

func exitCodeFor(err error) int { return apperr.ExitCode(err) }

// run wires the configured components together and blocks until ctx is
// cancelled (SIGINT/SIGTERM) or a runtime initialization failure occurs.
func run(parent context.Context, c *cfg.Config) error {
	asyncOut, err := initLogging(&c.Logging)
	if err != nil {
		return apperr.Wrap(apperr.Config, err)
	}
	if asyncOut != nil {
		defer asyncOut.Close()
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stopBackstop := faultshield.InstallBackstop(func() {
		logger.Errorf("keeper: SIGBUS outside a guarded access, exiting")
		os.Exit(apperr.ExitCode(apperr.New(apperr.Host, "unguarded SIGBUS")))
	})
	defer stopBackstop()

	clk := clock.RealClock{}

	var hog *hogger.Hog
	if c.Hogger.Enabled {
		h, err := hogger.Fill(int(c.Hogger.NonEvictableSetBytes))
		if err != nil {
			return apperr.Wrap(apperr.Resource, err)
		}
		hog = h
		defer hog.Release()
	}

	var wg sync.WaitGroup

	if c.Keeper.Enabled {
		k, err := buildKeeper(&c.Keeper, clk)
		if err != nil {
			return apperr.Wrap(apperr.Host, err)
		}
		k.Start(ctx)
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-ctx.Done()
			k.Stop()
		}()
	}

	if c.Pager.Enabled {
		p, err := pager.New(c.Pager.PoolFile, c.Pager.TargetPeriod, c.Pager.MapExecutable, clk)
		if err != nil {
			return apperr.Wrap(apperr.Host, err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer p.Close()
			p.Run(ctx)
		}()
	}

	if c.Victim.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runVictimLoop(ctx, &c.Victim, clk)
		}()
	}

	if c.Meminfo.Enabled {
		rep := meminfo.NewReporter(c.Meminfo.Interval, clk)
		wg.Add(1)
		go func() {
			defer wg.Done()
			rep.Run(ctx)
		}()
	}

	<-ctx.Done()
	wg.Wait()
	return nil
}

func buildKeeper(kc *cfg.KeeperConfig, clk clock.Clock) (*keeper.Keeper, error) {
	k := keeper.New(keeper.Config{
		TargetPageCount:     kc.TargetPageCount,
		Directories:         kc.Directories,
		FillupFile:          kc.FillupFile,
		MapExecutable:       kc.MapExecutable,
		RefreshOnlyResident: kc.RefreshOnlyResident,
		LaunchRewarmer:      kc.LaunchRewarmer,
		RTSchedRefresher:    kc.RTSchedRefresher,
		RewarmRingSize:      kc.RewarmRingSize,
		StatusInterval:      kc.StatusInterval,
	}, clk)

	if err := k.Scan(kc.Directories); err != nil {
		return nil, err
	}
	if kc.FillupFile != "" {
		if err := k.LoadFillup(kc.FillupFile); err != nil {
			return nil, err
		}
	}
	return k, nil
}

func runVictimLoop(ctx context.Context, vc *cfg.VictimConfig, clk clock.Clock) {
	checker := victim.New(vc.ProbeFile, vc.MapExecutable, vc.PollInterval, clk)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		result, err := checker.MeasureOne()
		if err != nil {
			logger.Warnf("victim: %v", err)
		} else {
			logger.Infof("victim: %s", result.String())
		}
		select {
		case <-ctx.Done():
			return
		case <-clk.After(vc.MeasureEvery):
		}
	}
}

// initLogging points the package logger at standard output, or at a
// rotating file plus an async writer in front of it when a file path is
// configured, so logging from the refresher's hot path never blocks on
// disk I/O. The returned AsyncLogger, if non-nil, must be closed by the
// caller on shutdown to flush any queued, not-yet-written log lines.
func initLogging(lc *cfg.LoggingConfig) (*logger.AsyncLogger, error) {
	lvl, err := logger.ParseSeverity(lc.Severity)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stdout
	var async *logger.AsyncLogger
	if lc.FilePath != "" {
		async = logger.NewAsyncLogger(&lumberjack.Logger{
			Filename:   lc.FilePath,
			MaxSize:    lc.Rotate.MaxFileSizeMB,
			MaxBackups: lc.Rotate.BackupFileCount,
			Compress:   lc.Rotate.Compress,
		}, 256)
		out = async
	}

	logger.Init(out, lc.Format, lvl)
	return async, nil
}
