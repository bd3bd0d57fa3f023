// Command nct7904d monitors a Nuvoton NCT7904D hardware monitor over
// SMBus and serves its readings over HTTP. Run with --mock to use a
// simulated chip (no I2C adapter required).
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/openhwmon/nct7904-go/internal/api"
	"github.com/openhwmon/nct7904-go/internal/auth"
	"github.com/openhwmon/nct7904-go/internal/config"
	"github.com/openhwmon/nct7904-go/internal/events"
	"github.com/openhwmon/nct7904-go/internal/identity"
	"github.com/openhwmon/nct7904-go/internal/models"
	"github.com/openhwmon/nct7904-go/internal/monitor"
	"github.com/openhwmon/nct7904-go/internal/nct7904"
	"github.com/openhwmon/nct7904-go/internal/smbus"
	"github.com/openhwmon/nct7904-go/internal/zeroconf"
)

func main() {
	var (
		mock   = flag.Bool("mock", false, "use simulated chip (no I2C adapter required)")
		addr   = flag.String("addr", "", "HTTP listen address (overrides config)")
		cfgDir = flag.String("config-dir", "", "config directory (default: ~/.config/nct7904d)")
		busArg = flag.String("bus", "", "I2C adapter path or name (overrides config)")
		chip   = flag.Uint("chip-addr", 0, "chip 7-bit bus address, 0x2d or 0x2e (overrides config)")
		debug  = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	// Configure logging
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// Resolve config directory
	if *cfgDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("cannot determine home directory", "err", err)
			os.Exit(1)
		}
		*cfgDir = filepath.Join(home, ".config", "nct7904d")
	}
	if err := os.MkdirAll(*cfgDir, 0755); err != nil {
		slog.Error("cannot create config directory", "path", *cfgDir, "err", err)
		os.Exit(1)
	}

	// Config store
	store := config.NewStore(*cfgDir)
	cfg, err := store.Load()
	if err != nil {
		slog.Error("cannot load config", "path", store.Path(), "err", err)
		os.Exit(1)
	}

	// Flags override the file
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *busArg != "" {
		cfg.BusPath = *busArg
	}
	if *chip != 0 {
		cfg.ChipAddr = uint16(*chip)
	}

	// Graceful shutdown context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Bus driver
	var chipBus smbus.Bus
	busName := cfg.BusPath
	if *mock {
		slog.Info("using simulated chip")
		chipBus = nct7904.NewSim()
		busName = "mock"
	} else {
		switch cfg.BusDriver {
		case "periph":
			chipBus, err = smbus.OpenPeriph(cfg.BusPath, cfg.ChipAddr)
		default:
			chipBus, err = smbus.OpenI2CDev(cfg.BusPath, cfg.ChipAddr)
		}
		if err != nil {
			slog.Error("cannot open bus", "driver", cfg.BusDriver, "path", cfg.BusPath, "err", err)
			os.Exit(1)
		}
	}
	defer chipBus.Close()

	// Chip detection and attach. os.Exit skips the deferred Close, so
	// the failure paths release the adapter themselves.
	if err := nct7904.Detect(ctx, chipBus); err != nil {
		slog.Error("chip detection failed", "bus", busName, "addr", cfg.ChipAddr, "err", err)
		chipBus.Close()
		os.Exit(1)
	}
	dev, err := nct7904.New(ctx, chipBus)
	if err != nil {
		slog.Error("chip initialization failed", "err", err)
		chipBus.Close()
		os.Exit(1)
	}
	caps := dev.Caps()
	slog.Info("chip attached",
		"bus", busName,
		"fanin_mask", caps.FanIn,
		"vsen_mask", caps.VSen,
		"tcpu_mask", caps.TCPU,
		"dts_mask", caps.DTS,
	)

	// Event bus and poll loop
	bus := events.NewBus()
	defer bus.Close()
	mon := monitor.New(dev, bus, cfg.PollInterval())
	go mon.Run(ctx)

	// Hot-reload the poll interval on config file changes
	go func() {
		err := store.Watch(ctx, func(c config.Config) {
			mon.SetInterval(c.PollInterval())
		})
		if err != nil {
			slog.Warn("config watch failed", "err", err)
		}
	}()

	// Auth service
	authSvc, err := auth.NewService(*cfgDir)
	if err != nil {
		slog.Error("auth service initialization failed", "err", err)
		chipBus.Close()
		os.Exit(1)
	}
	defer authSvc.Close()

	// Zeroconf mDNS registration
	if cfg.MDNS {
		port := 8090
		if parts := strings.SplitN(cfg.ListenAddr, ":", 2); len(parts) == 2 && parts[1] != "" {
			if p, err := strconv.Atoi(parts[1]); err == nil {
				port = p
			}
		}
		zc := zeroconf.New(identity.Hostname(), port, identity.Version(*cfgDir))
		go func() {
			if err := zc.Start(ctx); err != nil {
				slog.Warn("zeroconf failed", "err", err)
			}
		}()
	}

	// HTTP server
	info := models.Info{
		Model:    "NCT7904D",
		Vendor:   "Nuvoton",
		Bus:      busName,
		Hostname: identity.Hostname(),
		Version:  identity.Version(*cfgDir),
		Mock:     *mock,
	}
	router := api.NewRouter(mon, authSvc, bus, info)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout (needed for SSE)
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("nct7904d listening", "addr", cfg.ListenAddr, "mock", *mock, "config", *cfgDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Warn("server shutdown error", "err", err)
	}

	slog.Info("shutdown complete")
}
