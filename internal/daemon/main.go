package daemon

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sempr/judge-core-go/pkg/models"
	"github.com/sevlyar/go-daemon"
)

// Main starts the daemon using the flags cmd/daemon.go already parsed
// through cobra. It used to parse os.Args itself via the flag package,
// which collided with cobra's own flag set (-ojhome vs -oj_home) the
// moment it ran as a subcommand.
func Main(args *models.DaemonArgs) {
	// Change to the working directory
	if err := os.Chdir(args.OJHome); err != nil {
		log.Fatalf("FATAL: Could not change to directory %s: %v", args.OJHome, err)
	}

	// Load configuration
	cfg, err := LoadConfig("etc/judge.conf")
	if err != nil {
		log.Fatalf("FATAL: Error loading judge.conf: %v", err)
	}
	cfg.OJHome = args.OJHome
	cfg.Debug = args.Debug
	cfg.Once = args.Once

	// Initialize logger
	InitLogger(cfg)

	// Set up daemonization if not in debug mode
	if !cfg.Debug {
		pidFilePath := filepath.Join(cfg.OJHome, "etc", "judge.pid")
		logFilePath := filepath.Join(cfg.OJHome, "log", "judged-go.log")

		cntxt := &daemon.Context{
			PidFileName: pidFilePath,
			PidFilePerm: 0644,
			LogFileName: logFilePath,
			LogFilePerm: 0640,
			WorkDir:     cfg.OJHome,
			Umask:       027,
		}

		d, err := cntxt.Reborn()
		if err != nil {
			log.Fatalf("FATAL: Could not reborn as daemon: %v", err)
		}
		if d != nil {
			return // Parent process exits
		}
		defer cntxt.Release()
	}

	AppLogger.Println("INFO: judged-go started")

	// Lock PID file to ensure a single instance
	lockFile := filepath.Join(cfg.OJHome, "etc", "judge.pid")
	if err := Lock(lockFile); err != nil {
		AppLogger.Printf("FATAL: Daemon is already running: %v", err)
		log.Fatalf("FATAL: Daemon is already running: %v", err)
	}
	defer Unlock()

	// Create the job fetcher
	fetcher, err := NewFetcher(cfg)
	if err != nil {
		AppLogger.Printf("FATAL: Could not create fetcher: %v", err)
		log.Fatalf("FATAL: Could not create fetcher: %v", err)
	}
	defer fetcher.Close()

	// Channel to stop the program gracefully
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		<-stop
		AppLogger.Println("INFO: Stop signal received, shutting down...")
		cancel()
	}()

	// Create and run the worker
	worker := NewWorker(cfg, fetcher)
	worker.Run(ctx)

	AppLogger.Println("INFO: judged-go stopped.")
}
