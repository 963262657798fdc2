// Command moonbase runs the telnet BBS server: it loads configuration,
// opens the user/bulletin/message stores, starts the background job
// scheduler, and accepts connections until told to stop.
//
// Grounded on the teacher's cmd/vision3/main.go wiring order (load config ->
// init managers -> start scheduler -> start listeners -> block), narrowed to
// moonbase's single telnet transport and single config file.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/sdsalyer/moonbase/internal/config"
	"github.com/sdsalyer/moonbase/internal/doors"
	"github.com/sdsalyer/moonbase/internal/scheduler"
	"github.com/sdsalyer/moonbase/internal/service"
	"github.com/sdsalyer/moonbase/internal/session"
	"github.com/sdsalyer/moonbase/internal/store"
	"github.com/sdsalyer/moonbase/internal/telnet"
	"github.com/sdsalyer/moonbase/internal/telnetserver"
)

func main() {
	basePath, err := os.Getwd()
	if err != nil {
		log.Fatalf("FATAL: failed to get working directory: %v", err)
	}

	var rootPath string
	flag.StringVar(&rootPath, "root", basePath, "moonbase root directory (expects configs/ and data/ beneath it)")
	flag.Parse()

	configPath := filepath.Join(rootPath, "configs")
	dataPath := filepath.Join(rootPath, "data")
	logPath := filepath.Join(dataPath, "logs", "moonbase.log")

	if err := os.MkdirAll(configPath, 0755); err != nil {
		log.Fatalf("FATAL: failed to create configs directory: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dataPath, "logs"), 0755); err != nil {
		log.Fatalf("FATAL: failed to create data/logs directory: %v", err)
	}

	log.SetOutput(os.Stderr)
	if logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err != nil {
		log.Printf("WARN: failed to open log file %s: %v; logging to stderr only", logPath, err)
	} else {
		defer logFile.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, logFile))
	}

	log.Printf("INFO: starting moonbase BBS server")

	serverCfg, err := config.LoadServerConfig(configPath)
	if err != nil {
		log.Fatalf("FATAL: failed to load server configuration: %v", err)
	}

	var cfgMu sync.RWMutex
	currentConfig := func() config.ServerConfig {
		cfgMu.RLock()
		defer cfgMu.RUnlock()
		return serverCfg
	}

	usersRepo, err := store.NewUsers(dataPath)
	if err != nil {
		log.Fatalf("FATAL: failed to initialize user store: %v", err)
	}
	bulletinsRepo, err := store.NewBulletins(dataPath)
	if err != nil {
		log.Fatalf("FATAL: failed to initialize bulletin store: %v", err)
	}
	messagesRepo, err := store.NewMessages(dataPath, usersRepo.Exists)
	if err != nil {
		log.Fatalf("FATAL: failed to initialize message store: %v", err)
	}

	usersSvc := service.NewUsers(usersRepo, serverCfg.Features)
	bulletinsSvc := service.NewBulletins(bulletinsRepo, serverCfg.Features)
	messagesSvc := service.NewMessages(messagesRepo, serverCfg.Features)

	registry := session.NewRegistry()

	doorsLauncher, err := doors.NewLauncher(filepath.Join(configPath, "doors.json"))
	if err != nil {
		log.Printf("WARN: failed to load doors.json: %v; door programs disabled", err)
		doorsLauncher = nil
	} else if len(doorsLauncher.Names()) == 0 {
		log.Printf("INFO: no door programs configured")
	} else {
		log.Printf("INFO: loaded %d door program(s)", len(doorsLauncher.Names()))
	}

	configWatcher, err := config.NewWatcher(configPath, func(reloaded config.ServerConfig) {
		cfgMu.Lock()
		serverCfg = reloaded
		cfgMu.Unlock()
		log.Printf("INFO: server configuration reloaded; new connections will use the updated values")
	})
	if err != nil {
		log.Printf("WARN: failed to start config file watcher: %v; hot reload disabled", err)
	} else {
		defer configWatcher.Stop()
	}

	idleTimeout := time.Duration(serverCfg.Timeouts.IdleSeconds) * time.Second
	jobs := []scheduler.Job{
		scheduler.NewIdleSweepJob(registry, idleTimeout),
		scheduler.NewPersistenceSnapshotJob(dataPath),
	}
	historyPath := filepath.Join(dataPath, "logs", "scheduler_history.json")
	jobScheduler := scheduler.NewScheduler(jobs, historyPath)
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		jobScheduler.Start(schedulerCtx)
	}()

	sessionHandler := func(stream *telnet.Stream, remoteAddr net.Addr) {
		id := uuid.New()
		sess := session.New(id, stream, remoteAddr, session.Deps{
			Config:    currentConfig(),
			Users:     usersSvc,
			Bulletins: bulletinsSvc,
			Messages:  messagesSvc,
			Registry:  registry,
			Doors:     doorsLauncher,
		})
		registry.Register(sess)
		defer registry.Unregister(id)

		log.Printf("INFO: session %s: connected from %s", id, remoteAddr)
		if err := sess.Run(); err != nil {
			log.Printf("INFO: session %s: ended: %v", id, err)
		} else {
			log.Printf("INFO: session %s: ended", id)
		}
	}

	telnetSrv, err := telnetserver.NewServer(telnetserver.Config{
		Port:           serverCfg.Server.TelnetPort,
		Host:           serverCfg.Server.BindAddress,
		MaxConnections: serverCfg.Server.MaxConnections,
		SessionHandler: sessionHandler,
	})
	if err != nil {
		log.Fatalf("FATAL: failed to create telnet server: %v", err)
	}

	go func() {
		if err := telnetSrv.ListenAndServe(); err != nil {
			log.Printf("ERROR: telnet server error: %v", err)
		}
	}()
	log.Printf("INFO: telnet server ready - connect via: telnet %s %d", serverCfg.Server.BindAddress, serverCfg.Server.TelnetPort)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown
	log.Printf("INFO: received %s, shutting down", sig)

	if err := telnetSrv.Close(); err != nil {
		log.Printf("WARN: error closing telnet listener: %v", err)
	}
	schedulerCancel()
	<-schedulerDone
}
