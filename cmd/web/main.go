package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/grpc"

	"streamflix/internal/catalog"
	"streamflix/internal/config"
	"streamflix/internal/content"
	"streamflix/internal/rpc"
	"streamflix/internal/upload"
	"streamflix/internal/web"
)

// printUsage prints the usage information for the application
func printUsage() {
	fmt.Println("Usage: ./web [OPTIONS] [CATALOG_TYPE CATALOG_OPTIONS CONTENT_TYPE CONTENT_OPTIONS]")
	fmt.Println()
	fmt.Println("Arguments:")
	fmt.Println("  CATALOG_TYPE          Catalog backend (memory, sqlite)")
	fmt.Println("  CATALOG_OPTIONS       Options for the catalog (sqlite: in-memory database name)")
	fmt.Println("  CONTENT_TYPE          Uploaded media holder (mem, fs)")
	fmt.Println("  CONTENT_OPTIONS       Options for the media holder (fs: parent of the temp dir)")
	fmt.Println()
	fmt.Println("Without arguments the values come from the environment (.env is read if present).")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Example: ./web -grpc localhost:9090 sqlite catalog fs /tmp")
}

func main() {
	cfg := config.Load()

	port := flag.Int("port", cfg.Port, "Port number for the web server")
	host := flag.String("host", cfg.Host, "Host address for the web server")
	grpcAddr := flag.String("grpc", cfg.GRPCAddr, "Listen address for the gRPC catalog API (empty disables it)")
	seedPath := flag.String("seed", cfg.SeedPath, "YAML bootstrap catalog (empty uses the built-in one)")
	flag.Usage = printUsage
	flag.Parse()

	switch flag.NArg() {
	case 0:
	case 4:
		cfg.CatalogType = flag.Arg(0)
		cfg.CatalogOptions = flag.Arg(1)
		cfg.ContentType = flag.Arg(2)
		cfg.ContentOptions = flag.Arg(3)
	default:
		fmt.Println("Error: Incorrect number of arguments")
		printUsage()
		os.Exit(2)
	}
	if *port <= 0 {
		fmt.Println("Error: Invalid port number:", *port)
		printUsage()
		os.Exit(2)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "streamflix",
		Level: hclog.LevelFromString(cfg.LogLevel),
	})

	if err := run(cfg, *host, *port, *grpcAddr, *seedPath, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, host string, port int, grpcAddr, seedPath string, logger hclog.Logger) error {
	logger.Info("creating catalog", "type", cfg.CatalogType, "options", cfg.CatalogOptions)
	var repo catalog.Repository
	switch cfg.CatalogType {
	case "memory":
		repo = catalog.NewMemoryRepository()
	case "sqlite":
		r, err := catalog.NewSQLiteRepository(cfg.CatalogOptions)
		if err != nil {
			return fmt.Errorf("open sqlite catalog: %w", err)
		}
		defer r.Close()
		repo = r
	default:
		return fmt.Errorf("unknown catalog type %q", cfg.CatalogType)
	}

	seed, err := catalog.LoadSeed(seedPath)
	if err != nil {
		return err
	}
	store := catalog.NewStore(repo, logger.Named("catalog"))
	if err := store.Bootstrap(seed); err != nil {
		return err
	}

	logger.Info("creating content service", "type", cfg.ContentType, "options", cfg.ContentOptions)
	var media content.Service
	switch cfg.ContentType {
	case "mem":
		media = content.NewMemoryService()
	case "fs":
		fs, err := content.NewFSService(cfg.ContentOptions)
		if err != nil {
			return fmt.Errorf("create media dir: %w", err)
		}
		logger.Info("uploaded media is kept until shutdown", "dir", fs.Dir())
		media = fs
	default:
		return fmt.Errorf("unknown content type %q", cfg.ContentType)
	}
	defer media.Close()

	hub := web.NewHub(logger.Named("ws"))
	defer hub.Close()
	cancel := store.Subscribe(hub.Notify)
	defer cancel()

	uploadLogger := logger.Named("upload")
	newUpload := func() *upload.Controller {
		return upload.NewController(store, media,
			upload.WithDelay(cfg.UploadDelay),
			upload.WithLogger(uploadLogger),
		)
	}
	server := web.NewServer(store, media, newUpload, hub, logger.Named("web"))

	listenAddr := fmt.Sprintf("%s:%d", host, port)
	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddr, err)
	}
	srv := &http.Server{
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("web server listening", "addr", listenAddr)
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var grpcServer *grpc.Server
	if grpcAddr != "" {
		grpcL, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", grpcAddr, err)
		}
		grpcServer = grpc.NewServer()
		rpc.Register(grpcServer, rpc.NewServer(store, logger.Named("rpc")))
		go func() {
			logger.Info("gRPC catalog listening", "addr", grpcAddr)
			if err := grpcServer.Serve(grpcL); err != nil {
				errCh <- err
			}
		}()
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", "error", err)
		srv.Close()
	}
	logger.Info("server stopped")
	return nil
}
