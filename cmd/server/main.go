package main

import (
	"database/sql"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/bus"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/config"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/constants"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/database/migration"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/log"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/managers"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/schedulers"
	"github.com/SkengMarn/quickstrap-nfc-web-sub006/internal/system/workers"
)

const configFile = "config/deployment.yaml"

func main() {
	gdsHome := getGDSHome()

	envFiles, _ := filepath.Glob("config/*.env")
	_ = godotenv.Load(envFiles...)

	gdsConfig, err := config.LoadConfig(gdsHome, configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := config.InitializeGDSRuntime(gdsHome, gdsConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize runtime configuration: %v\n", err)
		os.Exit(1)
	}
	if err := log.Init(gdsConfig.Log.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	if err := runMigrations(gdsConfig); err != nil {
		logger.Fatal("Failed to run database migrations", log.Error(err))
	}

	var subscriber bus.Subscriber
	var publisher bus.Publisher = bus.NoopPublisher{}
	if gdsConfig.Bus.Enabled {
		subscriber, err = bus.NewNATSSubscriber(gdsConfig.Bus.URL)
		if err != nil {
			logger.Fatal("Failed to connect to the event bus", log.Error(err))
		}
		defer subscriber.Close()

		publisher, err = bus.NewNATSPublisher(gdsConfig.Bus.URL)
		if err != nil {
			logger.Fatal("Failed to connect to the event bus", log.Error(err))
		}
		defer publisher.Close()
	}

	workers.StartDiscoveryWorkers(gdsConfig.Discovery.WorkerCount, publisher)
	stopScheduler := schedulers.StartDiscoveryScheduler(subscriber, gdsConfig.Scheduler)
	defer stopScheduler()

	serverAddr := fmt.Sprintf("%s:%d", gdsConfig.Addr.Host, gdsConfig.Addr.Port)
	mux := initMultiplexer()
	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener", log.String("addr", serverAddr), log.Error(err))
	}
	logger.Info("Gate discovery service started", log.String("addr", serverAddr))

	server := &http.Server{Handler: enableCORS(mux)}
	if err := server.Serve(ln); err != nil {
		logger.Fatal("Failed to serve requests", log.Error(err))
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serviceManager := managers.NewServiceManager(mux)
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Fatal("Failed to register the services", log.Error(err))
	}
	return mux
}

func runMigrations(gdsConfig *config.Config) error {
	ds := gdsConfig.DataSource
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		ds.Hostname, ds.Port, ds.Username, ds.Password, ds.Name, ds.SSLMode)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return migration.Run(db)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getGDSHome() string {

	projectHome := ""
	projectHomeFlag := flag.String("gdsHome", "", "Path to the gate discovery service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		projectHome = *projectHomeFlag
	} else {
		dir, dirErr := os.Getwd()
		if dirErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to get current working directory: %v\n", dirErr)
		}
		projectHome = dir
	}
	return projectHome
}
