// Command server wires the job-plane core: config, logger, storage, and
// the Dispatcher/RequestService facade. It carries no HTTP or gRPC
// listener — per spec §1, transport is an external collaborator this
// module does not implement.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"jobplane/internal/app"
	"jobplane/internal/dispatch"
	"jobplane/internal/events"
	"jobplane/internal/heartbeatcache"
	"jobplane/internal/mediaprobe"
	"jobplane/internal/registry"
	"jobplane/internal/service"
	"jobplane/internal/store/gormstore"
	"jobplane/pkg/config"
	"jobplane/pkg/kafka"
	"jobplane/pkg/logger"
	"jobplane/pkg/observability"
	pkgregistry "jobplane/pkg/registry"
	"jobplane/pkg/redisclient"
	"jobplane/pkg/task"
)

func main() {
	observability.StartProfiling("jobplane")

	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}

	logger.Init(cfg.Log)
	logger.Infof("jobplane starting config=%s", cfgPath)

	ffmpegBin := cfg.Transcode.FFmpegBinaryPath
	if _, err := exec.LookPath(ffmpegBin); err != nil {
		logger.Fatal(fmt.Sprintf("ffmpeg binary not found binary=%s error=%v", ffmpegBin, err))
	}
	ffprobeBin := cfg.Transcode.FFprobeBinaryPath
	if _, err := exec.LookPath(ffprobeBin); err != nil {
		logger.Fatal(fmt.Sprintf("ffprobe binary not found binary=%s error=%v", ffprobeBin, err))
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal(fmt.Sprintf("database connect failed error=%v", err))
	}
	if sqlDB, err := db.DB(); err == nil {
		if cfg.Database.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		}
		if cfg.Database.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		}
		if cfg.Database.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		}
	}

	store := gormstore.New(db)
	if err := store.AutoMigrate(); err != nil {
		logger.Fatal(fmt.Sprintf("auto-migrate failed error=%v", err))
	}
	logger.Infof("database connected and migrated")

	redisClient, err := redisclient.New(cfg.Redis)
	if err != nil {
		logger.Warnf("redis unavailable, heartbeat cache disabled error=%v", err)
	}
	var heartbeats heartbeatcache.Cache = heartbeatcache.NoopCache{}
	if redisClient != nil {
		heartbeats = heartbeatcache.NewRedisCache(redisClient)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	var kafkaClient *kafka.Client
	if cfg.Kafka.Enabled {
		kafkaClient = kafka.New(cfg.Kafka)
		if err := kafkaClient.EnsureTopic(cfg.Kafka.Topics.JobEvents, 1, 1); err != nil {
			logger.Warnf("kafka topic ensure failed topic=%s error=%v", cfg.Kafka.Topics.JobEvents, err)
		}
		publisher = events.NewKafkaPublisher(kafkaClient, cfg.Kafka)
	}

	var workerRegistry registry.WorkerRegistry = registry.NoopWorkerRegistry{}
	var serviceRegistry *pkgregistry.ServiceRegistry
	etcdClient, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Etcd.Endpoints,
		DialTimeout: cfg.Etcd.DialTimeout,
		Username:    cfg.Etcd.Username,
		Password:    cfg.Etcd.Password,
	})
	if err != nil {
		logger.Warnf("etcd unavailable, worker registry disabled error=%v", err)
	} else {
		workerRegistry = registry.NewEtcdWorkerRegistry(etcdClient, cfg.Etcd.WorkerLeaseTTL)

		sr, err := pkgregistry.NewServiceRegistry(
			pkgregistry.RegistryConfig{
				Endpoints:   cfg.Etcd.Endpoints,
				DialTimeout: cfg.Etcd.DialTimeout,
				Username:    cfg.Etcd.Username,
				Password:    cfg.Etcd.Password,
			},
			pkgregistry.ServiceConfig{
				ServiceName:     cfg.Etcd.ServiceName,
				ServiceID:       cfg.Etcd.ServiceID,
				TTL:             cfg.Etcd.TTL,
				RefreshInterval: cfg.Etcd.RefreshInterval,
			},
			"jobplane-core",
		)
		if err != nil {
			logger.Warnf("service registry init failed error=%v", err)
		} else {
			serviceRegistry = sr
		}
	}

	leaseTimeout := time.Duration(cfg.Transcode.TimeoutSeconds) * time.Second
	dispatcher := dispatch.New(store, leaseTimeout,
		dispatch.WithPublisher(publisher),
		dispatch.WithWorkerRegistry(workerRegistry),
		dispatch.WithHeartbeatCache(heartbeats),
	)

	prober := mediaprobe.NewFFProbe(cfg.Transcode.FFprobeBinaryPath, cfg.Transcode.ProbeTimeout)
	requests := service.New(store, prober, cfg.Transcode.EnableCrf, service.WithPublisher(publisher))

	jobPlane := app.New(requests, dispatcher)
	logger.Infof("job-plane core wired, awaiting an embedding transport: %T", jobPlane)

	taskManager := task.New()
	if serviceRegistry != nil {
		taskManager.Register(&serviceRegistryTask{registry: serviceRegistry})
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := taskManager.StartAll(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("background task start failed error=%v", err))
	}
	logger.Infof("jobplane started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("received shutdown signal, shutting down")
	cancel()
	taskManager.StopAll()

	if err := workerRegistry.Close(); err != nil {
		logger.Warnf("worker registry close failed error=%v", err)
	}
	if kafkaClient != nil {
		kafkaClient.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Infof("jobplane exited safely")
}

// serviceRegistryTask adapts pkg/registry.ServiceRegistry to the
// pkg/task.BackgroundTask lifecycle.
type serviceRegistryTask struct {
	registry *pkgregistry.ServiceRegistry
}

func (t *serviceRegistryTask) Name() string { return "etcd-service-registry" }

func (t *serviceRegistryTask) Start(ctx context.Context) error {
	return t.registry.Register()
}

func (t *serviceRegistryTask) Stop() error {
	return t.registry.Deregister()
}

func resolveConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	env := strings.ToLower(strings.TrimSpace(os.Getenv("CONFIG_ENV")))
	if env == "" {
		env = "dev"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}
