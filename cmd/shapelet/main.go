package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/your-org/shapelet-transform/internal/classifier"
	"github.com/your-org/shapelet-transform/internal/config"
	"github.com/your-org/shapelet-transform/internal/csvwriter"
	"github.com/your-org/shapelet-transform/internal/datastore"
	"github.com/your-org/shapelet-transform/internal/series"
	"github.com/your-org/shapelet-transform/pkg/logger"
)

func main() {
	// --- Argument Parsing ---
	configPath := flag.String("config", "config/config.yaml", "Path to the YAML configuration file")
	migrateOnly := flag.Bool("migrate", false, "Apply database migrations and exit")
	importCSV := flag.String("import", "", "Load a wide CSV file into the database under dataset.train and exit")
	flag.Parse()

	// --- Config and Logger Setup ---
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	log := logger.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *migrateOnly {
		if err := datastore.Migrate(cfg.Database.DSN(), log); err != nil {
			logger.Fatalf("Migration failed: %v", err)
		}
		return
	}

	var pool *pgxpool.Pool
	if cfg.Dataset.Source == config.SourcePostgres || *importCSV != "" {
		pool, err = pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			logger.Fatalf("Unable to connect to database: %v", err)
		}
		defer pool.Close()
		logger.Infof("Connected to database %s on %s", cfg.Database.Name, cfg.Database.Host)
	}

	if *importCSV != "" {
		if cfg.Dataset.Train == "" {
			logger.Fatal("dataset.train must name the target dataset for -import")
		}
		ds, err := datastore.LoadDatasetFromCSV(ctx, *importCSV)
		if err != nil {
			logger.Fatalf("Failed to read %s: %v", *importCSV, err)
		}
		repo := datastore.NewRepository(pool, log)
		if err := repo.SaveDataset(ctx, cfg.Dataset.Train, ds); err != nil {
			logger.Fatalf("Import failed: %v", err)
		}
		return
	}

	trainSrc, testSrc := sources(cfg, pool, log)

	// --- Build ---
	train, err := trainSrc.Load(ctx)
	if err != nil {
		logger.Fatalf("Failed to load training set: %v", err)
	}
	params, err := cfg.ShapeletParams()
	if err != nil {
		logger.Fatalf("Invalid shapelet parameters: %v", err)
	}
	clf, err := classifier.NewShapeletClassifier(params,
		classifier.WithTrainer(classifier.NearestNeighbor{K: cfg.Classifier.Neighbors}),
		classifier.WithNormalize(bool(cfg.Transform.Normalize)),
		classifier.WithWorkers(cfg.Transform.Workers),
		classifier.WithLogger(log))
	if err != nil {
		logger.Fatalf("Invalid classifier configuration: %v", err)
	}
	if err := clf.Build(ctx, train); err != nil {
		logger.Fatalf("Failed to build classifier: %v", err)
	}
	res := clf.Result()
	if res.Warning != nil {
		logger.Warnf("Shapelet search finished early: %v", res.Warning)
	}
	for i, s := range res.Shapelets {
		logger.Debugf("shapelet_%d: %s", i, s)
	}
	if pool != nil {
		rec := datastore.NewRunRecorder(pool, log)
		if err := rec.Record(ctx, cfg.Dataset.Train, res); err != nil {
			logger.Warnf("Failed to record search run: %v", err)
		}
	}

	// --- Export ---
	if cfg.Output.Path != "" {
		if err := export(ctx, cfg, clf, train, log); err != nil {
			logger.Fatalf("Failed to export feature table: %v", err)
		}
	}

	// --- Evaluate ---
	if testSrc == nil {
		return
	}
	test, err := testSrc.Load(ctx)
	if err != nil {
		logger.Fatalf("Failed to load test set: %v", err)
	}
	acc, err := clf.Accuracy(ctx, test)
	if err != nil {
		logger.Fatalf("Failed to evaluate classifier: %v", err)
	}
	logger.Infof("Test accuracy: %.4f over %d series", acc, test.Len())
}

// sources returns the training source and, when configured, the test source.
func sources(cfg *config.Config, pool *pgxpool.Pool, log *zap.Logger) (train, test datastore.Source) {
	if cfg.Dataset.Source == config.SourcePostgres {
		repo := datastore.NewRepository(pool, log)
		train = datastore.PostgresSource{Repo: repo, Name: cfg.Dataset.Train}
		if cfg.Dataset.Test != "" {
			test = datastore.PostgresSource{Repo: repo, Name: cfg.Dataset.Test}
		}
		return train, test
	}

	train = datastore.CSVSource{Path: cfg.Dataset.TrainPath}
	if cfg.Dataset.TestPath != "" {
		test = datastore.CSVSource{Path: cfg.Dataset.TestPath}
	}
	return train, test
}

func export(ctx context.Context, cfg *config.Config, clf *classifier.ShapeletClassifier, ds *series.Dataset, log *zap.Logger) error {
	table, err := clf.Transformer().Fit(ctx, ds)
	if err != nil {
		return err
	}
	w, err := csvwriter.NewWriter(cfg.Output.Path, log)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.WriteFeatureTable(table, cfg.Output.Precision)
}
