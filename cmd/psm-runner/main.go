package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/synaptica-ai/psmatch/pkg/common/config"
	"github.com/synaptica-ai/psmatch/pkg/common/database"
	"github.com/synaptica-ai/psmatch/pkg/common/kafka"
	"github.com/synaptica-ai/psmatch/pkg/common/logger"
	"github.com/synaptica-ai/psmatch/pkg/dataset"
	"github.com/synaptica-ai/psmatch/pkg/psm"
	"github.com/synaptica-ai/psmatch/pkg/study"
)

func main() {
	logger.Init()
	cfg := config.Load()

	var studyPath, dataPath string
	flag.StringVar(&studyPath, "study", "study.yaml", "path to the study configuration YAML")
	flag.StringVar(&dataPath, "data", "", "path to the cohort CSV export")
	flag.Parse()

	if dataPath == "" {
		logger.Log.Fatal("missing -data: a cohort CSV export is required")
	}

	studyCfg, err := study.LoadStudyConfig(studyPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load study configuration")
	}

	file, err := os.Open(dataPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to open cohort export")
	}
	table, err := dataset.FromCSV(file)
	file.Close()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to parse cohort export")
	}

	var opts []study.Option
	if cfg.PostgresEnabled {
		db, err := database.GetPostgres(cfg)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to initialize Postgres")
		}
		repo := study.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("Failed to migrate analysis run schema")
		}
		opts = append(opts, study.WithRepository(repo))
		defer database.ClosePostgres()
	}
	if cfg.RedisEnabled {
		cache := study.NewResultCache(database.GetRedis(cfg), cfg.ResultCacheTTL)
		opts = append(opts, study.WithResultCache(cache))
		defer database.CloseRedis()
	}
	var producer *kafka.Producer
	if cfg.KafkaEnabled {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		opts = append(opts, study.WithProducer(producer))
		defer producer.Close()
	}

	service, err := study.NewService(cfg.ArtifactDir, opts...)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize study service")
	}

	run, result, err := service.Run(context.Background(), studyCfg, table)
	if err != nil {
		logger.Log.WithError(err).WithField("stage", psm.FailedStage(err)).Error("Analysis failed")
		os.Exit(1)
	}

	printSummary(run.ID.String(), result)
}

func printSummary(runID string, result *psm.AnalysisResult) {
	fmt.Printf("analysis run %s\n", runID)
	fmt.Printf("  rows: %d before filter, %d after, %d dropped\n",
		result.RowsBefore, result.RowsAfter, result.RowsDropped)
	fmt.Printf("  pools: %d treated, %d control\n", result.TreatedCount, result.ControlCount)
	fmt.Printf("  propensity: intercept=%.6f iterations=%d deviance=%.4f\n",
		result.Propensity.Intercept, result.Propensity.Iterations, result.Propensity.Deviance)
	for i, name := range result.Propensity.CovariateNames {
		fmt.Printf("    %-24s %.6f\n", name, result.Propensity.Coefficients[i])
	}
	fmt.Printf("  matched: %d pairs, %d units\n", result.MatchedPairs, result.MatchedSize)
	fmt.Println("  balance (SMD before -> after):")
	for _, record := range result.Balance {
		fmt.Printf("    %-24s %s -> %s\n", record.Covariate,
			formatSMD(record.SMDBefore), formatSMD(record.SMDAfter))
	}
	fmt.Printf("  ATT naive:      %.6f\n", result.ATTNaive)
	fmt.Printf("  ATT regression: %.6f\n", result.ATTRegression)
	for _, warning := range result.Warnings {
		fmt.Printf("  warning: %s\n", warning)
	}
}

func formatSMD(value *float64) string {
	if value == nil {
		return "undefined"
	}
	return fmt.Sprintf("%+.4f", *value)
}
