package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/tyler180/football-scout/internal/config"
	"github.com/tyler180/football-scout/internal/fetch"
	"github.com/tyler180/football-scout/tools/scout-ingest/internal/app/job"
)

func handler(ctx context.Context, e job.Event) (any, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(os.Getenv("SCOUT_CONFIG"))
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	svc := &job.Service{
		Config:  cfg,
		Fetcher: fetch.NewClient(cfg.FetchOptions(log)),
		S3:      s3.NewFromConfig(awsCfg),
		DDB:     dynamodb.NewFromConfig(awsCfg),
		Athena:  athena.NewFromConfig(awsCfg),
		Logger:  log,
		TmpDir:  "/tmp",
	}
	return svc.Handle(ctx, e)
}

func main() {
	lambda.Start(handler)
}
