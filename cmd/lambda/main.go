package main

import (
	"log"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/davidbz/shahsearch/internal/app"
	"github.com/davidbz/shahsearch/internal/lambda"
)

func main() {
	container, err := app.BuildContainer()
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}

	if err := container.Provide(lambda.NewAdapter); err != nil {
		log.Fatalf("Failed to provide Lambda adapter: %v", err)
	}

	err = container.Invoke(func(adapter *lambda.Adapter, logger *zap.Logger) {
		logger.Info("starting Lambda handler")
		awslambda.Start(adapter.Handle)
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}
