package main

import (
	"log"

	"github.com/alecthomas/kong"
	"github.com/aws/aws-lambda-go/lambda"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/fx"

	"gemini-proxy-go/internal/app"
	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/handler"
)

var version = "dev"

func main() {
	var cli config.CLI
	kong.Parse(&cli,
		kong.Name("gemini-proxy-lambda"),
		kong.Description("Gemini API forwarding proxy for AWS Lambda (API Gateway HTTP API)."),
	)

	var h *handler.LambdaHandler
	fxApp := fx.New(
		app.Module,
		fx.Supply(&cli, handler.Version(version)),
		fx.Populate(&h),
		fx.NopLogger,
	)
	if err := fxApp.Err(); err != nil {
		log.Fatalf("build proxy: %v", err)
	}

	lambda.Start(h.Handle)
}
