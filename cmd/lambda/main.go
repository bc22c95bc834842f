package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"wikirag/internal/api"
	"wikirag/internal/app"
	"wikirag/internal/config"
)

var ginLambda *ginadapter.GinLambda

func init() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		log.Fatalf("[Main] config error: %v", err)
	}
	pipeline, err := app.NewPipeline(context.Background(), cfg)
	if err != nil {
		log.Fatalf("[Main] pipeline init error: %v", err)
	}
	ginLambda = ginadapter.New(api.SetupRouter(cfg, pipeline))
}

// Handler serves API Gateway proxy events through the gin router.
func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(Handler)
}
