package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"hobbynet/api/middleware"
	"hobbynet/api/routes"
	"hobbynet/config"
	"hobbynet/db"
	"hobbynet/services"

	"github.com/gin-gonic/gin"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	if err := services.InitRedis(); err != nil {
		panic("Failed to connect to Redis: " + err.Error())
	}
	defer services.CloseRedis()

	// Friend notifications degrade to direct WebSocket pushes when
	// RabbitMQ is unavailable.
	if err := services.InitRabbitMQ(); err != nil {
		log.Println("RabbitMQ unavailable, friend events will be pushed locally:", err)
	} else {
		defer services.CloseRabbitMQ()
		if err := services.StartFriendEventConsumer(context.Background(), "friend_events_push"); err != nil {
			log.Println("Failed to start friend event consumer:", err)
		}
	}

	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware())

	routes.PublicApi(router)

	addr := fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, config.AppConfig.Backend.Port)
	if addr == ":0" {
		addr = ":8080"
	}
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
