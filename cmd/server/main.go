package main

import (
	"context"
	"log"
	"os"
	"time"

	"firstbite/internal/controllers/http"
	"firstbite/internal/infra"
	mmysql "firstbite/internal/infra/mysql"
	"firstbite/internal/infra/rabbitmq"
	mysqlrepo "firstbite/internal/repository/mysql"
	"firstbite/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	orderRepo := mysqlrepo.NewOrderRepository(db)
	tableRepo := mysqlrepo.NewTableRepository(db)
	counterRepo := mysqlrepo.NewCounterRepository(db)
	taxConfigRepo := mysqlrepo.NewTaxConfigRepository(db)

	menuClient := infra.NewMenuClient(os.Getenv("MENU_SERVICE_URL"), 2*time.Second)

	publisher, err := rabbitmq.NewPublisher(os.Getenv("RABBITMQ_URL"), "order.exchange")
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	chargeService := services.NewChargeService(taxConfigRepo)
	numbers := services.NewOrderNumberGenerator(counterRepo)
	orderService := services.NewOrderService(orderRepo, tableRepo, menuClient, chargeService, numbers, publisher)
	tableService := services.NewTableService(tableRepo, orderRepo)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         os.Getenv("REDIS_HOST") + ":6379",
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	chargeService.SetRedisClient(redisClient)
	orderService.SetRedisClient(redisClient)

	ctx := context.Background()
	go func() {
		time.Sleep(5 * time.Second)
		if err := chargeService.WarmupConfigCache(ctx); err != nil {
			log.Printf("Failed to warm up tax config cache: %v", err)
		} else {
			log.Println("Tax config cache warmed up")
		}
	}()

	handler := http.NewHandler(orderService, tableService, chargeService)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting order service on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
