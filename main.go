package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"threads/config"
	"threads/database"
	"threads/handlers"
	"threads/media"
	"threads/routes"
	"threads/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	log.Println("Connecting to MongoDB...")
	client, dbErr := database.Connect(cfg.MongoURI)
	for i := 1; dbErr != nil && i < 3; i++ {
		log.Printf("MongoDB connection attempt %d failed: %v", i, dbErr)
		time.Sleep(2 * time.Second)
		client, dbErr = database.Connect(cfg.MongoURI)
	}
	if dbErr != nil {
		log.Fatal("Failed to connect to MongoDB: ", dbErr)
	}
	defer database.Disconnect(client)
	log.Println("DB Connected...")

	db := client.Database(cfg.DBName)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			cancel()
			log.Fatal("Failed to create indexes: ", err)
		}
		cancel()
	}

	uploader, err := media.NewCloudinary(cfg.CloudinaryURL)
	if err != nil {
		log.Fatal("Cloudinary configuration error: ", err)
	}

	st := store.NewMongo(db)
	h := handlers.New(st, uploader, cfg)
	router := routes.Setup(cfg, st, h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("App is listening on PORT : %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown:", err)
	}
	log.Println("Server stopped gracefully")
}
