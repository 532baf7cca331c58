package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"user_service/internal/app/router"
	"user_service/internal/feature/users/adapters"
	"user_service/internal/feature/users/transport/handler"
	"user_service/internal/feature/users/usecase"
	"user_service/internal/platform/cache"
	"user_service/internal/platform/db"
	"user_service/internal/platform/hash"
	jwtmw "user_service/internal/platform/jwt"
	platformredis "user_service/internal/platform/redis"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	// db
	gdb := db.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository, wrapped with the Redis cache
	userRepo := adapters.NewUserMySQL(gdb)
	cachedRepo := cache.NewCachingUserRepository(rdb, envMinutes("CACHE_TTL_MIN", 5), userRepo, "users")

	// JWT_SECRET check (development-time warning)
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	// Usecase
	hasher := hash.NewBcryptHasher(0)
	tokens := jwtmw.NewGenerator(secret, envMinutes("JWT_TTL_MIN", 60))
	userUC := usecase.NewUserUsecase(cachedRepo, hasher, tokens)

	// Handler and router
	userH := handler.NewUserHandler(userUC)
	r := router.NewRouter(userH)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

// envMinutes reads a duration in minutes from the environment, falling back
// to def when unset or unparsable.
func envMinutes(key string, def int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return time.Duration(def) * time.Minute
}
