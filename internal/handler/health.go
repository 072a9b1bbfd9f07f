package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB, Redis and (when bulk writes are enabled) the pgx pool; never
// exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		body := gin.H{}
		ok := true

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
			ok = false
		}
		body["db"] = dbStatus

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
			ok = false
		}
		body["redis"] = redisStatus

		if pool != nil {
			pgxStatus := "connected"
			if pool.Ping(ctx) != nil {
				pgxStatus = "error"
				ok = false
			}
			body["pgx"] = pgxStatus
		}

		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		body["ok"] = ok
		c.JSON(status, body)
	}
}
