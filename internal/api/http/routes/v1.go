package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/wedding-prep/taskboard/internal/alerts"
	"github.com/wedding-prep/taskboard/internal/api/http/middleware"
	"github.com/wedding-prep/taskboard/internal/categories"
	"github.com/wedding-prep/taskboard/internal/members"
	"github.com/wedding-prep/taskboard/internal/tasks"
)

type Deps struct {
	DB            *pgxpool.Pool
	Redis         *redis.Client
	BasicAuthUser string
	BasicAuthPass string
}

// Register wires the /api surface: the three wedding resources behind
// the shared basic-auth gate, plus the alert intake.
func Register(r *gin.Engine, dep Deps) {
	api := r.Group("/api")
	api.Use(middleware.BasicAuth(dep.BasicAuthUser, dep.BasicAuthPass))

	categories.Register(api.Group("/wedding-categories"), categories.NewRepo(dep.DB))
	members.Register(api.Group("/wedding-members"), members.NewRepo(dep.DB))
	tasks.Register(api.Group("/wedding-tasks"), tasks.NewRepo(dep.DB))

	alertGroup := api.Group("/alerts")
	alertGroup.Use(middleware.RateLimit(rate.Limit(5), 10))
	alerts.Register(alertGroup, alerts.NewRepo(dep.Redis))
}
