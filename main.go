package main

import (
	"github.com/pkruk/blogpulse/config"
	"github.com/pkruk/blogpulse/models"
	"github.com/pkruk/blogpulse/routes"
	"github.com/pkruk/blogpulse/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	// Auto-migrate posts, comments, the event store and the reaction counters
	db := config.InitDatabase(
		&models.Post{},
		&models.Comment{},
		&models.ViewEvent{},
		&models.ReactionEvent{},
		&models.PostReactionCount{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
