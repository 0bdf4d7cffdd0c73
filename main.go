package main

import (
	"github.com/cambridgeconnect/server/config"
	"github.com/cambridgeconnect/server/models"
	"github.com/cambridgeconnect/server/routes"
	"github.com/cambridgeconnect/server/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(
		&models.User{},
		&models.Organization{},
		&models.Forum{},
		&models.ForumPost{},
		&models.ForumReply{},
	)

	router := routes.SetupRouter(db)

	addr := ":" + cfg.AppPort
	utils.Sugar.Infof("cambridge-connect server listening on %s", addr)
	if err := utils.GraceServer(addr, router); err != nil {
		utils.Sugar.Errorf("server exited: %v", err)
	}
}
