package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/router"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the blog web server",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	user, err := db.EnsureUser(db.DB, cfg.SuperUserName, cfg.SuperUserPassword)
	if err != nil {
		return fmt.Errorf("failed to ensure super user: %w", err)
	}
	if user != nil {
		log.Printf("[auth] super user %s ready", user.Username)
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(db.DB, cfg)
	log.Printf("listening on %s (database %s)", cfg.ListenAddr, cfg.DatabasePath)
	if err := r.Run(cfg.ListenAddr); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}
