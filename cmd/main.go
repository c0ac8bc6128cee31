package main

import (
	"os"

	"github.com/duccv/go-product-catalog/config"
	"github.com/duccv/go-product-catalog/internal/app"
	"github.com/duccv/go-product-catalog/pkg/logger"
	"go.uber.org/zap"

	_ "github.com/duccv/go-product-catalog/docs"
)

//	@title			PRODUCT CATALOG APIs
//	@version		1.0
//	@description	Product catalog Swagger APIs.
//	@termsOfService	http://swagger.io/terms/
//	@contact.name	DucCV
//	@contact.email	duccv@gviet.vn

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				JWT authorization header
func main() {
	env := config.GetEnv()

	zap.ReplaceGlobals(logger.GetLogger(env.LoggerConfig))

	if err := app.Run(env); err != nil {
		zap.L().Error("Server exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}
