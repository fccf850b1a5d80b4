package main

import (
	"fmt"
	"time"

	"keygate/auth-api/api"
	"keygate/auth-api/config"
	"keygate/auth-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	a, err := api.NewRouter()
	if err != nil {
		panic(err)
	}

	if config.PruneOnStartup() {
		service.PruneExpired(a.DB, a.Ledger)
	}

	service.TokenCleanup(time.Hour, a.DB, a.Ledger)

	zap.L().Info("Server starting")

	err = a.Router.Run(fmt.Sprintf(":%d", viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}
