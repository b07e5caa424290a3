package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/maktabhub/maktab/core/stats"
)

type statsApi struct {
	svc *stats.Service
}

func registerStatsAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := statsApi{svc: deps.StatsSvc}

	sg := g.Group("/stats", jwt)
	sg.GET("", api.overview, adminMiddleware())
}

func (api *statsApi) overview(ctx echo.Context) error {
	ov, err := api.svc.Overview()
	if err != nil {
		return errors.Wrap(err, "building stats overview")
	}
	return ctx.JSON(http.StatusOK, ov)
}
