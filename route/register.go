package route

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/52Jolynn/bindb/bdata"
	"github.com/52Jolynn/bindb/data"
)

type Options struct {
	MaxBulk    int
	RetryAfter int //秒
	ProbeBINs  []string
	Metrics    http.Handler
}

func Register(r *gin.Engine, svc *bdata.Service, options Options) {
	h := &binHandler{svc: svc, options: options}

	r.GET("/", func(context *gin.Context) {
		context.String(http.StatusOK, "Hello bindb, date: %s", time.Now().Format(data.DateTimePattern))
	})
	if options.Metrics != nil {
		r.GET("/metrics", gin.WrapH(options.Metrics))
	}

	g := r.Group("/api")
	{
		g.GET("/lookup", h.binQuery)
		g.GET("/lookup/:bin", h.binQuery)
		g.GET("/bulk-lookup", h.bulkQuery)
		g.GET("/stats", h.stats)
		g.GET("/health", h.health)
		g.GET("/test", h.probe)
	}
}
