package route

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"

	"github.com/52Jolynn/bindb/bdata"
	"github.com/52Jolynn/bindb/mod"
)

type binHandler struct {
	svc     *bdata.Service
	options Options
}

func (h *binHandler) binQuery(ctx *gin.Context) {
	var (
		result mod.LookupResult
		err    error
	)
	if result, err = h.svc.Lookup(ctx.Param("bin")); err != nil {
		h.abort(ctx, err)
		return
	}
	if !result.Found() {
		logger.Debugf("bin %s not found, similar: %v", result.Prefix, result.SimilarBINs())
		ctx.JSON(http.StatusOK, mod.ResponseNotFound{
			ResponseValue: mod.ResponseValue{Success: false, Message: mod.MsgNotFound},
			SimilarBINs:   result.SimilarBINs(),
		})
		return
	}
	ctx.JSON(http.StatusOK, mod.ResponseData{ResponseValue: mod.ResponseValue{Success: true}, Data: result.Record})
}

func (h *binHandler) bulkQuery(ctx *gin.Context) {
	bins := splitBins(ctx.Query("bins"))
	if len(bins) == 0 {
		ctx.JSON(http.StatusBadRequest, mod.ResponseValue{Success: false, Message: mod.MsgMissingBins})
		return
	}
	if len(bins) > h.options.MaxBulk {
		ctx.JSON(http.StatusBadRequest, mod.ResponseValue{
			Success: false,
			Message: mod.MsgTooManyBins + ", max " + strconv.Itoa(h.options.MaxBulk),
		})
		return
	}

	results, err := h.svc.BulkLookup(bins)
	if err != nil {
		h.abort(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, mod.ResponseBulk{ResponseValue: mod.ResponseValue{Success: true}, Results: results})
}

func (h *binHandler) stats(ctx *gin.Context) {
	stats, err := h.svc.Stats()
	if err != nil {
		h.abort(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, mod.ResponseStats{ResponseValue: mod.ResponseValue{Success: true}, Stats: stats})
}

func (h *binHandler) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.svc.Health())
}

func (h *binHandler) probe(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, mod.ResponseProbe{
		DatabaseStatus: mod.DatabaseStatus{
			Loaded:       h.svc.State() == bdata.StateReady,
			TotalRecords: h.svc.TotalRecords(),
		},
		TestResults: h.svc.Probe(h.options.ProbeBINs),
	})
}

func (h *binHandler) abort(ctx *gin.Context, err error) {
	switch errors.Cause(err) {
	case bdata.ErrInvalidInput:
		ctx.JSON(http.StatusBadRequest, mod.ResponseValue{Success: false, Message: mod.MsgInvalidBIN})
	case bdata.ErrNotReady:
		ctx.Header("Retry-After", strconv.Itoa(h.options.RetryAfter))
		ctx.JSON(http.StatusServiceUnavailable, mod.ResponseRetry{
			ResponseValue: mod.ResponseValue{Success: false, Message: mod.MsgNotReady},
			RetryAfter:    h.options.RetryAfter,
		})
	case bdata.ErrUnavailable:
		ctx.JSON(http.StatusServiceUnavailable, mod.ResponseValue{Success: false, Message: mod.MsgUnavailable})
	default:
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, mod.ResponseValue{Success: false, Message: mod.MsgInternalError})
	}
}

func splitBins(value string) []string {
	var result []string
	for _, bin := range strings.Split(value, ",") {
		if bin = strings.TrimSpace(bin); bin != "" {
			result = append(result, bin)
		}
	}
	return result
}
