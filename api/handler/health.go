package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/catalogkit/products/api/transport"
	"github.com/catalogkit/products/internal/infrastructure/monitor"
	"github.com/catalogkit/products/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

type healthReport struct {
	Timestamp  time.Time    `json:"timestamp"`
	PostgreSQL bool         `json:"postgresql"`
	Redis      bool         `json:"redis"`
	Outbox     outboxReport `json:"outbox"`
}

type outboxReport struct {
	Online bool `json:"online"`
	Depth  int  `json:"depth"`
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// Check reports dependency health. The outbox depth is informational; a
// backed-up outbox does not fail the check, only unreachable stores do.
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	report := healthReport{
		Timestamp:  time.Now().UTC(),
		PostgreSQL: status.PostgreSQL,
		Redis:      status.Redis,
		Outbox: outboxReport{
			Online: status.Outbox,
			Depth:  status.OutboxDepth,
		},
	}

	if status.PostgreSQL && status.Redis {
		h.respondSuccess(ctx, http.StatusOK, report)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "dependencies unhealthy", report))
}
