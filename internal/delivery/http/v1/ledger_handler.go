package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvchain-backend/internal/delivery/http/response"
)

type LedgerHandler struct {
	ledger Ledger
}

func NewLedgerHandler(public *gin.RouterGroup, l Ledger) {
	handler := &LedgerHandler{ledger: l}

	public.POST("/init", handler.Init)
	public.GET("/health", handler.Health)
}

// Init seeds the ledger. The handler is idempotent, so exposing it
// unauthenticated matches the original deployment flow without risk of
// duplicate seeds.
func (h *LedgerHandler) Init(c *gin.Context) {
	result, err := h.ledger.Submit("InitLedger", nil, txNow())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Ledger initialized successfully", string(result))
}

// Health runs a cheap read-only query to prove the state machine is
// reachable and decoding records.
func (h *LedgerHandler) Health(c *gin.Context) {
	if _, err := h.ledger.Evaluate("GetAllJobs", nil, txNow()); err != nil {
		response.Error(c, http.StatusServiceUnavailable, "Ledger unavailable", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Ledger operational", nil)
}
