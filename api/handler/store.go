package handler

import (
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/storelane/store-service/api/transport"
	"github.com/storelane/store-service/domain"
	"github.com/storelane/store-service/pkg/httpcontext"
	"github.com/storelane/store-service/repository"
	idemUC "github.com/storelane/store-service/usecase/idempotency"
	storeUC "github.com/storelane/store-service/usecase/store"
)

const headerIdempotencyKey = "Idempotency-Key"

type StoreHandler struct {
	baseHandler
	uc   *storeUC.UseCase
	idem *idemUC.Service
}

func NewStoreHandler(uc *storeUC.UseCase, idem *idemUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *StoreHandler {
	return &StoreHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		idem:        idem,
	}
}

// @Summary Register a store
// @Tags stores
// @Accept json
// @Produce json
// @Router /api/v1/stores [post]
func (h *StoreHandler) Register(ctx *fasthttp.RequestCtx) {
	userID, ok := h.authenticatedUser(ctx)
	if !ok {
		return
	}

	var req transport.RegisterStoreRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	idemKey := string(ctx.Request.Header.Peek(headerIdempotencyKey))
	if idemKey != "" && !h.idem.Ensure(stdCtx, idemKey, 0) {
		// A previous attempt with the same key already went through.
		// Replay its result when we recorded one, reject otherwise.
		storeID, err := h.idem.Result(stdCtx, idemKey)
		if err == nil && storeID != "" {
			store, getErr := h.uc.Get(stdCtx, storeID)
			if getErr == nil {
				h.respondSuccess(ctx, http.StatusOK, transport.NewStoreResponse(*store))
				return
			}
		}
		h.respondError(ctx, domain.ErrDuplicateRequest)
		return
	}

	store, err := h.uc.Register(stdCtx, userID, req.Name, req.Description)
	if err != nil {
		if idemKey != "" {
			if relErr := h.idem.Release(stdCtx, idemKey); relErr != nil {
				h.logger.Warn("idempotency key release failed", zap.Error(relErr))
			}
		}
		h.respondError(ctx, err)
		return
	}

	if idemKey != "" {
		if storeErr := h.idem.StoreResult(stdCtx, idemKey, store.ID); storeErr != nil {
			h.logger.Warn("idempotency result not recorded", zap.Error(storeErr))
		}
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewStoreResponse(*store))
}

// @Summary Update store info
// @Tags stores
// @Accept json
// @Produce json
// @Router /api/v1/stores/{id} [put]
func (h *StoreHandler) Update(ctx *fasthttp.RequestCtx) {
	userID, ok := h.authenticatedUser(ctx)
	if !ok {
		return
	}
	storeID := pathValue(ctx, "id")

	var req transport.UpdateStoreRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	store, err := h.uc.Update(stdCtx, storeID, userID, req.Name, req.Description)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewStoreResponse(*store))
}

// @Summary Delete a store
// @Tags stores
// @Router /api/v1/stores/{id} [delete]
func (h *StoreHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID, ok := h.authenticatedUser(ctx)
	if !ok {
		return
	}
	storeID := pathValue(ctx, "id")

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	store, err := h.uc.Delete(stdCtx, storeID, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewStoreResponse(*store))
}

// @Summary Suspend a store
// @Tags stores
// @Router /api/v1/stores/{id}/suspend [post]
func (h *StoreHandler) Suspend(ctx *fasthttp.RequestCtx) {
	userID, ok := h.authenticatedUser(ctx)
	if !ok {
		return
	}
	storeID := pathValue(ctx, "id")

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	store, err := h.uc.Suspend(stdCtx, storeID, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewStoreResponse(*store))
}

// @Summary Get a store by id
// @Tags stores
// @Router /api/v1/stores/{id} [get]
func (h *StoreHandler) GetStore(ctx *fasthttp.RequestCtx) {
	storeID := pathValue(ctx, "id")

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	store, err := h.uc.Get(stdCtx, storeID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewStoreResponse(*store))
}

// @Summary Get the caller's own store
// @Tags stores
// @Router /api/v1/stores/me [get]
func (h *StoreHandler) GetMyStore(ctx *fasthttp.RequestCtx) {
	userID, ok := h.authenticatedUser(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	store, err := h.uc.GetByOwner(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewStoreResponse(*store))
}

// @Summary List stores
// @Tags stores
// @Router /api/v1/stores [get]
func (h *StoreHandler) ListStores(ctx *fasthttp.RequestCtx) {
	filter := repository.StoreFilter{
		Status: domain.StoreStatus(ctx.QueryArgs().Peek("status")),
		Name:   string(ctx.QueryArgs().Peek("name")),
		Limit:  queryInt(ctx, "limit"),
		Offset: queryInt(ctx, "offset"),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stores, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewStoreListResponse(stores))
}

// @Summary List a store's audit trail
// @Tags stores
// @Router /api/v1/stores/{id}/audits [get]
func (h *StoreHandler) GetAudits(ctx *fasthttp.RequestCtx) {
	userID, ok := h.authenticatedUser(ctx)
	if !ok {
		return
	}
	storeID := pathValue(ctx, "id")

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	audits, err := h.uc.Audits(stdCtx, storeID, userID, queryInt(ctx, "limit"), queryInt(ctx, "offset"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewAuditListResponse(audits))
}

func (h *StoreHandler) authenticatedUser(ctx *fasthttp.RequestCtx) (string, bool) {
	userID := string(ctx.Request.Header.Peek("X-User-ID"))
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing user id", nil))
		return "", false
	}
	return userID, true
}

func pathValue(ctx *fasthttp.RequestCtx, name string) string {
	if v, ok := ctx.UserValue(name).(string); ok {
		return v
	}
	return ""
}

func queryInt(ctx *fasthttp.RequestCtx, name string) int {
	raw := string(ctx.QueryArgs().Peek(name))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
