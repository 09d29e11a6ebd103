package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/traders/internal/domain/models"
)

// Processor is the transaction processor surface exposed over HTTP.
type Processor interface {
	RecordPurchase(ctx context.Context, form models.PurchaseForm) (models.PurchaseRecord, error)
	RecordSale(ctx context.Context, form models.SaleForm) (models.SaleRecord, error)
	DeleteRecords(ctx context.Context, kind models.Kind, indices []int) error
	ResetAll(ctx context.Context, confirmed bool) error
	Purchases(ctx context.Context) ([]models.PurchaseRecord, error)
	Sales(ctx context.Context) ([]models.SaleRecord, error)
	ModelSuggestions(item string) []string
	Items() []string
}

// Reporter renders the monthly summary.
type Reporter interface {
	Monthly(ctx context.Context) ([]models.MonthlySummary, error)
	MonthlyPDF(ctx context.Context, w io.Writer) error
}

// RecordsHandler adapts form submissions and table views to the processor.
type RecordsHandler struct {
	svc      Processor
	reporter Reporter
	logger   *zap.Logger
}

// NewRecordsHandler constructs the HTTP handler adapter.
func NewRecordsHandler(svc Processor, reporter Reporter, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{svc: svc, reporter: reporter, logger: logger}
}

// deleteRequest selects rows by their zero-based position in the listing.
type deleteRequest struct {
	Indices []int `json:"indices" binding:"required"`
}

// CreatePurchase saves a purchase form posted as JSON or form fields.
func (h *RecordsHandler) CreatePurchase(c *gin.Context) {
	var form models.PurchaseForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("invalid purchase payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.svc.RecordPurchase(c.Request.Context(), form)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Purchase data saved successfully!", "purchase": record})
}

// CreateSale saves a sale form posted as JSON or form fields.
func (h *RecordsHandler) CreateSale(c *gin.Context) {
	var form models.SaleForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("invalid sale payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.svc.RecordSale(c.Request.Context(), form)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Sale data saved successfully!", "sale": record})
}

// ListPurchases returns every purchase; a row's position is its delete index.
func (h *RecordsHandler) ListPurchases(c *gin.Context) {
	purchases, err := h.svc.Purchases(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

// ListSales returns every sale; a row's position is its delete index.
func (h *RecordsHandler) ListSales(c *gin.Context) {
	sales, err := h.svc.Sales(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

// DeleteRecords removes the selected rows of the table named in the path.
func (h *RecordsHandler) DeleteRecords(c *gin.Context) {
	kind, err := models.ParseKind(c.Param("kind"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid delete payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.DeleteRecords(c.Request.Context(), kind, req.Indices); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reset empties the purchase and sale tables when confirm=true.
func (h *RecordsHandler) Reset(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	if err := h.svc.ResetAll(c.Request.Context(), confirmed); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Models lists previously seen models for the item query parameter.
func (h *RecordsHandler) Models(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"item": c.Query("item"), "models": h.svc.ModelSuggestions(c.Query("item"))})
}

// Items lists the item picker entries.
func (h *RecordsHandler) Items(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.svc.Items()})
}

// MonthlyReport returns the monthly summary as JSON.
func (h *RecordsHandler) MonthlyReport(c *gin.Context) {
	months, err := h.reporter.Monthly(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": months})
}

// MonthlyReportPDF streams the monthly summary as a PDF download.
func (h *RecordsHandler) MonthlyReportPDF(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.reporter.MonthlyPDF(c.Request.Context(), &buf); err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="monthly_summary.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// writeError maps the error taxonomy to a status code and a user-facing message.
func (h *RecordsHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrMissingField),
		errors.Is(err, models.ErrInvalidNumber),
		errors.Is(err, models.ErrInvalidIndex),
		errors.Is(err, models.ErrConfirmationRequired):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNoMatchingPurchase):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrUnknownKind):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	} else {
		h.logger.Debug("request rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
