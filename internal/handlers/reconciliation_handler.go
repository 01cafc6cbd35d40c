package handler

import (
	"encoding/csv"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bank-reconciliation-backend/internal/services/matching"
	service "bank-reconciliation-backend/internal/services/reconciliation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReconciliationHandler struct {
	service *service.ReconciliationService
}

func NewReconciliationHandler(s *service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: s}
}

// StartRun kicks off a matching run over the stored transactions. Settings
// fields omitted from the body fall back to defaults.
func (h *ReconciliationHandler) StartRun(c *gin.Context) {
	settings := matching.DefaultSettings()
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
			return
		}
	}

	status, err := h.service.StartRun(settings)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"run_id": status.Run.ID.String(),
		"status": status.Run.Status,
		"stats":  status.Stats,
	})
}

func (h *ReconciliationHandler) GetRun(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
		return
	}

	status, err := h.service.GetRun(runID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *ReconciliationHandler) ListCandidates(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
		return
	}

	candidates, err := h.service.Candidates(runID, c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": candidates, "count": len(candidates)})
}

// Rerun recomputes the run from scratch, throwing away every decision made
// so far. The UI confirms with the user before calling this.
func (h *ReconciliationHandler) Rerun(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
		return
	}

	status, err := h.service.Rerun(runID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "matching re-run", "stats": status.Stats})
}

func (h *ReconciliationHandler) Approve(c *gin.Context) {
	runID, bankID, ok := h.runAndBankIDs(c)
	if !ok {
		return
	}

	if err := h.service.Approve(runID, bankID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "candidate approved"})
}

func (h *ReconciliationHandler) Reject(c *gin.Context) {
	runID, bankID, ok := h.runAndBankIDs(c)
	if !ok {
		return
	}

	if err := h.service.Reject(runID, bankID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "candidate rejected"})
}

func (h *ReconciliationHandler) BulkApprove(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
		return
	}

	count, err := h.service.BulkApprove(runID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "bulk approve completed",
		"candidates_approved": count,
	})
}

func (h *ReconciliationHandler) ManualMatch(c *gin.Context) {
	runID, bankID, ok := h.runAndBankIDs(c)
	if !ok {
		return
	}

	var payload struct {
		BookTransactionID string `json:"book_transaction_id"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	bookID, err := uuid.Parse(payload.BookTransactionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book transaction ID"})
		return
	}

	if err := h.service.ManualMatch(runID, bankID, bookID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction manually matched"})
}

func (h *ReconciliationHandler) Finalize(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
		return
	}

	result, err := h.service.Finalize(runID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "reconciliation finalized",
		"matched":        len(result.Matched),
		"unmatched_bank": len(result.UnmatchedBank),
		"unmatched_book": len(result.UnmatchedBook),
		"result":         result,
	})
}

// UploadBankTransactions ingests a fixed-format CSV statement:
// date, description, amount, reference. Date is yyyy-mm-dd or dd-mm-yyyy.
func (h *ReconciliationHandler) UploadBankTransactions(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	log.Println("Received statement file:", header.Filename, "size:", header.Size)

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Skip header
	_, _ = reader.Read()

	inserted := 0
	rowNum := 0

	for {
		record, err := reader.Read()
		rowNum++

		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("skipping row %d: %v", rowNum, err)
			continue
		}
		if len(record) < 3 || strings.Join(record, "") == "" {
			continue
		}

		date, err := parseDate(strings.TrimSpace(record[0]))
		if err != nil {
			log.Printf("skipping row %d: invalid date %q", rowNum, record[0])
			continue
		}
		description := strings.TrimSpace(record[1])
		amount, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			log.Printf("skipping row %d: invalid amount %q", rowNum, record[2])
			continue
		}
		reference := ""
		if len(record) > 3 {
			reference = strings.TrimSpace(record[3])
		}

		if _, err := h.service.CreateBankTransaction(description, amount, reference, date); err != nil {
			log.Printf("row %d insert failed: %v", rowNum, err)
			continue
		}
		inserted++
	}

	log.Println("Total bank transactions inserted:", inserted)

	c.JSON(http.StatusOK, gin.H{
		"file":              header.Filename,
		"transactionsAdded": inserted,
	})
}

func (h *ReconciliationHandler) CreateBookTransaction(c *gin.Context) {
	var payload struct {
		Date        string  `json:"date"` // yyyy-mm-dd
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Reference   string  `json:"reference"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description required"})
		return
	}

	date, err := parseDate(payload.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected yyyy-mm-dd"})
		return
	}

	entry, err := h.service.CreateBookTransaction(payload.Description, payload.Amount, payload.Reference, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "book transaction created", "transaction": entry})
}

func (h *ReconciliationHandler) ListBookTransactions(c *gin.Context) {
	entries, err := h.service.ListBookTransactions(c.Query("filter"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries, "count": len(entries)})
}

func (h *ReconciliationHandler) runAndBankIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
		return uuid.Nil, uuid.Nil, false
	}
	bankID, err := uuid.Parse(c.Param("bankId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bank transaction ID"})
		return uuid.Nil, uuid.Nil, false
	}
	return runID, bankID, true
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
	case errors.Is(err, service.ErrRunFinalized):
		c.JSON(http.StatusConflict, gin.H{"error": "run already finalized"})
	case errors.Is(err, matching.ErrUnknownCandidate):
		c.JSON(http.StatusNotFound, gin.H{"error": "no candidate for bank transaction"})
	case errors.Is(err, matching.ErrUnknownBookTransaction):
		c.JSON(http.StatusNotFound, gin.H{"error": "book transaction not part of this run"})
	case errors.Is(err, matching.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "candidate is not awaiting review"})
	case errors.Is(err, matching.ErrPendingReview):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "candidates still pending review"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseDate(s string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		date, err = time.Parse("02-01-2006", s)
	}
	return date, err
}
