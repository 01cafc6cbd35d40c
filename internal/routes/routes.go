package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	handler "bank-reconciliation-backend/internal/handlers"
	"bank-reconciliation-backend/internal/repository"
	service "bank-reconciliation-backend/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	bankRepo := repository.NewBankTransactionRepository(db)
	bookRepo := repository.NewBookTransactionRepository(db)

	reconService := service.NewReconciliationService(bankRepo, bookRepo)
	reconHandler := handler.NewReconciliationHandler(reconService)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Reconciliation run routes
	runs := api.Group("/reconciliation/runs")
	runs.POST("", reconHandler.StartRun)
	runs.GET("/:runId", reconHandler.GetRun)
	runs.GET("/:runId/candidates", reconHandler.ListCandidates)
	runs.POST("/:runId/rerun", reconHandler.Rerun)
	runs.POST("/:runId/bulk-approve", reconHandler.BulkApprove)
	runs.POST("/:runId/finalize", reconHandler.Finalize)

	// Candidate-level decisions
	runs.POST("/:runId/transactions/:bankId/approve", reconHandler.Approve)
	runs.POST("/:runId/transactions/:bankId/reject", reconHandler.Reject)
	runs.POST("/:runId/transactions/:bankId/match", reconHandler.ManualMatch)

	// Transaction ingestion
	api.POST("/bank-transactions/upload", reconHandler.UploadBankTransactions)

	books := api.Group("/book-transactions")
	{
		books.POST("", reconHandler.CreateBookTransaction)
		books.GET("", reconHandler.ListBookTransactions)
	}
}
