package handlers

import (
	"net/http"

	"go-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// contactRecord is a table whose rows are a models.Contact plus an id.
type contactRecord[T any] interface {
	*T
	SetContact(models.Contact)
}

func listRecords[T any, P contactRecord[T]](h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		records := []T{}
		if err := h.DB.WithContext(c.Request.Context()).Order("name asc").Find(&records).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch records"})
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

func createRecord[T any, P contactRecord[T]](h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.Contact
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}

		record := P(new(T))
		record.SetContact(input)
		if err := h.DB.WithContext(c.Request.Context()).Create(record).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create record"})
			return
		}
		c.JSON(http.StatusCreated, record)
	}
}

// updateRecord replaces every contact field of the record.
func updateRecord[T any, P contactRecord[T]](h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		db := h.DB.WithContext(c.Request.Context())

		record := P(new(T))
		if err := db.First(record, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}

		var input models.Contact
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}

		record.SetContact(input)
		if err := db.Save(record).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update record"})
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func deleteRecord[T any, P contactRecord[T]](h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		res := h.DB.WithContext(c.Request.Context()).Delete(P(new(T)), id)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete record"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
	}
}
