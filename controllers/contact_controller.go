package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wangari/restaurant-api/config"
	"github.com/wangari/restaurant-api/middleware"
	"github.com/wangari/restaurant-api/models"
	"github.com/wangari/restaurant-api/services"
)

// CreateContactRequest represents the public contact form payload
type CreateContactRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject" binding:"required"`
	Message     string `json:"message" binding:"required"`
	ContactType string `json:"contact_type"`
}

// UpdateContactRequest represents the staff contact workflow payload
type UpdateContactRequest struct {
	Status        *string `json:"status"`
	AdminNotes    *string `json:"admin_notes"`
	AdminResponse *string `json:"admin_response"`
	AssignedToID  *uint   `json:"assigned_to_id"`
}

// CreateContactSubmission handles POST /api/v1/contact - public contact form
func CreateContactSubmission(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	contactType := req.ContactType
	if contactType == "" {
		contactType = models.ContactGeneral
	}
	if !models.ValidContactType(contactType) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CONTACT_TYPE",
				"message": fmt.Sprintf("Unknown contact type: %s", contactType),
			},
		})
		return
	}

	submission := models.ContactSubmission{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		Subject:     req.Subject,
		Message:     req.Message,
		ContactType: contactType,
		Status:      models.ContactStatusNew,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	}

	db := config.GetDB()
	if err := db.Create(&submission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to submit contact form",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"id":      submission.ID,
			"message": "Thank you for contacting us. We will get back to you soon.",
		},
	})
}

// AdminListContacts handles GET /api/v1/admin/contacts - staff listing with
// status and type filters
func AdminListContacts(c *gin.Context) {
	db := config.GetDB()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&models.ContactSubmission{})
	if status := c.Query("status"); status != "" {
		if !models.ValidContactStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": fmt.Sprintf("Unknown contact status: %s", status),
				},
			})
			return
		}
		query = query.Where("status = ?", status)
	}
	if contactType := c.Query("contact_type"); contactType != "" {
		query = query.Where("contact_type = ?", contactType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count contact submissions",
			},
		})
		return
	}

	var submissions []models.ContactSubmission
	if err := query.Preload("AssignedTo").
		Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch contact submissions",
			},
		})
		return
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    submissions,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// AdminUpdateContact handles PUT /api/v1/admin/contacts/:id - moves a
// submission through the handling workflow. Reaching resolved stamps
// ResolvedAt.
func AdminUpdateContact(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var submission models.ContactSubmission
	if err := db.First(&submission, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONTACT_NOT_FOUND",
				"message": "Contact submission not found",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Status != nil {
		if !models.ValidContactStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": fmt.Sprintf("Unknown contact status: %s", *req.Status),
				},
			})
			return
		}
		updates["status"] = *req.Status
		if *req.Status == models.ContactStatusResolved && submission.ResolvedAt == nil {
			now := time.Now()
			updates["resolved_at"] = &now
		}
	}
	if req.AdminNotes != nil {
		updates["admin_notes"] = *req.AdminNotes
	}
	if req.AdminResponse != nil {
		updates["admin_response"] = *req.AdminResponse
	}
	if req.AssignedToID != nil {
		var assignee models.User
		if err := db.First(&assignee, *req.AssignedToID).Error; err != nil || !assignee.Role.IsStaff() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_ASSIGNEE",
					"message": "Contacts can only be assigned to staff members",
				},
			})
			return
		}
		updates["assigned_to_id"] = *req.AssignedToID
	}

	if len(updates) > 0 {
		oldStatus := submission.Status
		if err := db.Model(&submission).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update contact submission",
				},
			})
			return
		}

		newStatus := oldStatus
		if req.Status != nil {
			newStatus = *req.Status
		}
		services.LogActivity(db, &user.ID, models.ActionUpdate, "ContactSubmission",
			fmt.Sprintf("%d", submission.ID),
			fmt.Sprintf("Updated contact submission %d", submission.ID),
			oldStatus, newStatus, c.ClientIP())
	}

	if err := db.Preload("AssignedTo").First(&submission, submission.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch updated submission",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    submission,
	})
}
