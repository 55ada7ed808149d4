package handlers

import (
	"errors"
	"net/http"

	"memberbill/database"
	"memberbill/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateMemberRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	GroupID *uint  `json:"group_id"`
}

// CreateMember registers a member for the caller's tenant. Members start
// inactive; their first payment activates them.
func CreateMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.GroupID != nil {
		var group models.Group
		if err := database.DB.Where("tenant_id = ?", tenantID(c)).First(&group, *req.GroupID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
	}

	member := models.Member{
		TenantID: tenantID(c),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		GroupID:  req.GroupID,
		IsActive: false,
	}
	if err := database.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create member"})
		return
	}

	c.JSON(http.StatusCreated, member)
}

func GetMember(c *gin.Context) {
	memberID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var member models.Member
	err := database.DB.Preload("Subscriptions").Where("tenant_id = ?", tenantID(c)).First(&member, memberID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve member"})
		return
	}

	c.JSON(http.StatusOK, member)
}

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

func CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group := models.Group{TenantID: tenantID(c), Name: req.Name}
	if err := database.DB.Create(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, group)
}
