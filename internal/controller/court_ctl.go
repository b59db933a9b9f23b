package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quadra_host_v1/internal/api/dto"
	"quadra_host_v1/internal/middleware"
	"quadra_host_v1/internal/model"
	"quadra_host_v1/internal/repository"
)

// ==================== CourtController 球场控制器 ====================

// CourtController 已发布球场查询控制器
type CourtController struct {
	courtRepo repository.CourtRepository
}

// NewCourtController 创建球场控制器
func NewCourtController(courtRepo repository.CourtRepository) *CourtController {
	return &CourtController{courtRepo: courtRepo}
}

// List 我的球场列表
// @Summary 当前场主的球场列表
// @Tags Court
// @Produce json
// @Security BearerAuth
// @Param city query string false "按城市筛选"
// @Param only_active query bool false "只看上架中"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.CourtListResponse
// @Router /courts [get]
func (c *CourtController) List(ctx *gin.Context) {
	var req dto.CourtListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	courts, total, err := c.courtRepo.ListByOwner(ctx.Request.Context(), middleware.GetUserID(ctx), repository.CourtFilter{
		City:       req.City,
		OnlyActive: req.OnlyActive,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询失败",
		})
		return
	}

	list := make([]*dto.CourtInfo, len(courts))
	for i := range courts {
		list[i] = toCourtInfo(&courts[i])
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data": &dto.CourtListResponse{
			List:  list,
			Total: total,
		},
	})
}

// Detail 球场详情
// @Summary 球场详情
// @Tags Court
// @Produce json
// @Security BearerAuth
// @Param id path int true "球场 ID"
// @Success 200 {object} dto.CourtInfo
// @Failure 404 {object} map[string]interface{}
// @Router /courts/{id} [get]
func (c *CourtController) Detail(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "球场 ID 必须是数字",
		})
		return
	}

	court, err := c.courtRepo.GetByID(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "查询失败",
		})
		return
	}
	if court == nil || court.OwnerID != middleware.GetUserID(ctx) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": "球场不存在",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    toCourtInfo(court),
	})
}

// ==================== 转换 ====================

// toCourtInfo 转换为 DTO
func toCourtInfo(court *model.Court) *dto.CourtInfo {
	return &dto.CourtInfo{
		ID:          court.ID,
		Name:        court.Name,
		Description: court.Description,
		Sport:       court.Sport,
		Sports:      court.Sports,
		Type:        court.Type,

		Address:    court.Address,
		Number:     court.Number,
		PostalCode: court.PostalCode,
		City:       court.City,
		State:      court.State,
		Country:    court.Country,

		Amenities:  court.Amenities,
		Images:     court.Images,
		CoverImage: court.CoverImage,

		Capacity:      court.Capacity,
		CourtCount:    court.CourtCount,
		BenchCount:    court.BenchCount,
		RestroomCount: court.RestroomCount,

		PricePerHour:        court.PricePerHour,
		WeekendPricePerHour: court.WeekendPricePerHour,

		Details: court.Details,

		IsActive:   court.IsActive,
		IsVerified: court.IsVerified,
		CreatedAt:  court.CreatedAt,
	}
}
