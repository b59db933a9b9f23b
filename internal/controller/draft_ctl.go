package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quadra_host_v1/internal/api/dto"
	"quadra_host_v1/internal/flow"
	"quadra_host_v1/internal/middleware"
	"quadra_host_v1/internal/model"
	"quadra_host_v1/internal/service"
)

// ==================== DraftController 开场向导控制器 ====================

// DraftController 开设球场向导控制器
type DraftController struct {
	draftService   *service.DraftService
	publishService *service.PublishService
}

// NewDraftController 创建向导控制器
func NewDraftController(draftService *service.DraftService, publishService *service.PublishService) *DraftController {
	return &DraftController{
		draftService:   draftService,
		publishService: publishService,
	}
}

// ==================== 会话接口 ====================

// Open 开启向导会话
// @Summary 开启开场向导会话
// @Tags Draft
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DraftSessionResponse
// @Router /drafts [post]
func (c *DraftController) Open(ctx *gin.Context) {
	userID := middleware.GetUserID(ctx)
	session := c.draftService.Open(userID)

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "会话已开启",
		"data":    c.toSessionResponse(session),
	})
}

// Get 查询向导会话
// @Summary 查询向导会话
// @Tags Draft
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话 ID"
// @Success 200 {object} dto.DraftSessionResponse
// @Failure 404 {object} map[string]interface{}
// @Router /drafts/{id} [get]
func (c *DraftController) Get(ctx *gin.Context) {
	session, err := c.draftService.Get(ctx.Param("id"), middleware.GetUserID(ctx))
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    c.toSessionResponse(session),
	})
}

// Merge 合并草稿补丁
// @Summary 合并草稿补丁
// @Description 只更新补丁中出现的字段，其余字段保持不变
// @Tags Draft
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话 ID"
// @Param request body model.DraftPatch true "补丁"
// @Success 200 {object} model.CourtDraft
// @Failure 400 {object} map[string]interface{}
// @Router /drafts/{id} [patch]
func (c *DraftController) Merge(ctx *gin.Context) {
	var patch model.DraftPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	draft, err := c.draftService.Merge(ctx.Param("id"), middleware.GetUserID(ctx), &patch)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "已更新",
		"data":    draft,
	})
}

// Abandon 放弃向导会话
// @Summary 放弃向导会话
// @Tags Draft
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话 ID"
// @Success 200 {object} map[string]interface{}
// @Router /drafts/{id} [delete]
func (c *DraftController) Abandon(ctx *gin.Context) {
	if err := c.draftService.Abandon(ctx.Param("id"), middleware.GetUserID(ctx)); err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "会话已放弃",
	})
}

// ==================== 照片接口 ====================

// AddPhotos 追加照片
// @Summary 追加照片引用
// @Tags Draft
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话 ID"
// @Param request body dto.AddPhotosRequest true "照片引用"
// @Success 200 {object} model.CourtDraft
// @Router /drafts/{id}/photos [post]
func (c *DraftController) AddPhotos(ctx *gin.Context) {
	var req dto.AddPhotosRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	draft, err := c.draftService.AddPhotos(ctx.Param("id"), middleware.GetUserID(ctx), req.Photos)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "已添加",
		"data":    draft,
	})
}

// RemovePhoto 删除照片
// @Summary 按下标删除照片
// @Tags Draft
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话 ID"
// @Param index path int true "照片下标"
// @Success 200 {object} model.CourtDraft
// @Router /drafts/{id}/photos/{index} [delete]
func (c *DraftController) RemovePhoto(ctx *gin.Context) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "照片下标必须是数字",
		})
		return
	}

	draft, err := c.draftService.RemovePhoto(ctx.Param("id"), middleware.GetUserID(ctx), index)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "已删除",
		"data":    draft,
	})
}

// ==================== 导航接口 ====================

// Continue 校验当前步骤并前进
// @Summary 校验当前步骤并前进
// @Tags Draft
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话 ID"
// @Param patch body model.DraftPatch false "前进前合并的字段"
// @Success 200 {object} dto.ContinueResponse
// @Failure 422 {object} map[string]interface{}
// @Router /drafts/{id}/continue [post]
func (c *DraftController) Continue(ctx *gin.Context) {
	// 可选：带 body 时先合并字段再前进，省一次 PATCH
	if ctx.Request.ContentLength > 0 {
		var patch model.DraftPatch
		if err := ctx.ShouldBindJSON(&patch); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    http.StatusBadRequest,
				"message": "请求参数错误: " + err.Error(),
			})
			return
		}
		if _, err := c.draftService.Merge(ctx.Param("id"), middleware.GetUserID(ctx), &patch); err != nil {
			c.writeError(ctx, err)
			return
		}
	}

	res, err := c.draftService.Continue(ctx.Param("id"), middleware.GetUserID(ctx))
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data": &dto.ContinueResponse{
			Step:     string(res.Step),
			Terminal: res.Terminal,
			Warnings: res.Warnings,
		},
	})
}

// Back 回退到上一步
// @Summary 回退到上一步
// @Tags Draft
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话 ID"
// @Success 200 {object} dto.BackResponse
// @Router /drafts/{id}/back [post]
func (c *DraftController) Back(ctx *gin.Context) {
	step, err := c.draftService.Back(ctx.Param("id"), middleware.GetUserID(ctx))
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    &dto.BackResponse{Step: string(step)},
	})
}

// GoTo 跳转到指定步骤
// @Summary 跳转到指定步骤
// @Tags Draft
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话 ID"
// @Param request body dto.GoToRequest true "目标步骤"
// @Success 200 {object} map[string]interface{}
// @Router /drafts/{id}/goto [post]
func (c *DraftController) GoTo(ctx *gin.Context) {
	var req dto.GoToRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "参数错误: " + err.Error(),
		})
		return
	}

	if err := c.draftService.GoTo(ctx.Param("id"), middleware.GetUserID(ctx), flow.Step(req.Step)); err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    gin.H{"step": req.Step},
	})
}

// ==================== 发布接口 ====================

// Publish 发布球场
// @Summary 发布球场
// @Description 复查所有步骤、上传照片、创建球场记录；成功后会话销毁
// @Tags Draft
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话 ID"
// @Success 200 {object} dto.PublishResponse
// @Failure 409 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /drafts/{id}/publish [post]
func (c *DraftController) Publish(ctx *gin.Context) {
	res, err := c.publishService.Publish(ctx.Request.Context(), ctx.Param("id"), middleware.GetUserID(ctx))
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "发布成功",
		"data": &dto.PublishResponse{
			Court:    toCourtInfo(res.Court),
			Warnings: res.Warnings,
		},
	})
}

// ==================== 辅助方法 ====================

func (c *DraftController) toSessionResponse(session *service.DraftSession) *dto.DraftSessionResponse {
	draft := session.Snapshot()
	return &dto.DraftSessionResponse{
		SessionID: session.ID,
		Step:      string(session.Step),
		Draft:     &draft,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

// writeError 把服务层错误映射为 HTTP 响应
// 发布环节的内部错误统一返回笼统提示，细节只进日志
func (c *DraftController) writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"code": 404, "message": err.Error()})
	case errors.Is(err, service.ErrSessionForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"code": 403, "message": err.Error()})
	case errors.Is(err, service.ErrNotAuthenticated):
		ctx.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": err.Error()})
	case errors.Is(err, service.ErrStepInvalid), errors.Is(err, service.ErrDraftInvalid):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"code": 422, "message": err.Error()})
	case errors.Is(err, service.ErrPublishInFlight), errors.Is(err, service.ErrNotAtPublishStep):
		ctx.JSON(http.StatusConflict, gin.H{"code": 409, "message": err.Error()})
	case errors.Is(err, flow.ErrNoNextStep):
		ctx.JSON(http.StatusConflict, gin.H{"code": 409, "message": err.Error()})
	case errors.Is(err, service.ErrUnknownStep):
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "发布球场失败，请稍后重试"})
	}
}
