package controller

import (
	"interview_prep_backend/internal/curriculum"
	"interview_prep_backend/internal/service"
	"interview_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Tracker *service.TopicProgressService
}

func NewProgressController(tracker *service.TopicProgressService) *ProgressController {
	return &ProgressController{Tracker: tracker}
}

// GetHierarchy godoc
// @Summary 获取主题进度
// @Description 返回全部顶层主题、子主题及当前用户的进度
// @Tags 主题进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.TopicProgressView} "成功"
// @Router /api/topics/progress [get]
func (c *ProgressController) GetHierarchy(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	views, err := c.Tracker.GetHierarchy(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// GetTargetSubtopic godoc
// @Summary 获取当前子主题
// @Description 按声明顺序返回该分类下应当练习的子主题
// @Tags 主题进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   category path string true "分类 slug，如 data-structures"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "主题不存在"
// @Failure 409 {object} util.Response "全部完成"
// @Router /api/topics/{category}/target [get]
func (c *ProgressController) GetTargetSubtopic(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	category := curriculum.CategoryFromSlug(ctx.Param("category"))
	subtopicID, err := c.Tracker.SelectTargetSubtopic(ctx.Request.Context(), userID, category)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"category": category, "subtopicId": subtopicID})
}

// CompleteSubtopic godoc
// @Summary 完成子主题
// @Tags 主题进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   category path string true "分类 slug"
// @Param   subtopicId path string true "子主题ID"
// @Success 200 {object} util.Response{data=model.ProgressRecord} "成功"
// @Failure 404 {object} util.Response "子主题不存在"
// @Router /api/topics/{category}/subtopics/{subtopicId}/complete [post]
func (c *ProgressController) CompleteSubtopic(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	category := curriculum.CategoryFromSlug(ctx.Param("category"))
	rec, err := c.Tracker.CompleteSubtopic(ctx.Request.Context(), userID, category, ctx.Param("subtopicId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rec)
}
