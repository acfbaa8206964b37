package controller

import (
	"interview_prep_backend/internal/service"
	"interview_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// HintRequest 提示请求，questionId 与 problem 二选一
type HintRequest struct {
	QuestionID string `json:"questionId"`
	Problem    string `json:"problem"`
}

// GetQuestion godoc
// @Summary 获取练习题
// @Description 返回当前子主题的题目，没有时由 AI 生成并缓存；隐藏测试用例不返回
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   category path string true "分类 slug，如 algorithms"
// @Success 200 {object} util.Response{data=service.QuestionResult} "成功"
// @Failure 404 {object} util.Response "主题不存在"
// @Failure 409 {object} util.Response "全部完成"
// @Failure 502 {object} util.Response "AI 服务不可用"
// @Router /api/questions/{category} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	result, err := c.QuestionService.GetForCategory(ctx.Request.Context(), userID, ctx.Param("category"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetHint godoc
// @Summary 获取解题提示
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body HintRequest true "题目"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/hint [post]
func (c *QuestionController) GetHint(ctx *gin.Context) {
	var req HintRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var (
		hint string
		err  error
	)
	switch {
	case req.QuestionID != "":
		hint, err = c.QuestionService.HintForQuestion(ctx.Request.Context(), req.QuestionID)
	case req.Problem != "":
		hint, err = c.QuestionService.Hint(ctx.Request.Context(), req.Problem)
	default:
		util.BadRequest(ctx, "questionId or problem is required")
		return
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"hint": hint})
}
