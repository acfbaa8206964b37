package controller

import (
	"errors"
	"interview_prep_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError 把业务错误映射为 HTTP 状态码，其余按 500 处理并记录日志
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFoundWithMessage(ctx, "会话不存在")
	case errors.Is(err, util.ErrTopicNotFound):
		util.NotFoundWithMessage(ctx, "主题不存在")
	case errors.Is(err, util.ErrSubtopicNotFound):
		util.NotFoundWithMessage(ctx, "子主题不存在")
	case errors.Is(err, util.ErrQuestionNotFound):
		util.NotFoundWithMessage(ctx, "题目不存在")
	case errors.Is(err, util.ErrTargetNotFound):
		util.NotFoundWithMessage(ctx, "尚未设定目标职位")
	case errors.Is(err, util.ErrUserNotFound):
		util.NotFoundWithMessage(ctx, "用户不存在")
	case errors.Is(err, util.ErrNoSubmission):
		util.NotFoundWithMessage(ctx, "还没有提交代码")
	case errors.Is(err, util.ErrNoSubtopics):
		util.Error(ctx, http.StatusUnprocessableEntity, "该主题没有子主题")
	case errors.Is(err, util.ErrAllSubtopicsCompleted):
		util.Conflict(ctx, "该主题的所有子主题都已完成")
	case errors.Is(err, util.ErrNoActiveProblem):
		util.Conflict(ctx, "当前会话还没有题目")
	case errors.Is(err, util.ErrTargetExists):
		util.Conflict(ctx, "目标已存在")
	case errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(ctx, "该邮箱已被注册")
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrUnsupportedLanguage):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAIUnavailable):
		util.BadGateway(ctx, "AI 服务暂不可用")
	case errors.Is(err, util.ErrCodeRunnerFailed):
		util.BadGateway(ctx, "代码执行服务暂不可用")
	default:
		util.LogInternalError(ctx, err)
	}
}

// currentUserID 从上下文取登录用户，未登录时直接返回 401
func currentUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}
