package controller

import (
	"interview_prep_backend/internal/service"
	"interview_prep_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ChatController 面试辅导对话、代码提交与评估
type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// CreateSessionRequest 创建会话请求
type CreateSessionRequest struct {
	Title string `json:"title" example:"后端面试练习"`
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Content string `json:"content" binding:"required" example:"I'm preparing for a Senior Backend Engineer role"`
}

// SaveCodeRequest 保存代码请求
type SaveCodeRequest struct {
	Language string `json:"language" binding:"required" example:"python"`
	Code     string `json:"code" binding:"required"`
}

// ExecuteCodeRequest 运行代码请求，会话内 code 为空时运行最新提交
type ExecuteCodeRequest struct {
	Language string `json:"language" example:"python"`
	Code     string `json:"code"`
	Stdin    string `json:"stdin"`
}

// CreateSession godoc
// @Summary 创建面试会话
// @Tags 面试对话
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateSessionRequest false "会话信息"
// @Success 201 {object} util.Response{data=model.ChatSession} "创建成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/chat/sessions [post]
func (ctrl *ChatController) CreateSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.BadRequest(c, err.Error())
			return
		}
	}

	session, err := ctrl.ChatService.CreateSession(c.Request.Context(), userID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, session)
}

// ListSessions godoc
// @Summary 获取会话列表
// @Tags 面试对话
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse{list=[]model.ChatSession}} "成功"
// @Router /api/chat/sessions [get]
func (ctrl *ChatController) ListSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit := util.ParseLimit(c.Query("limit"), 20, 100)

	sessions, total, err := ctrl.ChatService.ListSessions(c.Request.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		respondError(c, err)
		return
	}

	util.Success(c, util.PageResponse{
		List:  sessions,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetMessages godoc
// @Summary 获取会话消息
// @Description 按时间正序返回会话全部消息
// @Tags 面试对话
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=[]model.ChatMessage} "成功"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/chat/sessions/{id}/messages [get]
func (ctrl *ChatController) GetMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	messages, err := ctrl.ChatService.GetMessages(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, messages)
}

// SendMessage godoc
// @Summary 发送消息
// @Description 保存用户消息，首次识别出目标职位时初始化目标分数，并返回 AI 回复
// @Tags 面试对话
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Param   body body SendMessageRequest true "消息内容"
// @Success 200 {object} util.Response{data=service.ChatReply} "成功"
// @Failure 404 {object} util.Response "会话不存在"
// @Failure 502 {object} util.Response "AI 服务不可用"
// @Router /api/chat/sessions/{id}/messages [post]
func (ctrl *ChatController) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	reply, err := ctrl.ChatService.SendMessage(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, reply)
}

// StreamMessage godoc
// @Summary 流式发送消息
// @Description 以 SSE 返回 AI 回复：message 事件为内容块，done 事件为保存后的消息，error 事件为错误
// @Tags 面试对话
// @Accept  json
// @Produce  text/event-stream
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Param   body body SendMessageRequest true "消息内容"
// @Success 200 {string} string "event stream"
// @Router /api/chat/sessions/{id}/stream [post]
func (ctrl *ChatController) StreamMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	chunks, done, err := ctrl.ChatService.SendMessageStream(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	// 设置SSE响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Transfer-Encoding", "chunked")

	for content := range chunks {
		c.SSEvent("message", content)
		c.Writer.Flush()
	}

	outcome := <-done
	if outcome.Err != nil {
		c.SSEvent("error", outcome.Err.Error())
		c.Writer.Flush()
		return
	}

	c.SSEvent("done", outcome.Message)
	c.Writer.Flush()
}

// SaveCode godoc
// @Summary 保存代码
// @Tags 面试对话
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Param   body body SaveCodeRequest true "代码"
// @Success 201 {object} util.Response{data=model.CodeSubmission} "保存成功"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/chat/sessions/{id}/code [post]
func (ctrl *ChatController) SaveCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SaveCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	sub, err := ctrl.ChatService.SaveCode(c.Request.Context(), userID, c.Param("id"), req.Language, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, sub)
}

// GetLatestCode godoc
// @Summary 获取最新代码
// @Tags 面试对话
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=model.CodeSubmission} "成功"
// @Failure 404 {object} util.Response "没有提交"
// @Router /api/chat/sessions/{id}/code [get]
func (ctrl *ChatController) GetLatestCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sub, err := ctrl.ChatService.GetLatestCode(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, sub)
}

// ExecuteSessionCode godoc
// @Summary 运行会话代码
// @Description code 为空时运行会话中最新的提交
// @Tags 面试对话
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Param   body body ExecuteCodeRequest false "代码"
// @Success 200 {object} util.Response{data=service.ExecutionResult} "成功"
// @Failure 502 {object} util.Response "代码执行服务不可用"
// @Router /api/chat/sessions/{id}/execute [post]
func (ctrl *ChatController) ExecuteSessionCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ExecuteCodeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.BadRequest(c, err.Error())
			return
		}
	}
	if req.Code != "" && req.Language == "" {
		util.BadRequest(c, "language is required")
		return
	}

	result, err := ctrl.ChatService.ExecuteSessionCode(c.Request.Context(), userID, c.Param("id"), req.Language, req.Code, req.Stdin)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, result)
}

// Execute godoc
// @Summary 运行代码
// @Tags 代码执行
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ExecuteCodeRequest true "代码"
// @Success 200 {object} util.Response{data=service.ExecutionResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 502 {object} util.Response "代码执行服务不可用"
// @Router /api/execute [post]
func (ctrl *ChatController) Execute(c *gin.Context) {
	var req ExecuteCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	if req.Language == "" || req.Code == "" {
		util.BadRequest(c, "language and code are required")
		return
	}

	result, err := ctrl.ChatService.Execute(c.Request.Context(), req.Language, req.Code, req.Stdin)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, result)
}

// EvaluateCode godoc
// @Summary 评估代码
// @Description 按当前题目评估最新提交，返回评估消息和与目标分数的对比
// @Tags 面试对话
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.EvaluationOutcome} "成功"
// @Failure 404 {object} util.Response "没有提交"
// @Failure 409 {object} util.Response "当前会话还没有题目"
// @Failure 502 {object} util.Response "AI 服务不可用"
// @Router /api/chat/sessions/{id}/evaluate [post]
func (ctrl *ChatController) EvaluateCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	outcome, err := ctrl.ChatService.EvaluateCode(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, outcome)
}

// GetPerformance godoc
// @Summary 获取进度报告
// @Description 基于最近一次评估与目标分数对比
// @Tags 面试对话
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=service.ProgressReport} "成功"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/chat/sessions/{id}/performance [get]
func (ctrl *ChatController) GetPerformance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	report, err := ctrl.ChatService.GetPerformance(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, report)
}
