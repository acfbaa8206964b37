package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrSessionNotFound       = errors.New("chat session not found")
	ErrTopicNotFound         = errors.New("topic not found")
	ErrSubtopicNotFound      = errors.New("subtopic not found")
	ErrNoSubtopics           = errors.New("no subtopics available")
	ErrAllSubtopicsCompleted = errors.New("all subtopics completed")
	ErrTargetExists          = errors.New("performance target already exists")
	ErrTargetNotFound        = errors.New("performance target not found")
	ErrNoActiveProblem       = errors.New("no active problem in session")
	ErrNoSubmission          = errors.New("no code submission in session")
	ErrQuestionNotFound      = errors.New("question not found")

	ErrAIUnavailable       = errors.New("AI service unavailable")
	ErrCodeRunnerFailed    = errors.New("code runner failed")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)
