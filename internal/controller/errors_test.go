package controller

import (
	"errors"
	"fmt"
	"interview_prep_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{util.ErrSessionNotFound, http.StatusNotFound},
		{util.ErrTopicNotFound, http.StatusNotFound},
		{util.ErrNoSubmission, http.StatusNotFound},
		{util.ErrNoSubtopics, http.StatusUnprocessableEntity},
		{util.ErrAllSubtopicsCompleted, http.StatusConflict},
		{util.ErrNoActiveProblem, http.StatusConflict},
		{util.ErrEmailRegistered, http.StatusConflict},
		{util.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("%w: cobol", util.ErrUnsupportedLanguage), http.StatusBadRequest},
		{fmt.Errorf("%w: timeout", util.ErrAIUnavailable), http.StatusBadGateway},
		{fmt.Errorf("%w: 429", util.ErrCodeRunnerFailed), http.StatusBadGateway},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			respondError(ctx, tc.err)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}
