package controller

import (
	"encoding/json"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/service"
	"interview_prep_backend/internal/testutil"
	"interview_prep_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func progressRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	tracker := service.NewTopicProgressService(
		repository.NewTopicRepository(db, nil, time.Minute),
		repository.NewProgressRepository(db),
	)
	c := NewProgressController(tracker)

	r := gin.New()
	api := r.Group("/api", func(ctx *gin.Context) {
		ctx.Set("user", &util.Claims{UserID: 1})
	})
	api.GET("/topics/progress", c.GetHierarchy)
	api.GET("/topics/:category/target", c.GetTargetSubtopic)
	api.POST("/topics/:category/subtopics/:subtopicId/complete", c.CompleteSubtopic)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return w.Code, body
}

func TestProgressEndpoints(t *testing.T) {
	r := progressRouter(t)

	code, body := do(t, r, http.MethodGet, "/api/topics/algorithms/target")
	if code != http.StatusOK {
		t.Fatalf("target status = %d body = %v", code, body)
	}
	data := body["data"].(map[string]interface{})
	if data["subtopicId"] != "algo-sorting-searching" || data["category"] != "Algorithms" {
		t.Fatalf("target data = %v", data)
	}

	code, _ = do(t, r, http.MethodPost, "/api/topics/algorithms/subtopics/algo-sorting-searching/complete")
	if code != http.StatusOK {
		t.Fatalf("complete status = %d", code)
	}

	code, body = do(t, r, http.MethodGet, "/api/topics/algorithms/target")
	if code != http.StatusOK || body["data"].(map[string]interface{})["subtopicId"] != "algo-recursion" {
		t.Fatalf("next target = %d %v", code, body)
	}

	code, body = do(t, r, http.MethodGet, "/api/topics/progress")
	if code != http.StatusOK {
		t.Fatalf("hierarchy status = %d", code)
	}
	if topics := body["data"].([]interface{}); len(topics) != 4 {
		t.Fatalf("got %d topics", len(topics))
	}
}

func TestProgressEndpointErrors(t *testing.T) {
	r := progressRouter(t)

	if code, _ := do(t, r, http.MethodGet, "/api/topics/cooking/target"); code != http.StatusNotFound {
		t.Fatalf("unknown category status = %d", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/api/topics/algorithms/subtopics/ds-trees/complete"); code != http.StatusNotFound {
		t.Fatalf("foreign subtopic status = %d", code)
	}
}
