package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"quadra_host_v1/internal/middleware"
	"quadra_host_v1/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== 请求构造辅助 ====================

// fakeAuth 测试用认证中间件，直接注入用户 ID
func fakeAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Next()
	}
}

func setupDraftRouter(userID int64) (*gin.Engine, *service.DraftService) {
	drafts := service.NewDraftService()
	ctl := NewDraftController(drafts, nil)

	r := gin.New()
	api := r.Group("/api", fakeAuth(userID))
	api.POST("/drafts", ctl.Open)
	api.GET("/drafts/:id", ctl.Get)
	api.PATCH("/drafts/:id", ctl.Merge)
	api.DELETE("/drafts/:id", ctl.Abandon)
	api.POST("/drafts/:id/photos", ctl.AddPhotos)
	api.DELETE("/drafts/:id/photos/:index", ctl.RemovePhoto)
	api.POST("/drafts/:id/continue", ctl.Continue)
	api.POST("/drafts/:id/back", ctl.Back)
	api.POST("/drafts/:id/goto", ctl.GoTo)
	return r, drafts
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应不是合法 JSON: %v", err)
	}
	return body
}

func openSession(t *testing.T, r http.Handler) string {
	t.Helper()
	w := performRequest(r, "POST", "/api/drafts", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	return data["session_id"].(string)
}

// ==================== 会话接口测试 ====================

func TestOpenAndGet(t *testing.T) {
	r, _ := setupDraftRouter(1)
	id := openSession(t, r)

	w := performRequest(r, "GET", "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "private/intro", data["step"])

	draft := data["draft"].(map[string]interface{})
	assert.Equal(t, float64(180), draft["weekday_price"])
	assert.Equal(t, float64(10), draft["weekend_uplift_percent"])
}

func TestGet_NotFound(t *testing.T) {
	r, _ := setupDraftRouter(1)

	w := performRequest(r, "GET", "/api/drafts/no-such-session", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGet_ForbiddenForOtherUser(t *testing.T) {
	r1, drafts := setupDraftRouter(1)
	id := openSession(t, r1)

	// 同一个 service，换一个用户的路由
	ctl := NewDraftController(drafts, nil)
	r2 := gin.New()
	r2.GET("/api/drafts/:id", fakeAuth(2), ctl.Get)

	w := performRequest(r2, "GET", "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// ==================== 合并与照片测试 ====================

func TestMerge_PartialUpdate(t *testing.T) {
	r, _ := setupDraftRouter(1)
	id := openSession(t, r)

	w := performRequest(r, "PATCH", "/api/drafts/"+id, map[string]interface{}{
		"name":   "Quadra Central",
		"sports": []string{"tennis"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	draft := body["data"].(map[string]interface{})
	assert.Equal(t, "Quadra Central", draft["name"])
	// 未出现在补丁中的字段保持默认
	assert.Equal(t, float64(180), draft["weekday_price"])
}

func TestPhotos_AddAndRemove(t *testing.T) {
	r, _ := setupDraftRouter(1)
	id := openSession(t, r)

	w := performRequest(r, "POST", "/api/drafts/"+id+"/photos", map[string]interface{}{
		"photos": []string{"p0", "p1"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, "DELETE", "/api/drafts/"+id+"/photos/0", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	draft := body["data"].(map[string]interface{})
	photos := draft["photos"].([]interface{})
	assert.Len(t, photos, 1)
	assert.Equal(t, "p1", photos[0])

	// 非数字下标
	w = performRequest(r, "DELETE", "/api/drafts/"+id+"/photos/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ==================== 导航接口测试 ====================

func TestContinue_ValidationBlocks(t *testing.T) {
	r, _ := setupDraftRouter(1)
	id := openSession(t, r)

	// 入口步骤无校验，前进到基础信息
	w := performRequest(r, "POST", "/api/drafts/"+id+"/continue", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "private/info", data["step"])

	// 基础信息未填，被校验拦住
	w = performRequest(r, "POST", "/api/drafts/"+id+"/continue", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// 补齐后放行
	performRequest(r, "PATCH", "/api/drafts/"+id, map[string]interface{}{
		"name":   "Quadra Central",
		"sports": []string{"tennis"},
	})
	w = performRequest(r, "POST", "/api/drafts/"+id+"/continue", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContinue_MergesPayloadFirst(t *testing.T) {
	r, _ := setupDraftRouter(1)
	id := openSession(t, r)

	performRequest(r, "POST", "/api/drafts/"+id+"/continue", nil)

	// 带 body 的 continue：先合并再前进，一次调用通过校验
	w := performRequest(r, "POST", "/api/drafts/"+id+"/continue", map[string]interface{}{
		"name":   "Quadra Central",
		"sports": []string{"tennis"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "private/location", data["step"])
}

func TestBack_ReturnsPreviousStep(t *testing.T) {
	r, _ := setupDraftRouter(1)
	id := openSession(t, r)

	performRequest(r, "POST", "/api/drafts/"+id+"/continue", nil)

	w := performRequest(r, "POST", "/api/drafts/"+id+"/back", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "private/intro", data["step"])
}

func TestGoTo_UnknownStepRejected(t *testing.T) {
	r, _ := setupDraftRouter(1)
	id := openSession(t, r)

	w := performRequest(r, "POST", "/api/drafts/"+id+"/goto", map[string]interface{}{
		"step": "private/teleport",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, "POST", "/api/drafts/"+id+"/goto", map[string]interface{}{
		"step": "private/photos",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContinue_TerminalStepConflict(t *testing.T) {
	r, _ := setupDraftRouter(1)
	id := openSession(t, r)

	// 跳到终点后再 continue 没有后续步骤
	w := performRequest(r, "POST", "/api/drafts/"+id+"/goto", map[string]interface{}{
		"step": "private/publish",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, "POST", "/api/drafts/"+id+"/continue", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

// ==================== 放弃会话测试 ====================

func TestAbandon_SessionGone(t *testing.T) {
	r, _ := setupDraftRouter(1)
	id := openSession(t, r)

	w := performRequest(r, "DELETE", "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, "GET", "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
