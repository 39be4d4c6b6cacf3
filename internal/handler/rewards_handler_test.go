package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"earnrewardzz/internal/domain"
	"earnrewardzz/internal/metrics"
	"earnrewardzz/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postEarnAd(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewRewardsHandler(nil, nil, logger.New("test"), metrics.Registry("handler_test"))
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", uint(7)) })
	r.POST("/earn/ad", h.EarnAd)

	req := httptest.NewRequest(http.MethodPost, "/earn/ad", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestEarnAdRejectsMalformedBody(t *testing.T) {
	for name, body := range map[string]string{
		"empty":         "",
		"garbage":       "not json",
		"missing event": `{"placementId":"p1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := postEarnAd(t, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, string(domain.KindValidation), resp["kind"])
		})
	}
}

func TestEarnAdRejectsSkippedEvent(t *testing.T) {
	rec := postEarnAd(t, `{"event":"skipped","placementId":"p1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(domain.KindValidation), resp["kind"])
}
