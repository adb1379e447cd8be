package response_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/guzellestir/tenantgate/internal/api/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	response.JSON(rec, map[string]string{"slug": "kardesler"})

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "kardesler", body.Data["slug"])
}

func TestError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Error(rec, 404, "TENANT_NOT_FOUND", "No such restaurant", nil)

	assert.Equal(t, 404, rec.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TENANT_NOT_FOUND", body.Error.Code)
	assert.Equal(t, "No such restaurant", body.Error.Message)
}

func TestPlain_NoEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Plain(rec, 200, map[string]bool{"exists": true})

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["exists"])
}

func TestCollection_Meta(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Collection(rec, []string{"a", "b"}, response.PaginationMeta{
		Page: 1, Limit: 50, Total: 2,
	})

	var body struct {
		Data []string                `json:"data"`
		Meta response.PaginationMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, 2, body.Meta.Total)
}

func TestPages_TenantNotFound(t *testing.T) {
	pages := response.NewPages("guzellestir.com")
	rec := httptest.NewRecorder()
	pages.TenantNotFound(rec, "unknown123")

	assert.Equal(t, 404, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "unknown123")
	assert.Contains(t, rec.Body.String(), "https://guzellestir.com")
}

func TestPages_SlugIsEscaped(t *testing.T) {
	pages := response.NewPages("guzellestir.com")
	rec := httptest.NewRecorder()
	pages.TenantNotFound(rec, `<script>alert(1)</script>`)

	assert.False(t, strings.Contains(rec.Body.String(), "<script>alert(1)</script>"),
		"attempted slug must be HTML-escaped")
}

func TestPages_Inactive(t *testing.T) {
	pages := response.NewPages("guzellestir.com")
	rec := httptest.NewRecorder()
	pages.TenantInactive(rec, "kardesler")

	assert.Equal(t, 403, rec.Code)
	assert.Contains(t, rec.Body.String(), "aktif değil")
}

func TestPages_ServiceUnavailable(t *testing.T) {
	pages := response.NewPages("guzellestir.com")
	rec := httptest.NewRecorder()
	pages.ServiceUnavailable(rec)

	assert.Equal(t, 503, rec.Code)
	assert.Contains(t, rec.Body.String(), "tekrar deneyin")
}
