package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MetricsMiddleware())
	router.GET("/api/courses", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/api/courses", "200"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/courses", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/api/courses", "200")))
}

func TestDomainCounters(t *testing.T) {
	tests := []struct {
		name    string
		counter interface {
			Inc()
		}
		read func() float64
	}{
		{"courses created", CoursesCreated, func() float64 { return testutil.ToFloat64(CoursesCreated) }},
		{"enrollments", Enrollments, func() float64 { return testutil.ToFloat64(Enrollments) }},
		{"test submissions", TestSubmissions, func() float64 { return testutil.ToFloat64(TestSubmissions) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.read()
			tt.counter.Inc()
			assert.Equal(t, before+1, tt.read())
		})
	}
}
