package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	tests := []struct {
		name       string
		handler    func(w http.ResponseWriter)
		wantStatus int
		wantSize   int
		wantSent   bool
	}{
		{
			name:       "nothing written",
			handler:    func(w http.ResponseWriter) {},
			wantStatus: http.StatusOK,
		},
		{
			name:       "implicit 200 on write",
			handler:    func(w http.ResponseWriter) { _, _ = w.Write([]byte("hello")) },
			wantStatus: http.StatusOK,
			wantSize:   5,
			wantSent:   true,
		},
		{
			name: "explicit status and multiple writes",
			handler: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(`{"summary":`))
				_, _ = w.Write([]byte(`""}`))
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantSize:   14,
			wantSent:   true,
		},
		{
			name: "second WriteHeader ignored",
			handler: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusBadGateway)
				w.WriteHeader(http.StatusOK)
			},
			wantStatus: http.StatusBadGateway,
			wantSent:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := httptest.NewRecorder()
			rec := NewRecorder(base)

			tt.handler(rec)

			assert.Equal(t, tt.wantStatus, rec.Status())
			assert.Equal(t, tt.wantSize, rec.Size())
			assert.Equal(t, tt.wantSent, rec.Written())
			if tt.wantSent {
				assert.Equal(t, tt.wantStatus, base.Code)
			}
		})
	}
}

func TestNewRecorder_DoesNotDoubleWrap(t *testing.T) {
	rec := NewRecorder(httptest.NewRecorder())
	assert.Same(t, rec, NewRecorder(rec))
}

func TestRecorder_Unwrap(t *testing.T) {
	base := httptest.NewRecorder()
	rec := NewRecorder(base)

	assert.Equal(t, base, rec.Unwrap())
	require.NoError(t, http.NewResponseController(rec).Flush())
	assert.True(t, base.Flushed)
}
