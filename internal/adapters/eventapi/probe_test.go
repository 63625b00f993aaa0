package eventapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestEventActive(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		want    bool
		wantErr bool
	}{
		{name: "active", body: `{"active": true}`, status: http.StatusOK, want: true},
		{name: "inactive", body: `{"active": false}`, status: http.StatusOK, want: false},
		{name: "server error", body: "boom", status: http.StatusInternalServerError, wantErr: true},
		{name: "garbage body", body: "not json", status: http.StatusOK, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewProbe(srv.URL, zap.NewNop())
			got, err := p.EventActive(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("EventActive: %v", err)
			}
			if got != tt.want {
				t.Errorf("EventActive = %v, want %v", got, tt.want)
			}
		})
	}
}
