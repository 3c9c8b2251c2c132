package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"example.com/fitcoach/internal/auth"
	"example.com/fitcoach/internal/domain"
)

const testOrigin = "http://localhost:5173"

// Builds the middleware chain the way the api binary composes it: CORS
// outermost, then auth, then the routed mux.
func composedHandler() http.Handler {
	service := domain.NewService(&stubRepo{}, &stubRecommendations{}, stubValidator{valid: true}, &stubPublisher{})
	mux := http.NewServeMux()
	NewHandler(service).RegisterRoutes(mux)

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: "test-secret", Issuer: "test-issuer"})
	return CORS(testOrigin)(authMiddleware.Wrap(mux))
}

func TestPreflightAnsweredWithoutAuthorization(t *testing.T) {
	handler := composedHandler()

	req := httptest.NewRequest(http.MethodOptions, "/v1/activities", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != testOrigin {
		t.Fatalf("expected allow-origin %q got %q", testOrigin, got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Headers"); got == "" {
		t.Fatal("expected allow-headers on preflight response")
	}
}

func TestRejectedRequestStillCarriesCORSHeaders(t *testing.T) {
	handler := composedHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/activities?user_id=user-1", nil)
	req.Header.Set("Origin", testOrigin)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != testOrigin {
		t.Fatalf("expected allow-origin %q on rejected request, got %q", testOrigin, got)
	}
}
