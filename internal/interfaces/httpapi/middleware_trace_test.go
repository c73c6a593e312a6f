package httpapi

import "testing"

func TestShouldTraceRequest_CallbackOnly(t *testing.T) {
	paths := []string{"/callback", " /CALLBACK "}
	for _, path := range paths {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected tracing for path %q", path)
		}
	}
}

func TestShouldTraceRequest_OtherPaths(t *testing.T) {
	paths := []string{"/healthz", "/", "/wp-login.php", "/callback/extra"}
	for _, path := range paths {
		if shouldTraceRequest(path) {
			t.Fatalf("expected no tracing for path %q", path)
		}
	}
}
