package openai

import (
	"context"
	"errors"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/quizdex/internal/domain"
)

func TestClassifyCompletionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "unauthorized maps to auth",
			err:  &openai.RequestError{HTTPStatusCode: http.StatusUnauthorized},
			want: domain.ErrAuth,
		},
		{
			name: "forbidden maps to auth",
			err:  &openai.APIError{HTTPStatusCode: http.StatusForbidden},
			want: domain.ErrAuth,
		},
		{
			name: "too many requests maps to rate limited",
			err:  &openai.RequestError{HTTPStatusCode: http.StatusTooManyRequests},
			want: domain.ErrRateLimited,
		},
		{
			name: "server error maps to provider",
			err:  &openai.APIError{HTTPStatusCode: http.StatusInternalServerError},
			want: domain.ErrGenerationProvider,
		},
		{
			name: "bad gateway maps to provider",
			err:  &openai.RequestError{HTTPStatusCode: http.StatusBadGateway},
			want: domain.ErrGenerationProvider,
		},
		{
			name: "plain network error maps to connectivity",
			err:  errors.New("dial tcp: connection refused"),
			want: domain.ErrConnectivity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyCompletionError(tc.err)
			if !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestClassifyCompletionError_ContextCancellationPassesThrough(t *testing.T) {
	got := classifyCompletionError(context.Canceled)
	if !errors.Is(got, context.Canceled) {
		t.Fatalf("expected context error preserved, got %v", got)
	}
	if errors.Is(got, domain.ErrConnectivity) {
		t.Fatal("context cancellation must not be classified as connectivity")
	}
}
