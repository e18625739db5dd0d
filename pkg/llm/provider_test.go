package llm

import (
	"context"
	"testing"
)

type fakeProvider struct {
	name string
}

func (f *fakeProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

func (f *fakeProvider) EmbedSingle(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 2, 3}, nil
}

func (f *fakeProvider) Chat(_ context.Context, _ []Message) (string, error) {
	return "chat", nil
}

func (f *fakeProvider) Generate(_ context.Context, _ string, _ string) (*GenerateResponse, error) {
	return &GenerateResponse{Content: "generated"}, nil
}

func (f *fakeProvider) Name() string {
	return f.name
}

func TestRegisterAndNewProvider(t *testing.T) {
	RegisterProvider("fake-full", func(_ map[string]any) (Provider, error) {
		return &fakeProvider{name: "fake-full"}, nil
	})

	p, err := NewProvider("fake-full", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "fake-full" {
		t.Errorf("expected name fake-full, got %s", p.Name())
	}

	if _, err := NewProvider("does-not-exist", nil); err == nil {
		t.Error("expected error for unknown provider, got nil")
	}
}

func TestNewEmbeddingProviderFallback(t *testing.T) {
	RegisterProvider("fake-embed-fallback", func(_ map[string]any) (Provider, error) {
		return &fakeProvider{name: "fake-embed-fallback"}, nil
	})

	// No dedicated embedding factory registered; must fall back to the
	// full provider factory.
	p, err := NewEmbeddingProvider("fake-embed-fallback", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vec, err := p.EmbedSingle(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("expected vector of length 3, got %d", len(vec))
	}
}

func TestNewChatProviderDedicatedFactoryWins(t *testing.T) {
	RegisterProvider("fake-chat", func(_ map[string]any) (Provider, error) {
		return &fakeProvider{name: "full"}, nil
	})
	RegisterChatProvider("fake-chat", func(_ map[string]any) (ChatProvider, error) {
		return &fakeProvider{name: "dedicated"}, nil
	})

	p, err := NewChatProvider("fake-chat", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "dedicated" {
		t.Errorf("expected dedicated chat factory to win, got %s", p.Name())
	}
}

func TestListProviders(t *testing.T) {
	RegisterProvider("fake-list", func(_ map[string]any) (Provider, error) {
		return &fakeProvider{name: "fake-list"}, nil
	})

	names := ListProviders()
	found := false
	for _, name := range names {
		if name == "fake-list" {
			found = true
		}
	}
	if !found {
		t.Error("expected fake-list in registered providers")
	}
}
