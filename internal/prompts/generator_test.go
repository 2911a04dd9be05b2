package prompts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/brandscope/internal/llm"
)

type fakeClient struct {
	content string
	err     error
}

func (f *fakeClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.content, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.content, f.err
}

func (f *fakeClient) GetModel(_ llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                    { return nil }

func TestGenerate_DropsPromptsNamingBrand(t *testing.T) {
	client := &fakeClient{content: "1. Best organic snack brands\n2. Is Acme worth the price\n3. Top snack companies in India"}
	g := NewGenerator(client)

	prompts := g.Generate(context.Background(), "Acme", 10, nil, nil)

	require.Len(t, prompts, 2)
	assert.Equal(t, "Best organic snack brands", prompts[0])
	assert.Equal(t, "Top snack companies in India", prompts[1])
}

func TestGenerate_TruncatesToCount(t *testing.T) {
	client := &fakeClient{content: "1. prompt one\n2. prompt two\n3. prompt three"}
	g := NewGenerator(client)

	prompts := g.Generate(context.Background(), "Acme", 2, nil, nil)
	assert.Len(t, prompts, 2)
}

func TestGenerate_FallbackOnError(t *testing.T) {
	client := &fakeClient{err: errors.New("model unavailable")}
	g := NewGenerator(client)

	prompts := g.Generate(context.Background(), "Acme", 3, nil, []string{"organic snacks"})

	require.NotEmpty(t, prompts)
	assert.Equal(t, "Best organic snacks", prompts[0])
}

func TestGenerate_FallbackWhenEveryPromptNamesBrand(t *testing.T) {
	client := &fakeClient{content: "1. Acme snack review\n2. Why Acme wins"}
	g := NewGenerator(client)

	prompts := g.Generate(context.Background(), "Acme", 3, nil, nil)

	require.Len(t, prompts, 3)
	for _, p := range prompts {
		assert.NotContains(t, p, "Acme")
	}
}

func TestExtractFromText(t *testing.T) {
	text := `Here are some prompts:
1. Best organic snack brands
- Top snack makers compared
Try "leading snack companies in Asia" too.
2. ok`

	prompts := ExtractFromText(text)

	assert.Equal(t, []string{
		"Best organic snack brands",
		"Top snack makers compared",
		"leading snack companies in Asia",
	}, prompts)
}

func TestFallbackPrompts_FromKeywords(t *testing.T) {
	prompts := FallbackPrompts([]string{"organic snacks", "healthy treats"}, 10)

	assert.Equal(t, []string{
		"Best organic snacks",
		"Top organic snacks",
		"Best healthy treats",
	}, prompts)
}

func TestFallbackPrompts_Generic(t *testing.T) {
	prompts := FallbackPrompts(nil, 4)
	require.Len(t, prompts, 4)
	assert.Equal(t, "Top 10 most trusted brands in health supplements", prompts[0])
}
