package oracle

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
)

// fakeLLM answers output requests with "out:<prompt>" and judge requests
// (recognised by the word "Rate") with judgeReply.
type fakeLLM struct {
	mu         sync.Mutex
	judgeReply string
	failOn     string
	err        error
	calls      []driven.GenerateOptions
	prompts    []string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.failOn != "" && strings.Contains(prompt, f.failOn) {
		return "", f.err
	}
	if strings.Contains(prompt, "Rate the response") {
		return f.judgeReply, nil
	}
	return "out:" + prompt, nil
}

func (f *fakeLLM) ModelName() string            { return "fake-model" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { return nil }

type fakePrompts map[string]string

func (p fakePrompts) Load(name string) (string, error) { return p[name], nil }
func (p fakePrompts) Reload()                          {}
