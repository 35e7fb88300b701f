package service

import (
	"context"
	"sync"

	"plantpal-be/internal/entity"
	"plantpal-be/pkg/llm"
	"plantpal-be/pkg/vision"
)

type identifyResult struct {
	candidate *vision.Candidate
	err       error
}

// fakeIdentifier returns scripted results in order, repeating the last one.
type fakeIdentifier struct {
	name    string
	mu      sync.Mutex
	results []identifyResult
	calls   int
	panicOn bool
}

func (f *fakeIdentifier) Name() string { return f.name }

func (f *fakeIdentifier) Identify(ctx context.Context, image vision.Image) (*vision.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.panicOn {
		panic("decoder exploded")
	}
	idx := f.calls - 1
	if idx >= len(f.results) {
		idx = len(f.results) - 1
	}
	return f.results[idx].candidate, f.results[idx].err
}

func (f *fakeIdentifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type llmResult struct {
	reply string
	err   error
}

type fakeLLM struct {
	mu      sync.Mutex
	results []llmResult
	calls   int
	history [][]llm.Message
	options []llm.Options
	panicOn bool
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.history = append(f.history, history)
	f.options = append(f.options, llm.Apply(llm.Options{}, opts...))
	if f.panicOn {
		panic("provider exploded")
	}
	idx := f.calls - 1
	if idx >= len(f.results) {
		idx = len(f.results) - 1
	}
	return f.results[idx].reply, f.results[idx].err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

type fakeCare struct {
	mu      sync.Mutex
	species []string
}

func (f *fakeCare) Fetch(ctx context.Context, speciesName string) entity.CareProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.species = append(f.species, speciesName)
	return entity.CareProfile{
		Watering: "w", Light: "l", Humidity: "h", Temperature: "t",
		Soil: "s", Fertilizer: "f", Repotting: "r", Tips: []string{"care for " + speciesName},
	}
}
