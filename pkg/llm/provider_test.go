package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakeProvider struct {
	id    string
	calls int
	fn    func(calls int) (string, error)
	delay time.Duration
}

func (f *fakeProvider) ID() string { return f.id }

func (f *fakeProvider) Generate(ctx context.Context, model, prompt string, p Params) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.fn(f.calls)
}

func fastOpts() CallOptions {
	return CallOptions{
		Timeout:     200 * time.Millisecond,
		MaxAttempts: 3,
		BaseBackoff: time.Millisecond,
	}
}

func TestCall_Success(t *testing.T) {
	p := &fakeProvider{id: "fake", fn: func(int) (string, error) {
		return "  hello  ", nil
	}}

	text, err := Call(context.Background(), p, "model-a", "prompt", Params{}, fastOpts())
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if text != "hello" {
		t.Errorf("text = %q, want trimmed %q", text, "hello")
	}
	if p.calls != 1 {
		t.Errorf("calls = %d, want 1", p.calls)
	}
}

func TestCall_RetriesTransient(t *testing.T) {
	p := &fakeProvider{id: "fake", fn: func(calls int) (string, error) {
		if calls < 3 {
			return "", &CallError{Kind: KindTransient, Provider: "fake", Err: errors.New("overloaded")}
		}
		return "ok", nil
	}}

	text, err := Call(context.Background(), p, "m", "prompt", Params{}, fastOpts())
	if err != nil {
		t.Fatalf("call failed after retries: %v", err)
	}
	if text != "ok" {
		t.Errorf("text = %q, want %q", text, "ok")
	}
	if p.calls != 3 {
		t.Errorf("calls = %d, want 3", p.calls)
	}
}

func TestCall_TransientExhausted(t *testing.T) {
	p := &fakeProvider{id: "fake", fn: func(int) (string, error) {
		return "", &CallError{Kind: KindTransient, Provider: "fake", Err: errors.New("busy")}
	}}

	_, err := Call(context.Background(), p, "m", "prompt", Params{}, fastOpts())
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindTransient {
		t.Errorf("kind = %s, want transient", KindOf(err))
	}
	if p.calls != 3 {
		t.Errorf("calls = %d, want 3 attempts", p.calls)
	}
}

func TestCall_QuotaFailsImmediately(t *testing.T) {
	p := &fakeProvider{id: "fake", fn: func(int) (string, error) {
		return "", &CallError{Kind: KindQuota, Provider: "fake", Err: errors.New("quota exceeded")}
	}}

	_, err := Call(context.Background(), p, "m", "prompt", Params{}, fastOpts())
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindQuota {
		t.Errorf("kind = %s, want quota", KindOf(err))
	}
	if p.calls != 1 {
		t.Errorf("calls = %d, want 1 (no local retry on quota)", p.calls)
	}
}

func TestCall_TimeoutRace(t *testing.T) {
	p := &fakeProvider{id: "slow", delay: 500 * time.Millisecond, fn: func(int) (string, error) {
		return "too late", nil
	}}

	opts := CallOptions{Timeout: 50 * time.Millisecond, MaxAttempts: 1, BaseBackoff: time.Millisecond}
	start := time.Now()
	_, err := Call(context.Background(), p, "m", "prompt", Params{}, opts)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected timeout error")
	}
	if KindOf(err) != KindTimeout {
		t.Errorf("kind = %s, want timeout", KindOf(err))
	}
	if elapsed > 300*time.Millisecond {
		t.Errorf("call took %s, timer did not win the race", elapsed)
	}
}

func TestCall_UnclassifiedErrorWrapped(t *testing.T) {
	p := &fakeProvider{id: "fake", fn: func(int) (string, error) {
		return "", fmt.Errorf("something odd")
	}}

	_, err := Call(context.Background(), p, "m", "prompt", Params{}, fastOpts())
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CallError
	if !errors.As(err, &ce) {
		t.Fatalf("error %v is not a *CallError", err)
	}
	if ce.Kind != KindOther {
		t.Errorf("kind = %s, want other", ce.Kind)
	}
	if p.calls != 1 {
		t.Errorf("calls = %d, want 1", p.calls)
	}
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		code int
		want ErrorKind
	}{
		{429, KindQuota},
		{503, KindTransient},
		{502, KindTransient},
		{500, KindTransient},
		{400, KindOther},
		{401, KindOther},
	}
	for _, tc := range cases {
		if got := classifyStatus(tc.code); got != tc.want {
			t.Errorf("classifyStatus(%d) = %s, want %s", tc.code, got, tc.want)
		}
	}
}
