package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_Add(t *testing.T) {
	ctx := context.Background()
	noop := func(context.Context) (int, error) { return 0, nil }

	tests := []struct {
		name     string
		spec     string
		wantErr  bool
		wantJobs int
	}{
		{name: "descriptor", spec: "@every 1h", wantJobs: 1},
		{name: "standard", spec: "0 3 * * *", wantJobs: 1},
		{name: "off", spec: Off, wantJobs: 0},
		{name: "empty", spec: "", wantJobs: 0},
		{name: "invalid", spec: "every tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil)
			err := s.Add(ctx, "job", tt.spec, noop)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Add() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s.Jobs() != tt.wantJobs {
				t.Errorf("Jobs() = %d, want %d", s.Jobs(), tt.wantJobs)
			}
		})
	}
}

func TestScheduler_DuplicateName(t *testing.T) {
	s := New(nil)
	noop := func(context.Context) (int, error) { return 0, nil }

	if err := s.Add(context.Background(), "refresh", "@every 1h", noop); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add(context.Background(), "refresh", "@every 2h", noop); err == nil {
		t.Fatal("expected error for duplicate job name")
	}
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(nil)
	var calls atomic.Int32

	err := s.Add(context.Background(), "cleanup", "@every 1h", func(context.Context) (int, error) {
		calls.Add(1)
		return 3, errors.New("ignored by scheduler")
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := s.RunNow(context.Background(), "cleanup"); err != nil {
		t.Fatalf("RunNow() error = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("job ran %d times, want 1", calls.Load())
	}

	if err := s.RunNow(context.Background(), "missing"); err == nil {
		t.Error("RunNow(missing) expected error")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(nil)

	if err := s.Add(ctx, "refresh", "@every 1h", func(context.Context) (int, error) { return 0, nil }); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	s.Start(ctx)
	if !s.IsRunning() {
		t.Fatal("scheduler not running after Start")
	}

	next, ok := s.NextRun("refresh")
	if !ok || next.Before(time.Now()) {
		t.Errorf("NextRun() = %v, %v", next, ok)
	}

	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.IsRunning() {
		t.Error("scheduler still running after context cancel")
	}
}
