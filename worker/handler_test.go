package worker

import (
	"context"
	"errors"
	"io"
	"testing"

	"eventguard/logging"
	"eventguard/pipeline"
)

type fakeRunner struct {
	err   error
	calls int
}

func (f *fakeRunner) Run(_ context.Context, batch pipeline.Batch) (*pipeline.Report, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &pipeline.Report{CorrelationID: batch.CorrelationID, ExpectedCountry: batch.ExpectedCountry}, nil
}

type fakePublisher struct {
	keys []string
	err  error
}

func (f *fakePublisher) PublishJSON(key string, _ any) error {
	f.keys = append(f.keys, key)
	return f.err
}

func quietLogs(t *testing.T) {
	t.Helper()
	prev := logging.Logger
	t.Cleanup(func() { logging.Logger = prev })
	if err := logging.Init(logging.Options{Output: io.Discard}); err != nil {
		t.Fatal(err)
	}
}

func TestBatchHandler(t *testing.T) {
	quietLogs(t)

	tests := []struct {
		name       string
		message    string
		runErr     error
		publishErr error
		wantMark   bool
		wantErr    bool
		wantRuns   int
		wantPubs   int
	}{
		{name: "runs and publishes", message: `{"correlation_id":"b1","expected_country":"de","events":[]}`, wantMark: true, wantRuns: 1, wantPubs: 1},
		{name: "alias country", message: `{"correlation_id":"b2","expected_country":"UK"}`, wantMark: true, wantRuns: 1, wantPubs: 1},
		{name: "unsupported country", message: `{"correlation_id":"b3","expected_country":"jp"}`, wantMark: true},
		{name: "garbage", message: `not json`, wantMark: true},
		{name: "run failure is redelivered", message: `{"expected_country":"fr"}`, runErr: context.DeadlineExceeded, wantErr: true, wantRuns: 1},
		{name: "publish failure still marks", message: `{"correlation_id":"b4","expected_country":"fr"}`, publishErr: errors.New("down"), wantMark: true, wantRuns: 1, wantPubs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{err: tt.runErr}
			pub := &fakePublisher{err: tt.publishErr}

			mark, err := NewBatchHandler(runner, pub).HandleMessage(context.Background(), []byte(tt.message))
			if mark != tt.wantMark {
				t.Errorf("mark = %v; want %v", mark, tt.wantMark)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v; wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, tt.runErr) {
				t.Errorf("err = %v; want wrapped %v", err, tt.runErr)
			}
			if runner.calls != tt.wantRuns || len(pub.keys) != tt.wantPubs {
				t.Errorf("runs = %d, publishes = %d; want %d, %d", runner.calls, len(pub.keys), tt.wantRuns, tt.wantPubs)
			}
		})
	}
}

func TestBatchHandlerWithoutPublisher(t *testing.T) {
	quietLogs(t)

	runner := &fakeRunner{}
	mark, err := NewBatchHandler(runner, nil).HandleMessage(context.Background(), []byte(`{"expected_country":"nl"}`))
	if !mark || err != nil || runner.calls != 1 {
		t.Fatalf("HandleMessage = %v, %v (runs %d)", mark, err, runner.calls)
	}
}
