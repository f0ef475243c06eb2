package utils

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRunWithTimeout(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		fn      func(context.Context) error
		wantErr error
	}{
		{
			name:    "正常終了",
			fn:      func(context.Context) error { return nil },
			wantErr: nil,
		},
		{
			name:    "処理のエラーをそのまま返す",
			fn:      func(context.Context) error { return errBoom },
			wantErr: errBoom,
		},
		{
			name: "タイムアウト",
			fn: func(ctx context.Context) error {
				<-ctx.Done()
				time.Sleep(10 * time.Millisecond)
				return nil
			},
			wantErr: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RunWithTimeout(context.Background(), "test", 20*time.Millisecond, tt.fn)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("RunWithTimeout() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RunWithTimeout() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetStackWithError(t *testing.T) {
	if GetStackWithError(nil) != nil {
		t.Error("GetStackWithError(nil) should be nil")
	}

	base := errors.New("failed")
	err := GetStackWithError(base)
	if !errors.Is(err, base) {
		t.Errorf("GetStackWithError() should wrap the original error")
	}
	if !strings.Contains(err.Error(), "Stack trace:") {
		t.Errorf("GetStackWithError() = %q, want stack trace", err.Error())
	}

	again := GetStackWithError(err)
	if strings.Count(again.Error(), "Stack trace:") != 1 {
		t.Errorf("GetStackWithError() should not add a second stack trace")
	}
}
