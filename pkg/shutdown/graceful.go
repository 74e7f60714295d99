// Package shutdown реализует корректное завершение процесса по SIGINT/SIGTERM.
package shutdown

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"transportschedule/pkg/logger"
)

// Hook - функция освобождения ресурса.
type Hook func(context.Context) error

// Wait блокируется до SIGINT/SIGTERM или отмены ctx, затем выполняет хуки в пределах timeout.
func Wait(ctx context.Context, timeout time.Duration, hooks ...Hook) {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	logger.Log(ctx).Info(ctx, "shutdown signal received", zap.Duration("timeout", timeout))
	Run(ctx, timeout, hooks...)
}

// Run выполняет хуки параллельно и возвращается, когда все завершились или истек timeout.
func Run(ctx context.Context, timeout time.Duration, hooks ...Hook) {
	hookCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var wgp sync.WaitGroup
	for _, hook := range hooks {
		wgp.Add(1)
		go func(fn Hook) {
			defer wgp.Done()
			if err := fn(hookCtx); err != nil {
				logger.Log(hookCtx).Warn(hookCtx, "shutdown hook failed", zap.Error(err))
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wgp.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-hookCtx.Done():
	}
}
