package logger

import (
	"sync"
	"testing"
)

func TestGetLogger(t *testing.T) {
	if GetLogger() == nil {
		t.Errorf("GetLogger() = nil, expected a non-nil logger")
	}
}

func TestGetLoggerConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if GetLogger() == nil {
					t.Errorf("GetLogger() = nil in goroutine %d, expected a non-nil logger", n)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}
