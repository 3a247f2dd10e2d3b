// Package linesource turns operator input into channels of raw text lines.
package linesource

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/oshokin/alarm-reminder/internal/logger"
)

// FromReader reads lines from r in a goroutine. The channel is closed at EOF,
// on a read error or when ctx is canceled while a line is waiting to be taken.
// A read blocked inside r is not interrupted by ctx.
func FromReader(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			logger.ErrorKV(ctx, "Failed to read input", "error", err)
		}
	}()

	return lines
}

// Merge fans several line streams into one, preserving the order within each source.
// The result is closed once every source is closed or ctx is canceled.
func Merge(ctx context.Context, sources ...<-chan string) <-chan string {
	var (
		merged = make(chan string)
		wg     sync.WaitGroup
	)

	for _, source := range sources {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					return
				case line, ok := <-source:
					if !ok {
						return
					}

					select {
					case merged <- line:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(merged)
	}()

	return merged
}
