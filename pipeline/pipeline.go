// Package pipeline implements a three-stage parallel map/reduce pipeline: a
// reader goroutine pulls Chunks from a source, a fixed-size worker pool maps
// over every record, and a writer goroutine reassembles chunks in their
// original order before invoking a caller callback per record. A
// user-supplied (identity, combine) pair reduces per-record scalars into a
// single summary value.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"

	grailerrors "github.com/grailbio/base/errors"
	"github.com/grailbio/base/syncqueue"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/backtoseq/seqchunk"
)

// Default channel capacities, kept small by design so memory usage stays
// bounded regardless of worker count.
const (
	DefaultInputChannelSize  = 8
	DefaultOutputChannelSize = 8
)

// Options configures a pipeline run.
type Options struct {
	// Parallelism is the worker pool size. 0 selects runtime.NumCPU().
	Parallelism int
	// InputChannelSize bounds the reader->workers channel. 0 selects
	// DefaultInputChannelSize.
	InputChannelSize int
	// OutputChannelSize bounds the workers->writer channel. 0 selects
	// DefaultOutputChannelSize.
	OutputChannelSize int
}

func (o Options) resolve() (parallelism, inputSize, outputSize int) {
	parallelism = o.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	inputSize = o.InputChannelSize
	if inputSize <= 0 {
		inputSize = DefaultInputChannelSize
	}
	outputSize = o.OutputChannelSize
	if outputSize <= 0 {
		outputSize = DefaultOutputChannelSize
	}
	return
}

// ChunkSource is the reader-side contract the pipeline pulls Chunks from,
// satisfied by *seqchunk.Chunker.
type ChunkSource interface {
	Next() (*seqchunk.Chunk, bool, error)
}

// MapFunc processes one record within a chunk, run concurrently across
// workers and (within one chunk) sequentially. It may mutate rec.Result to
// hand a value forward to WriteFunc, and returns a per-record scalar folded
// into the run's overall reduction.
type MapFunc[S any] func(chunk *seqchunk.Chunk, rec *seqchunk.RecordDescriptor) (S, error)

// WriteFunc is invoked once per record, strictly in original input order.
type WriteFunc func(chunk *seqchunk.Chunk, rec *seqchunk.RecordDescriptor) error

// errCanceled is the sentinel returned internally by workers/reader once
// cancellation has been observed; it is never itself surfaced to the
// caller (errOnce.Err() always holds the real first cause, see the
// grailerrors.Once first-wins semantics below).
var errCanceled = fmt.Errorf("pipeline: canceled")

// Run drives one pipeline over src, applying mapFn to every record, folding
// the results with (identity, combine), and invoking writeFn for every
// record in input order. It returns the first error from any stage, or the
// final reduced value on success.
func Run[S any](src ChunkSource, opts Options, mapFn MapFunc[S], identity S, combine func(a, b S) S, writeFn WriteFunc) (S, error) {
	parallelism, inputSize, outputSize := opts.resolve()

	inputCh := make(chan *seqchunk.Chunk, inputSize)
	queue := syncqueue.NewOrderedQueue(parallelism + outputSize)

	var errOnce grailerrors.Once
	done := make(chan struct{})
	var closeDone sync.Once
	fail := func(err error) {
		if err == nil {
			return
		}
		errOnce.Set(err)
		closeDone.Do(func() { close(done) })
	}

	// Reader: pulls from src, feeds the bounded input channel. A send that
	// can't proceed because downstream has canceled simply gives up, silently.
	go func() {
		defer close(inputCh)
		for {
			chunk, ok, err := src.Next()
			if err != nil {
				fail(err)
				return
			}
			if !ok {
				return
			}
			select {
			case inputCh <- chunk:
			case <-done:
				return
			}
		}
	}()

	// Worker pool: a fixed set of goroutines, the way
	// pileup/snp shards work across a parallelism-sized pool, each
	// draining the shared input channel until it's closed or cancellation
	// fires. Every worker keeps a local partial reduction and folds it into
	// the shared total exactly once, when it exits normally.
	var mu sync.Mutex
	total := identity

	workerErrCh := make(chan error, 1)
	go func() {
		err := traverse.Each(parallelism, func(int) error {
			local := identity
			for {
				var chunk *seqchunk.Chunk
				var ok bool
				select {
				case chunk, ok = <-inputCh:
				case <-done:
					return errCanceled
				}
				if !ok {
					mu.Lock()
					total = combine(total, local)
					mu.Unlock()
					return nil
				}

				for i := range chunk.Records {
					rec := &chunk.Records[i]
					v, err := mapFn(chunk, rec)
					if err != nil {
						fail(err)
						return err
					}
					local = combine(local, v)
				}

				if err := queue.Insert(int(chunk.ChunkID), chunk); err != nil {
					fail(err)
					return err
				}
			}
		})
		if err != nil {
			fail(err)
		}
		workerErrCh <- err
	}()

	// Writer: reassembles chunks in chunk_id order via the OrderedQueue
	// (the same mechanism encoding/bam's ShardedBAMWriter uses to
	// reassemble BAM shards) and invokes writeFn for every record in
	// order.
	writerDoneCh := make(chan struct{})
	go func() {
		defer close(writerDoneCh)
		for {
			entry, ok, err := queue.Next()
			if err != nil {
				fail(err)
				return
			}
			if !ok {
				return
			}
			chunk := entry.(*seqchunk.Chunk)
			for i := range chunk.Records {
				if err := writeFn(chunk, &chunk.Records[i]); err != nil {
					fail(err)
					queue.Close(err)
					return
				}
			}
		}
	}()

	<-workerErrCh
	queue.Close(nil)
	<-writerDoneCh

	if err := errOnce.Err(); err != nil {
		var zero S
		return zero, err
	}
	return total, nil
}
