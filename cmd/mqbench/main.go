// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command mqbench drives a multiqueue with one of several synthetic
// workloads, reproducing the workload shapes the original benchmark
// suite used to stress a priority queue: monotone, reverse, interleaved
// random, and a Dijkstra-like push-after-every-pop pattern. With -log,
// it logs every operation to a textual replay log and reports the
// rank-error quality metric computed from that log.
package main

import (
	"bytes"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/mq"
	"code.hybscloud.com/mq/internal/quality"
	"code.hybscloud.com/mq/internal/replay"
)

func main() {
	var (
		workload  = flag.String("workload", "monotone", "workload shape: monotone, reverse, interleaved, dijkstra")
		threads   = flag.Int("threads", runtime.GOMAXPROCS(0), "number of worker goroutines")
		ops       = flag.Int("ops", 1_000_000, "total push operations")
		verbose   = flag.Bool("v", false, "enable verbose logging")
		logReplay = flag.Bool("log", false, "write the replay log and print a quality report")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	q, err := mq.NewOrdered[uint64, elemInfo](*threads)
	if err != nil {
		logger.Error("construct queue", "error", err)
		os.Exit(1)
	}

	var logBuf bytes.Buffer
	var writerMu sync.Mutex
	var writer *replay.Writer
	if *logReplay {
		writer = replay.NewWriter(&logBuf)
	}

	logger.Info("starting benchmark", "workload", *workload, "threads", *threads, "ops", *ops)
	start := time.Now()

	var wg sync.WaitGroup
	perThread := *ops / *threads
	for t := 0; t < *threads; t++ {
		wg.Add(1)
		go func(threadID int) {
			defer wg.Done()
			runWorker(q, threadID, perThread, *workload, writer, &writerMu)
		}(t)
	}
	wg.Wait()

	elapsed := time.Since(start)
	logger.Info("benchmark complete", "elapsed", elapsed, "ops_per_sec", float64(*ops)/elapsed.Seconds())

	if *logReplay {
		if err := writer.Flush(); err != nil {
			logger.Error("flush replay log", "error", err)
			os.Exit(1)
		}
		reader := replay.NewReader(&logBuf)
		recs, err := reader.ReadAll()
		if err != nil {
			logger.Error("read replay log", "error", err)
			os.Exit(1)
		}
		report := quality.Evaluate(recs)
		logger.Info("quality report",
			"count", report.Count,
			"mean_rank_error", report.Mean,
			"max_rank_error", report.Max,
			"p50", report.P50,
			"p99", report.P99,
			"p999", report.P999,
			"failed", report.Failed,
		)
	}
}

// elemInfo travels with every pushed value so that, whichever thread
// eventually extracts it, the replay log can still record which thread
// originally pushed it and that push's sequential index — extraction is
// not confined to the pushing thread, so this identity cannot be
// reconstructed from the extracting thread_id alone.
type elemInfo struct {
	threadID uint32
	elemID   uint32
}

// runWorker executes one thread's share of the chosen workload. Each
// worker owns one Handle and one local key sequence; ticks are a plain
// monotone counter local to the worker, matching the source's
// single-thread-local logical clock. elemSeq is the worker's own
// insertion counter, assigning each of its pushes a sequential elem_id.
func runWorker(q *mq.Queue[uint64, elemInfo], threadID, n int, workload string, w *replay.Writer, wmu *sync.Mutex) {
	handle := q.GetHandle(threadID)
	rng := rand.New(rand.NewSource(int64(threadID) + 1))
	var tick uint64
	var elemSeq uint32

	emit := func(fn func(*replay.Writer) error) {
		if w == nil {
			return
		}
		wmu.Lock()
		defer wmu.Unlock()
		_ = fn(w)
	}

	push := func(key uint64) {
		elemID := elemSeq
		elemSeq++
		q.Push(mq.Value[uint64, elemInfo]{Key: key, Payload: elemInfo{threadID: uint32(threadID), elemID: elemID}})
		emit(func(w *replay.Writer) error { return w.WriteInsert(uint32(threadID), tick, key, elemID) })
		tick++
	}

	switch workload {
	case "monotone":
		for i := 0; i < n; i++ {
			push(uint64(i))
		}
	case "reverse":
		for i := n - 1; i >= 0; i-- {
			push(uint64(i))
		}
	case "interleaved":
		for i := 0; i < n; i++ {
			push(uint64(rng.Int63n(int64(n))))
			v, ok := extractWithBackoff(q, &handle)
			if ok {
				emit(func(w *replay.Writer) error {
					return w.WriteDelete(uint32(threadID), tick, v.Key, v.Payload.threadID, v.Payload.elemID)
				})
			} else {
				emit(func(w *replay.Writer) error { return w.WriteFlush(uint32(threadID), tick) })
			}
			tick++
		}
	case "dijkstra":
		// Every extraction discovers a small number of new edges, each
		// pushed back immediately: the classic decrease-key-heavy access
		// pattern that motivates siftDownFull.
		push(0)
		for i := 0; i < n; i++ {
			v, ok := extractWithBackoff(q, &handle)
			if !ok {
				emit(func(w *replay.Writer) error { return w.WriteFlush(uint32(threadID), tick) })
				tick++
				continue
			}
			emit(func(w *replay.Writer) error {
				return w.WriteDelete(uint32(threadID), tick, v.Key, v.Payload.threadID, v.Payload.elemID)
			})
			tick++
			edges := 1 + rng.Intn(3)
			for e := 0; e < edges; e++ {
				push(v.Key + uint64(1+rng.Intn(10)))
			}
		}
	}
}

// extractWithBackoff retries ExtractTop a bounded number of times with an
// exponential backoff before giving up, since an empty-probe result is a
// sampling artifact (both sampled queues happened to be empty) rather
// than proof the multiqueue has no work left.
func extractWithBackoff(q *mq.Queue[uint64, elemInfo], handle *mq.Handle) (mq.Value[uint64, elemInfo], bool) {
	backoff := iox.Backoff{}
	for attempt := 0; attempt < 8; attempt++ {
		if v, ok := q.ExtractTop(handle); ok {
			return v, true
		}
		backoff.Wait()
	}
	return mq.Value[uint64, elemInfo]{}, false
}
