package logging

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"http-logging/infrastructure/config"
)

// asyncWriter 异步日志写入器，满时按配置丢弃或阻塞
type asyncWriter struct {
	buffer     chan []byte
	dropOnFull bool
	writer     zapcore.WriteSyncer

	mu      sync.RWMutex
	stopped bool
	dropped atomic.Uint64
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func newAsyncWriter(writer zapcore.WriteSyncer, bufferSize int, dropOnFull bool) *asyncWriter {
	if bufferSize <= 0 {
		bufferSize = 10000
	}

	aw := &asyncWriter{
		buffer:     make(chan []byte, bufferSize),
		dropOnFull: dropOnFull,
		writer:     writer,
		stopCh:     make(chan struct{}),
	}

	aw.wg.Add(1)
	go aw.run()

	return aw
}

func (aw *asyncWriter) run() {
	defer aw.wg.Done()

	for {
		select {
		case data := <-aw.buffer:
			_, _ = aw.writer.Write(data)
		case <-aw.stopCh:
			// 刷新剩余数据
			aw.drain()
			return
		}
	}
}

func (aw *asyncWriter) drain() {
	for {
		select {
		case data := <-aw.buffer:
			_, _ = aw.writer.Write(data)
		default:
			return
		}
	}
}

func (aw *asyncWriter) Write(p []byte) (int, error) {
	aw.mu.RLock()
	defer aw.mu.RUnlock()

	if aw.stopped {
		return aw.writer.Write(p)
	}

	data := append([]byte(nil), p...)
	select {
	case aw.buffer <- data:
		return len(p), nil
	default:
	}

	if aw.dropOnFull {
		aw.dropped.Add(1)
		return len(p), nil
	}
	// 阻塞等待
	aw.buffer <- data
	return len(p), nil
}

// Dropped 返回因缓冲区满而丢弃的条数
func (aw *asyncWriter) Dropped() uint64 {
	return aw.dropped.Load()
}

func (aw *asyncWriter) Sync() error {
	return aw.writer.Sync()
}

// Stop 停止后台写入并落盘剩余数据，之后的写入直接同步落到底层
func (aw *asyncWriter) Stop() {
	aw.mu.Lock()
	if aw.stopped {
		aw.mu.Unlock()
		return
	}
	aw.stopped = true
	close(aw.stopCh)
	aw.mu.Unlock()

	aw.wg.Wait()
	_ = aw.writer.Sync()
}

// newFileWriter 基于 lumberjack 的滚动文件
func newFileWriter(cfg *config.Logging) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.GetFile(),
		MaxSize:    cfg.GetMaxSizeMB(), // MB
		MaxAge:     cfg.GetMaxAgeDays(),
		MaxBackups: cfg.GetMaxBackups(),
		Compress:   cfg.Compress,
	}
}
