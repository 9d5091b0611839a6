// Package clock は現在時刻の取得を抽象化する。
// トークンの有効期限のように時刻に依存する処理をテスト可能にするために使用する。
package clock

import (
	"sync"
	"time"
)

// Clock は現在時刻を返すインターフェース。
type Clock interface {
	Now() time.Time
}

// RealClock はシステム時刻を返す本番用の実装。
type RealClock struct{}

// NewRealClock は新しいRealClockを生成する。
func NewRealClock() Clock {
	return RealClock{}
}

// Now はシステムの現在時刻を返す。
func (RealClock) Now() time.Time {
	return time.Now()
}

// MockClock は任意の時刻を設定できるテスト用の実装。
// 並行するリクエストから参照されても安全。
type MockClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewMockClock は指定時刻から始まるMockClockを生成する。
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{current: start}
}

// Now は設定されている時刻を返す。
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Set は現在時刻を上書きする。
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance は現在時刻をdだけ進める。
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}
