package logging

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// requestPalette 按请求 ID 轮换的颜色
var requestPalette = []lipgloss.Color{
	"#8BE9FD", "#F1FA8C", "#50FA7B", "#FF79C6",
	"#BD93F9", "#FFB86C", "#66D9EF", "#A6E22E",
}

// RequestColorManager 为同一 requestId 分配稳定颜色，只记住最近的若干个
type RequestColorManager struct {
	mu        sync.Mutex
	next      int
	recent    map[string]int
	order     []string
	maxRecent int
}

func NewRequestColorManager(maxRecent int) *RequestColorManager {
	if maxRecent <= 0 {
		maxRecent = 20
	}
	return &RequestColorManager{
		recent:    make(map[string]int, maxRecent),
		maxRecent: maxRecent,
	}
}

// Style 返回该请求 ID 的样式；空 ID 返回无样式
func (m *RequestColorManager) Style(requestID string) lipgloss.Style {
	if requestID == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(m.Color(requestID)).Bold(true)
}

func (m *RequestColorManager) Color(requestID string) lipgloss.Color {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.recent[requestID]; ok {
		return requestPalette[idx]
	}

	idx := m.next % len(requestPalette)
	m.next++
	m.recent[requestID] = idx
	m.order = append(m.order, requestID)

	// 淘汰最早的
	if len(m.order) > m.maxRecent {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.recent, oldest)
	}

	return requestPalette[idx]
}
