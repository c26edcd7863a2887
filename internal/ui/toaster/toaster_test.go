package toaster

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()
	require.False(t, m.Visible())
	require.Empty(t, m.View())
}

func TestShowMsg_DisplaysAndSchedulesDismiss(t *testing.T) {
	m, cmd := New().Update(ShowMsg{Message: "Saved revision 2", Style: StyleSuccess})
	require.True(t, m.Visible())
	require.Contains(t, m.View(), "Saved revision 2")
	require.NotNil(t, cmd)
}

func TestDismiss_IgnoresStaleTicks(t *testing.T) {
	m, _ := New().Update(ShowMsg{Message: "first"})
	stale := DismissMsg{seq: m.seq}
	m, _ = m.Update(ShowMsg{Message: "second", Style: StyleWarn})

	m, _ = m.Update(stale)
	require.True(t, m.Visible())
	require.Equal(t, "second", m.Message())

	m, _ = m.Update(DismissMsg{seq: m.seq})
	require.False(t, m.Visible())
}

func TestScheduledDismissFires(t *testing.T) {
	m, cmd := New().WithDuration(time.Millisecond).Update(ShowMsg{Message: "x"})
	msg := cmd()
	m, _ = m.Update(msg)
	require.False(t, m.Visible())
}

func TestShowCmd(t *testing.T) {
	msg := Show("catalog reloaded", StyleInfo)()
	require.Equal(t, ShowMsg{Message: "catalog reloaded", Style: StyleInfo}, msg)
}

func TestView_Icons(t *testing.T) {
	tests := []struct {
		style Style
		icon  string
	}{
		{StyleSuccess, "✓ "},
		{StyleError, "✗ "},
		{StyleInfo, "i "},
		{StyleWarn, "! "},
	}
	for _, tt := range tests {
		m, _ := New().Update(ShowMsg{Message: "msg", Style: tt.style})
		require.Contains(t, ansi.Strip(m.View()), tt.icon+"msg")
	}
}

func TestOverlay_BottomCenter(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 30)+"\n", 10), "\n")
	m, _ := New().SetSize(30, 10).Update(ShowMsg{Message: "done"})

	lines := strings.Split(ansi.Strip(m.Overlay(bg)), "\n")
	require.Len(t, lines, 10)
	require.Contains(t, lines[7], "done")
	require.Equal(t, strings.Repeat(".", 30), lines[9])
}

func TestOverlay_HiddenReturnsBackground(t *testing.T) {
	require.Equal(t, "bg", New().Overlay("bg"))
}
