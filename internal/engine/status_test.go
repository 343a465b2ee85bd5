package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatusAt(t *testing.T) {
	begin := at("10:00")
	end := at("12:00")

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"开始之前", at("09:59"), StatusReserved},
		{"恰在开始时刻", at("10:00"), StatusOngoing},
		{"进行之中", at("11:00"), StatusOngoing},
		{"恰在结束时刻", at("12:00"), StatusFinished},
		{"结束之后", at("13:00"), StatusFinished},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, StatusAt(tt.now, begin, end))
		})
	}
}

// 状态随时间单调前进，不会回退
func TestStatusAtMonotonic(t *testing.T) {
	begin := at("10:00")
	end := at("12:00")

	prev := StatusReserved
	for now := at("09:00"); !now.After(at("13:00")); now = now.Add(time.Minute) {
		cur := StatusAt(now, begin, end)
		require.GreaterOrEqual(t, int(cur), int(prev), "状态在 %v 处回退", now)
		prev = cur
	}
	require.Equal(t, StatusFinished, prev)
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "reserved", StatusReserved.String())
	require.Equal(t, "ongoing", StatusOngoing.String())
	require.Equal(t, "finished", StatusFinished.String())
	require.Equal(t, "unknown", Status(0).String())
}
