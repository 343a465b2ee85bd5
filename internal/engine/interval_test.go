package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func at(hm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2026-03-01 "+hm)
	if err != nil {
		panic(err)
	}
	return t
}

func iv(begin, end string) Interval {
	return Interval{Begin: at(begin), End: at(end)}
}

func TestConflicts(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"完全重叠", iv("09:00", "10:00"), iv("09:00", "10:00"), true},
		{"部分交叠", iv("09:00", "10:00"), iv("09:30", "10:30"), true},
		{"包含", iv("09:00", "12:00"), iv("10:00", "11:00"), true},
		{"首尾相接也算冲突", iv("09:00", "10:00"), iv("10:00", "11:00"), true},
		{"反向首尾相接", iv("10:00", "11:00"), iv("09:00", "10:00"), true},
		{"存在严格空隙", iv("09:00", "10:00"), iv("10:01", "11:00"), false},
		{"相隔很远", iv("09:00", "10:00"), iv("14:00", "15:00"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Conflicts(tt.a, tt.b))
			// 冲突关系是对称的
			require.Equal(t, tt.want, Conflicts(tt.b, tt.a))
		})
	}
}

func TestConflictsSelf(t *testing.T) {
	a := iv("09:00", "10:00")
	require.True(t, Conflicts(a, a))
}
