package engine

import (
	"testing"
	"time"

	"activity-enroll-system/internal/global/response"
	"activity-enroll-system/internal/model"

	"github.com/stretchr/testify/require"
)

func proposal(begin, end string) CreationProposal {
	return CreationProposal{
		PublisherID: "alice",
		Name:        "测试活动",
		Location:    "Room1",
		Begin:       at(begin),
		End:         at(end),
		Capacity:    10,
	}
}

func existing(id uint, begin, end string) model.Activity {
	a := model.Activity{
		Location:  "Room1",
		BeginTime: at(begin),
		EndTime:   at(end),
		Capacity:  10,
	}
	a.ID = id
	return a
}

func TestValidateCreationOK(t *testing.T) {
	now := at("08:00")
	activity, err := ValidateCreation(now, proposal("09:00", "10:00"), nil)
	require.NoError(t, err)
	require.Equal(t, "Room1", activity.Location)
	require.Equal(t, at("09:00"), activity.BeginTime)
	require.Equal(t, at("10:00"), activity.EndTime)
	require.Equal(t, "alice", activity.PublisherID)
}

func TestValidateCreationTimeRange(t *testing.T) {
	now := at("08:00")

	_, err := ValidateCreation(now, proposal("10:00", "09:00"), nil)
	require.ErrorIs(t, err, response.ErrInvalidTimeRange)

	// 开始等于结束同样是非法区间
	_, err = ValidateCreation(now, proposal("09:00", "09:00"), nil)
	require.ErrorIs(t, err, response.ErrInvalidTimeRange)
}

func TestValidateCreationPastStart(t *testing.T) {
	now := at("09:30")
	_, err := ValidateCreation(now, proposal("09:00", "10:00"), nil)
	require.ErrorIs(t, err, response.ErrPastStartTime)

	// 恰好现在开始不算过去
	_, err = ValidateCreation(at("09:00"), proposal("09:00", "10:00"), nil)
	require.NoError(t, err)
}

func TestValidateCreationTooLong(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mk := func(d time.Duration) CreationProposal {
		p := proposal("09:00", "10:00")
		p.Begin = now.Add(time.Hour)
		p.End = p.Begin.Add(d)
		return p
	}

	// 不足一整天的活动放行，哪怕只差一分钟
	_, err := ValidateCreation(now, mk(23*time.Hour+59*time.Minute), nil)
	require.NoError(t, err)

	_, err = ValidateCreation(now, mk(24*time.Hour), nil)
	require.ErrorIs(t, err, response.ErrActivityTooLong)

	_, err = ValidateCreation(now, mk(48*time.Hour), nil)
	require.ErrorIs(t, err, response.ErrActivityTooLong)
}

func TestValidateCreationLocationConflict(t *testing.T) {
	now := at("08:00")
	tests := []struct {
		name     string
		others   []model.Activity
		conflict bool
	}{
		{"无既有活动", nil, false},
		{"交叠", []model.Activity{existing(1, "09:30", "10:30")}, true},
		{"首尾相接", []model.Activity{existing(2, "10:00", "11:00")}, true},
		{"新活动结束接既有开始", []model.Activity{existing(3, "08:00", "09:00")}, true},
		{"有空隙", []model.Activity{existing(4, "10:01", "11:00")}, false},
		{"多个中命中一个", []model.Activity{
			existing(5, "06:00", "07:00"),
			existing(6, "09:45", "10:30"),
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateCreation(now, proposal("09:00", "10:00"), tt.others)
			if tt.conflict {
				require.ErrorIs(t, err, response.ErrLocationConflict)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// 校验按固定顺序短路，时间区间错误优先于其余一切
func TestValidateCreationOrder(t *testing.T) {
	now := at("09:30")

	// 区间非法且开始在过去，报区间错误
	_, err := ValidateCreation(now, proposal("09:00", "08:00"), nil)
	require.ErrorIs(t, err, response.ErrInvalidTimeRange)

	// 开始在过去且地点冲突，报过去开始
	_, err = ValidateCreation(now, proposal("09:00", "10:00"),
		[]model.Activity{existing(1, "09:00", "10:00")})
	require.ErrorIs(t, err, response.ErrPastStartTime)

	// 超长且地点冲突，报超长
	p := proposal("10:00", "10:30")
	p.End = p.Begin.Add(30 * time.Hour)
	_, err = ValidateCreation(now, p, []model.Activity{existing(1, "10:00", "11:00")})
	require.ErrorIs(t, err, response.ErrActivityTooLong)
}

// 依次通过校验的活动序列两两互不冲突
func TestValidateCreationSequencePairwiseDisjoint(t *testing.T) {
	now := at("06:00")
	proposals := []CreationProposal{
		proposal("09:00", "10:00"),
		proposal("10:01", "11:00"),
		proposal("08:00", "08:30"),
		proposal("11:30", "12:00"),
	}

	var accepted []model.Activity
	for i, p := range proposals {
		a, err := ValidateCreation(now, p, accepted)
		require.NoError(t, err, "第 %d 个提案被拒", i)
		a.ID = uint(i + 1)
		accepted = append(accepted, *a)
	}

	for i := range accepted {
		for j := range accepted {
			if i == j {
				continue
			}
			require.False(t, Conflicts(IntervalOf(&accepted[i]), IntervalOf(&accepted[j])))
		}
	}
}
