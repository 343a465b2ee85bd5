package engine

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"activity-enroll-system/internal/global/response"
	"activity-enroll-system/internal/model"

	"github.com/stretchr/testify/require"
)

// memStore 进程内存储假件，解释编译后的查询规格，
// 行为对齐 internal/store 的 gorm 实现
type memStore struct {
	mu          sync.Mutex
	nextID      uint
	activities  []model.Activity
	enrollments []model.Enrollment
}

func newMemStore() *memStore {
	return &memStore{nextID: 1}
}

func (m *memStore) Create(_ context.Context, activity *model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	activity.ID = m.nextID
	m.nextID++
	m.activities = append(m.activities, *activity)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id uint) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.activities {
		if m.activities[i].ID == id {
			a := m.activities[i]
			return &a, nil
		}
	}
	return nil, response.ErrNotFound
}

func (m *memStore) ListByLocation(_ context.Context, location string) ([]model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Activity
	for _, a := range m.activities {
		if a.Location == location && !a.Disabled {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) List(_ context.Context, spec ListSpec, offset, limit int) ([]model.Activity, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Activity
	for _, a := range m.activities {
		if a.Disabled {
			continue
		}
		if matches(a, spec.Conds) {
			out = append(out, a)
		}
	}
	total := int64(len(out))
	applyOrders(out, spec.Orders)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func matches(a model.Activity, conds []Cond) bool {
	for _, c := range conds {
		switch c.Expr {
		case "begin_time > ?":
			if !a.BeginTime.After(c.Args[0].(time.Time)) {
				return false
			}
		case "begin_time <= ? AND end_time >= ?":
			if a.BeginTime.After(c.Args[0].(time.Time)) || a.EndTime.Before(c.Args[1].(time.Time)) {
				return false
			}
		case "end_time < ?":
			if !a.EndTime.Before(c.Args[0].(time.Time)) {
				return false
			}
		case "location = ?":
			if a.Location != c.Args[0].(string) {
				return false
			}
		default:
			panic("未知条件 " + c.Expr)
		}
	}
	return true
}

func applyOrders(list []model.Activity, orders []string) {
	// 次键在前施加，稳定排序保证主键优先
	for i := len(orders) - 1; i >= 0; i-- {
		order := orders[i]
		sort.SliceStable(list, func(x, y int) bool {
			switch order {
			case "begin_time ASC":
				return list[x].BeginTime.Before(list[y].BeginTime)
			case "begin_time DESC":
				return list[y].BeginTime.Before(list[x].BeginTime)
			case "capacity ASC":
				return list[x].Capacity < list[y].Capacity
			case "capacity DESC":
				return list[y].Capacity < list[x].Capacity
			default:
				panic("未知排序 " + order)
			}
		})
	}
}

func (m *memStore) SetDisabled(_ context.Context, id uint, disabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.activities {
		if m.activities[i].ID == id {
			m.activities[i].Disabled = disabled
			return nil
		}
	}
	return response.ErrNotFound
}

func (m *memStore) CreateEnrollment(_ context.Context, e *model.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrollments = append(m.enrollments, *e)
	return nil
}

func (m *memStore) CountByActivity(_ context.Context, activityID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.enrollments {
		if e.ActivityID == activityID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ExistsFor(_ context.Context, activityID uint, participantID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.enrollments {
		if e.ActivityID == activityID && e.ParticipantID == participantID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListByParticipant(_ context.Context, participantID string) ([]model.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Enrollment
	for _, e := range m.enrollments {
		if e.ParticipantID != participantID {
			continue
		}
		for i := range m.activities {
			if m.activities[i].ID == e.ActivityID {
				e.Activity = m.activities[i]
				break
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// enrollmentAPI 把 memStore 适配为 EnrollmentStore，Create 名字被活动侧占用
type enrollmentAPI struct{ *memStore }

func (a enrollmentAPI) Create(ctx context.Context, e *model.Enrollment) error {
	return a.memStore.CreateEnrollment(ctx, e)
}

// keyLocker 进程内按键互斥
type keyLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLocker() *keyLocker {
	return &keyLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *keyLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

func newTestService(now time.Time) (*Service, *memStore) {
	st := newMemStore()
	svc := NewService(st, enrollmentAPI{st}, newKeyLocker(), FixedClock(now))
	return svc, st
}

func TestServiceCreateActivitySerializesLocation(t *testing.T) {
	svc, _ := newTestService(at("08:00"))
	ctx := context.Background()

	mk := func(begin, end string) CreationProposal {
		return CreationProposal{
			PublisherID: "alice", Name: "例会", Location: "Room1",
			Begin: at(begin), End: at(end), Capacity: 10,
		}
	}

	first, err := svc.CreateActivity(ctx, mk("09:00", "10:00"))
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	_, err = svc.CreateActivity(ctx, mk("09:30", "10:30"))
	require.ErrorIs(t, err, response.ErrLocationConflict)

	// 首尾相接同样拒绝
	_, err = svc.CreateActivity(ctx, mk("10:00", "11:00"))
	require.ErrorIs(t, err, response.ErrLocationConflict)

	second, err := svc.CreateActivity(ctx, mk("10:01", "11:00"))
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	// 另一地点不受影响
	other := mk("09:00", "10:00")
	other.Location = "Room2"
	_, err = svc.CreateActivity(ctx, other)
	require.NoError(t, err)
}

func TestServiceCreateActivityIgnoresDisabled(t *testing.T) {
	svc, _ := newTestService(at("08:00"))
	ctx := context.Background()

	a, err := svc.CreateActivity(ctx, CreationProposal{
		PublisherID: "alice", Name: "例会", Location: "Room1",
		Begin: at("09:00"), End: at("10:00"), Capacity: 10,
	})
	require.NoError(t, err)
	require.NoError(t, svc.DisableActivity(ctx, a.ID))

	// 已下架活动不再占用地点
	_, err = svc.CreateActivity(ctx, CreationProposal{
		PublisherID: "alice", Name: "复盘", Location: "Room1",
		Begin: at("09:30"), End: at("10:30"), Capacity: 10,
	})
	require.NoError(t, err)
}

// 恢复会重新占用地点，必须重跑同地点冲突检查
func TestServiceRestoreRevalidatesLocation(t *testing.T) {
	svc, _ := newTestService(at("08:00"))
	ctx := context.Background()

	mk := func(name, begin, end string) *model.Activity {
		a, err := svc.CreateActivity(ctx, CreationProposal{
			PublisherID: "alice", Name: name, Location: "Room1",
			Begin: at(begin), End: at(end), Capacity: 10,
		})
		require.NoError(t, err)
		return a
	}

	a := mk("例会", "09:00", "10:00")
	require.NoError(t, svc.DisableActivity(ctx, a.ID))

	// 下架期间同地点建立了重叠的活动
	b := mk("复盘", "09:30", "10:30")

	// 直接恢复会双重占用地点，必须拒绝
	err := svc.RestoreActivity(ctx, a.ID)
	require.ErrorIs(t, err, response.ErrLocationConflict)

	got, err := svc.GetActivity(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.Disabled)

	// 冲突方下架后恢复放行
	require.NoError(t, svc.DisableActivity(ctx, b.ID))
	require.NoError(t, svc.RestoreActivity(ctx, a.ID))

	got, err = svc.GetActivity(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, got.Disabled)

	// 未下架的活动恢复是无操作
	require.NoError(t, svc.RestoreActivity(ctx, a.ID))

	_, err = svc.CreateActivity(ctx, CreationProposal{
		PublisherID: "alice", Name: "加场", Location: "Room1",
		Begin: at("09:30"), End: at("10:30"), Capacity: 10,
	})
	require.ErrorIs(t, err, response.ErrLocationConflict)
}

func TestServiceEnroll(t *testing.T) {
	svc, _ := newTestService(at("08:00"))
	ctx := context.Background()

	a, err := svc.CreateActivity(ctx, CreationProposal{
		PublisherID: "alice", Name: "例会", Location: "Room1",
		Begin: at("09:00"), End: at("10:00"), Capacity: 1,
	})
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, a.ID, "alice")
	require.ErrorIs(t, err, response.ErrPublisherCannotEnroll)

	e, err := svc.Enroll(ctx, a.ID, "bob")
	require.NoError(t, err)
	require.Equal(t, a.ID, e.ActivityID)

	_, err = svc.Enroll(ctx, a.ID, "bob")
	require.ErrorIs(t, err, response.ErrAlreadyEnrolled)

	// 名额已满
	_, err = svc.Enroll(ctx, a.ID, "carol")
	require.ErrorIs(t, err, response.ErrCapacityExceeded)

	_, err = svc.Enroll(ctx, 999, "bob")
	require.ErrorIs(t, err, response.ErrNotFound)

	require.NoError(t, svc.DisableActivity(ctx, a.ID))
	_, err = svc.Enroll(ctx, a.ID, "dave")
	require.ErrorIs(t, err, response.ErrNotFound)
}

func TestServiceEnrollTimeConflict(t *testing.T) {
	svc, _ := newTestService(at("08:00"))
	ctx := context.Background()

	a, err := svc.CreateActivity(ctx, CreationProposal{
		PublisherID: "alice", Name: "上半场", Location: "Room1",
		Begin: at("09:00"), End: at("10:00"), Capacity: 10,
	})
	require.NoError(t, err)
	b, err := svc.CreateActivity(ctx, CreationProposal{
		PublisherID: "alice", Name: "下半场", Location: "Room2",
		Begin: at("10:00"), End: at("11:00"), Capacity: 10,
	})
	require.NoError(t, err)
	c, err := svc.CreateActivity(ctx, CreationProposal{
		PublisherID: "alice", Name: "晚场", Location: "Room3",
		Begin: at("10:01"), End: at("11:00"), Capacity: 10,
	})
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, a.ID, "bob")
	require.NoError(t, err)

	// 首尾相接的两场对同一参与者也算冲突
	_, err = svc.Enroll(ctx, b.ID, "bob")
	require.ErrorIs(t, err, response.ErrParticipantTimeConflict)

	_, err = svc.Enroll(ctx, c.ID, "bob")
	require.NoError(t, err)
}

func TestServiceEnrollNotJoinable(t *testing.T) {
	svc, _ := newTestService(at("08:00"))
	ctx := context.Background()

	a, err := svc.CreateActivity(ctx, CreationProposal{
		PublisherID: "alice", Name: "例会", Location: "Room1",
		Begin: at("09:00"), End: at("10:00"), Capacity: 10,
	})
	require.NoError(t, err)

	// 时钟拨到开始之后
	late := NewService(svc.activities, svc.enrollments, svc.locker, FixedClock(at("09:30")))
	_, err = late.Enroll(ctx, a.ID, "bob")
	require.ErrorIs(t, err, response.ErrActivityNotJoinable)
}

// 并发报名不会超出名额上限
func TestServiceEnrollConcurrent(t *testing.T) {
	svc, _ := newTestService(at("08:00"))
	ctx := context.Background()

	const capacity = 3
	a, err := svc.CreateActivity(ctx, CreationProposal{
		PublisherID: "alice", Name: "抢位", Location: "Room1",
		Begin: at("09:00"), End: at("10:00"), Capacity: capacity,
	})
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Enroll(ctx, a.ID, "user"+string(rune('A'+i)))
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			require.ErrorIs(t, err, response.ErrCapacityExceeded)
		}
	}
	require.Equal(t, capacity, ok)

	count, err := svc.enrollments.CountByActivity(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, int64(capacity), count)
}

func TestServiceListActivities(t *testing.T) {
	svc, _ := newTestService(at("06:00"))
	ctx := context.Background()

	mk := func(name, loc, begin, end string, capacity int) {
		_, err := svc.CreateActivity(ctx, CreationProposal{
			PublisherID: "alice", Name: name, Location: loc,
			Begin: at(begin), End: at(end), Capacity: capacity,
		})
		require.NoError(t, err)
	}
	mk("早场", "Room1", "07:00", "08:00", 5)
	mk("午场", "Room1", "11:00", "12:00", 20)
	mk("晚场", "Room2", "11:00", "12:00", 10)
	mk("夜场", "Room2", "14:00", "15:00", 10)

	// 在 09:00 评估：早场已结束，其余未开始
	now := at("09:00")

	list, total, err := svc.ListActivities(ctx, CatalogQuery{Status: FilterFinished}, now, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "早场", list[0].Name)

	list, total, err = svc.ListActivities(ctx, CatalogQuery{Status: FilterReserved}, now, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)

	// 11:30 评估：两个 11 点场进行中
	list, total, err = svc.ListActivities(ctx, CatalogQuery{Status: FilterOngoing}, at("11:30"), 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	// 边界：恰在开始时刻即进行中
	list, total, err = svc.ListActivities(ctx, CatalogQuery{Status: FilterOngoing}, at("11:00"), 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	_, total, err = svc.ListActivities(ctx, CatalogQuery{Status: FilterReserved}, at("11:00"), 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	// 边界：恰在结束时刻仍计入进行中，不计入已结束
	_, total, err = svc.ListActivities(ctx, CatalogQuery{Status: FilterOngoing}, at("12:00"), 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	_, total, err = svc.ListActivities(ctx, CatalogQuery{Status: FilterFinished}, at("12:00"), 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	// 地点与状态组合
	list, total, err = svc.ListActivities(ctx, CatalogQuery{Status: FilterReserved, Location: "Room2"}, now, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	// 开始时间主键升序，名额次键降序
	list, _, err = svc.ListActivities(ctx, CatalogQuery{BeginOrder: OrderAsc, CapacityOrder: OrderDesc}, now, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 4)
	require.Equal(t, "早场", list[0].Name)
	require.Equal(t, "午场", list[1].Name) // 同为 11 点场，名额大者在前
	require.Equal(t, "晚场", list[2].Name)
	require.Equal(t, "夜场", list[3].Name)

	// 分页
	list, total, err = svc.ListActivities(ctx, CatalogQuery{BeginOrder: OrderAsc}, now, 1, 2)
	require.NoError(t, err)
	require.Equal(t, int64(4), total)
	require.Len(t, list, 2)
}
