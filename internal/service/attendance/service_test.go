package attendance

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dailylog/dailylog-backend-go/internal/domain/attendance"
	"github.com/dailylog/dailylog-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAttendanceRepo is an in-memory AttendanceRepository with the same
// conditional-write semantics as the SQL implementation.
type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]*attendance.AttendanceDay
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*attendance.AttendanceDay)}
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) InsertIfAbsent(_ context.Context, rec attendance.AttendanceDay) (attendance.AttendanceDay, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := dayKey(rec.EmployeeID, rec.Date)
	if existing, ok := f.records[key]; ok {
		return *existing, false, nil
	}

	f.nextID++
	rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	stored := rec
	f.records[key] = &stored
	return rec, true, nil
}

func (f *fakeAttendanceRepo) SetTimeOut(_ context.Context, employeeID string, date time.Time, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[dayKey(employeeID, date)]
	if !ok || rec.TimeIn == nil || rec.TimeOut != nil {
		return false, nil
	}
	rec.TimeOut = &at
	return true, nil
}

func (f *fakeAttendanceRepo) UpdateDerived(_ context.Context, employeeID string, date time.Time, status attendance.Status, totalMinutes, overtimeMinutes, undertimeMinutes int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[dayKey(employeeID, date)]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	rec.Status = status
	rec.TotalMinutes = totalMinutes
	rec.OvertimeMinutes = overtimeMinutes
	rec.UndertimeMinutes = undertimeMinutes
	return nil
}

func (f *fakeAttendanceRepo) UpdateRecord(_ context.Context, rec attendance.AttendanceDay) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for key, existing := range f.records {
		if existing.ID == rec.ID {
			stored := rec
			f.records[key] = &stored
			return nil
		}
	}
	return attendance.ErrRecordNotFound
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.AttendanceDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, rec := range f.records {
		if rec.ID == id {
			return *rec, nil
		}
	}
	return attendance.AttendanceDay{}, attendance.ErrRecordNotFound
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.AttendanceDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[dayKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeAttendanceRepo) ListByEmployee(_ context.Context, employeeID string) ([]attendance.AttendanceDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []attendance.AttendanceDay
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.AttendanceDay, error) {
	recs, _ := f.ListByEmployee(ctx, employeeID)
	var out []attendance.AttendanceDay
	for _, rec := range recs {
		if !rec.Date.Before(from) && !rec.Date.After(to) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) List(_ context.Context, _ attendance.ListFilter) ([]attendance.AttendanceDay, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []attendance.AttendanceDay
	for _, rec := range f.records {
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) ListRange(_ context.Context, from, to time.Time) ([]attendance.AttendanceDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []attendance.AttendanceDay
	for _, rec := range f.records {
		if !rec.Date.Before(from) && !rec.Date.After(to) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// fakeEmployeeRepo knows a fixed set of employee codes.
type fakeEmployeeRepo struct {
	codes map[string]bool
}

func (f *fakeEmployeeRepo) Exists(_ context.Context, code string) (bool, error) {
	return f.codes[code], nil
}

func (f *fakeEmployeeRepo) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, _ string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByEmployeeCode(_ context.Context, _ string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByEmail(_ context.Context, _ string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) List(_ context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, _ employee.Employee) error {
	return nil
}

func (f *fakeEmployeeRepo) UpdatePassword(_ context.Context, _ string, _ string) error {
	return nil
}

func (f *fakeEmployeeRepo) Deactivate(_ context.Context, _ string) error {
	return nil
}

func newTestService(t *testing.T) (*AttendanceServiceImpl, *fakeAttendanceRepo) {
	t.Helper()
	wd := testWorkday(t)
	repo := newFakeAttendanceRepo()
	empRepo := &fakeEmployeeRepo{codes: map[string]bool{"EMP-1": true, "EMP-2": true}}

	svc := NewAttendanceService(repo, empRepo, wd).(*AttendanceServiceImpl)
	svc.now = func() time.Time {
		return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

func TestTimeInCreatesDayRecord(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	wd := svc.workday

	resp, err := svc.applyTimeIn(ctx, "EMP-1", at(t, wd, 8, 0).UTC())
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, string(attendance.StatusOnTime), resp.Status)
	assert.Equal(t, 1, repo.count())
}

func TestTimeInDuplicateIsNoOp(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	wd := svc.workday

	first, err := svc.applyTimeIn(ctx, "EMP-1", at(t, wd, 8, 0).UTC())
	require.NoError(t, err)

	// A later submission the same day must not move the stored time-in.
	second, err := svc.applyTimeIn(ctx, "EMP-1", at(t, wd, 9, 30).UTC())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.TimeIn, second.TimeIn)
	assert.Equal(t, 1, repo.count())
}

func TestTimeInUnknownEmployeeRejected(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.applyTimeIn(ctx, "GHOST", svc.now())
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.Equal(t, 0, repo.count())
}

func TestTimeOutWithoutTimeInRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.applyTimeOut(ctx, "EMP-1", svc.now())
	assert.ErrorIs(t, err, attendance.ErrNotTimedIn)
}

func TestTimeOutIsWriteOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	wd := svc.workday

	_, err := svc.applyTimeIn(ctx, "EMP-1", at(t, wd, 8, 0).UTC())
	require.NoError(t, err)

	first, err := svc.applyTimeOut(ctx, "EMP-1", at(t, wd, 17, 0).UTC())
	require.NoError(t, err)
	require.NotNil(t, first.TimeOut)

	second, err := svc.applyTimeOut(ctx, "EMP-1", at(t, wd, 19, 0).UTC())
	require.NoError(t, err)

	assert.Equal(t, first.TimeOut, second.TimeOut)
	assert.Equal(t, first.Status, second.Status)
}

func TestTimeOutDerivesFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	wd := svc.workday

	_, err := svc.applyTimeIn(ctx, "EMP-1", at(t, wd, 7, 55).UTC())
	require.NoError(t, err)

	resp, err := svc.applyTimeOut(ctx, "EMP-1", at(t, wd, 18, 30).UTC())
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusOvertime), resp.Status)
	assert.Equal(t, "10h 35m", resp.TotalHours)
	assert.Equal(t, "1.50", resp.OvertimeHours)
	assert.Equal(t, "0.00", resp.UndertimeHours)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	wd := svc.workday
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, wd.Location())

	_, err := svc.applyTimeIn(ctx, "EMP-1", at(t, wd, 8, 5).UTC())
	require.NoError(t, err)
	_, err = svc.applyTimeOut(ctx, "EMP-1", at(t, wd, 16, 30).UTC())
	require.NoError(t, err)

	first, err := svc.recomputeDay(ctx, "EMP-1", day)
	require.NoError(t, err)
	second, err := svc.recomputeDay(ctx, "EMP-1", day)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, string(attendance.StatusUndertime), first.Status)
	assert.Equal(t, "0.50", first.UndertimeHours)
}

func TestRecomputePreservesOverride(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	wd := svc.workday
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, wd.Location())

	created, err := svc.applyTimeIn(ctx, "EMP-1", at(t, wd, 8, 5).UTC())
	require.NoError(t, err)

	status := "ON_TIME"
	overtime := "2.00"
	_, err = svc.Override(ctx, attendance.OverrideRequest{ID: created.ID, Status: &status, OvertimeHours: &overtime})
	require.NoError(t, err)

	resp, err := svc.recomputeDay(ctx, "EMP-1", day)
	require.NoError(t, err)

	assert.Equal(t, "ON_TIME", resp.Status)
	assert.Equal(t, "2.00", resp.OvertimeHours)
}

func TestResetClearsRecord(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	wd := svc.workday
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, wd.Location())

	created, err := svc.applyTimeIn(ctx, "EMP-1", at(t, wd, 8, 0).UTC())
	require.NoError(t, err)

	resp, err := svc.Reset(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusReset), resp.Status)
	assert.Nil(t, resp.TimeIn)
	assert.Nil(t, resp.TimeOut)
	assert.Equal(t, "0h 0m", resp.TotalHours)

	// Reset is terminal for recompute passes.
	after, err := svc.recomputeDay(ctx, "EMP-1", day)
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusReset), after.Status)
	assert.Equal(t, 1, repo.count())
}

func TestTimeOutAfterResetRejected(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	wd := svc.workday
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, wd.Location())

	created, err := svc.applyTimeIn(ctx, "EMP-1", at(t, wd, 8, 0).UTC())
	require.NoError(t, err)

	_, err = svc.Reset(ctx, created.ID)
	require.NoError(t, err)

	// A reset record has no open time-in left to close.
	_, err = svc.applyTimeOut(ctx, "EMP-1", at(t, wd, 17, 0).UTC())
	assert.ErrorIs(t, err, attendance.ErrNotTimedIn)

	stored, err := repo.GetByEmployeeAndDate(ctx, "EMP-1", day)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.TimeIn)
	assert.Nil(t, stored.TimeOut)
	assert.Equal(t, attendance.StatusReset, stored.Status)
}

func TestUpdateRejectsInstantOutsideDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	wd := svc.workday

	created, err := svc.applyTimeIn(ctx, "EMP-1", at(t, wd, 8, 0).UTC())
	require.NoError(t, err)

	wrongDay := time.Date(2025, time.March, 11, 8, 0, 0, 0, wd.Location()).Format(time.RFC3339)
	_, err = svc.Update(ctx, attendance.UpdateRecordRequest{ID: created.ID, TimeIn: &wrongDay})
	assert.ErrorIs(t, err, attendance.ErrInstantOutOfDay)
}

func TestUpdateReclassifiesPair(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	wd := svc.workday

	created, err := svc.applyTimeIn(ctx, "EMP-1", at(t, wd, 8, 0).UTC())
	require.NoError(t, err)

	newIn := at(t, wd, 10, 30).Format(time.RFC3339)
	resp, err := svc.Update(ctx, attendance.UpdateRecordRequest{ID: created.ID, TimeIn: &newIn})
	require.NoError(t, err)

	// 10:30 is past the two-hour late threshold.
	assert.Equal(t, string(attendance.StatusAbsent), resp.Status)
}

func TestAtMostOneRecordPerEmployeePerDay(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	wd := svc.workday

	events := []time.Time{
		at(t, wd, 8, 0).UTC(),
		at(t, wd, 8, 0).UTC(),
		at(t, wd, 9, 15).UTC(),
	}
	for _, ev := range events {
		_, err := svc.applyTimeIn(ctx, "EMP-1", ev)
		require.NoError(t, err)
	}
	_, err := svc.applyTimeOut(ctx, "EMP-1", at(t, wd, 17, 0).UTC())
	require.NoError(t, err)
	_, err = svc.applyTimeOut(ctx, "EMP-1", at(t, wd, 18, 0).UTC())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.count())

	// A different employee gets an independent record.
	_, err = svc.applyTimeIn(ctx, "EMP-2", at(t, wd, 8, 0).UTC())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.count())
}
