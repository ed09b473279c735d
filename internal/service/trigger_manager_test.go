package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/michaelos02/mroFormLimiter/internal/model"
	apperrors "github.com/michaelos02/mroFormLimiter/pkg/errors"
)

// ── 测试辅助 ──

var testNow = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

func setupTestTriggerManager() (*triggerManager, *mockTriggerRepo, *mockFormRepo) {
	triggerRepo := newMockTriggerRepo()
	formRepo := newMockFormRepo()
	m := NewTriggerManager(triggerRepo, NewFormProvider(formRepo), time.UTC, zap.NewNop()).(*triggerManager)
	m.now = func() time.Time { return testNow }
	return m, triggerRepo, formRepo
}

// ── ClearOwned 测试 ──

func TestTriggerManager_ClearOwned_Empty(t *testing.T) {
	m, _, _ := setupTestTriggerManager()

	n, err := m.ClearOwned(context.Background())
	if err != nil {
		t.Fatalf("空触发器列表不应报错: %v", err)
	}
	if n != 0 {
		t.Errorf("期望删除0个，实际=%d", n)
	}
}

func TestTriggerManager_ClearOwned_OnlyExactMatch(t *testing.T) {
	m, repo, _ := setupTestTriggerManager()
	repo.add(model.Trigger{HandlerName: model.HandlerDeadline, TriggerType: model.TriggerTypeTime})
	repo.add(model.Trigger{HandlerName: model.HandlerSubmission, TriggerType: model.TriggerTypeEvent})
	repo.add(model.Trigger{HandlerName: model.HandlerSubmission, TriggerType: model.TriggerTypeEvent})
	repo.add(model.Trigger{HandlerName: "send_weekly_digest", TriggerType: model.TriggerTypeTime})
	repo.add(model.Trigger{HandlerName: "close_form_at_deadline_v2", TriggerType: model.TriggerTypeTime})
	repo.add(model.Trigger{HandlerName: "CHECK_SUBMISSION_LIMIT", TriggerType: model.TriggerTypeEvent})

	n, err := m.ClearOwned(context.Background())
	if err != nil {
		t.Fatalf("ClearOwned 应成功: %v", err)
	}
	if n != 3 {
		t.Errorf("期望删除3个，实际=%d", n)
	}
	if repo.ownedCount() != 0 {
		t.Errorf("期望不剩本系统触发器，实际=%d", repo.ownedCount())
	}
	if len(repo.triggers) != 3 {
		t.Errorf("其它系统的3个触发器应保留，实际剩余=%d", len(repo.triggers))
	}
}

func TestTriggerManager_ClearOwned_Idempotent(t *testing.T) {
	m, repo, _ := setupTestTriggerManager()
	repo.add(model.Trigger{HandlerName: model.HandlerDeadline, TriggerType: model.TriggerTypeTime})

	if _, err := m.ClearOwned(context.Background()); err != nil {
		t.Fatalf("第一次 ClearOwned 失败: %v", err)
	}
	n, err := m.ClearOwned(context.Background())
	if err != nil || n != 0 {
		t.Errorf("第二次 ClearOwned 期望 (0, nil)，实际 (%d, %v)", n, err)
	}
}

func TestTriggerManager_ClearOwned_PlatformError(t *testing.T) {
	m, repo, _ := setupTestTriggerManager()
	repo.listErr = errPlatform

	_, err := m.ClearOwned(context.Background())
	var te *apperrors.TriggerPlatformError
	if !errors.As(err, &te) {
		t.Fatalf("期望 TriggerPlatformError，实际: %v", err)
	}
	if !errors.Is(err, errPlatform) {
		t.Error("应保留平台底层错误")
	}
}

// ── InstallDeadline 测试 ──

func TestTriggerManager_InstallDeadline_Success(t *testing.T) {
	m, repo, _ := setupTestTriggerManager()

	at, err := m.InstallDeadline(context.Background(), "2026-10-20", "09:00")
	if err != nil {
		t.Fatalf("InstallDeadline 应成功: %v", err)
	}

	want := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Errorf("期望触发时间=%v，实际=%v", want, at)
	}
	if repo.count(model.HandlerDeadline) != 1 {
		t.Fatalf("期望1个截止触发器，实际=%d", repo.count(model.HandlerDeadline))
	}
	if tr := repo.triggers[0]; tr.TriggerType != model.TriggerTypeTime || !tr.FireAt.Equal(want) {
		t.Errorf("截止触发器字段不正确: %+v", tr)
	}
}

func TestTriggerManager_InstallDeadline_TodayElapsed(t *testing.T) {
	m, repo, _ := setupTestTriggerManager()

	for _, clock := range []string{"08:00", "15:30"} {
		_, err := m.InstallDeadline(context.Background(), "2026-10-19", clock)
		var te *apperrors.TriggerPlatformError
		if !errors.As(err, &te) || te.Message != "deadline must be in the future" {
			t.Errorf("clock=%s 期望 deadline must be in the future，实际: %v", clock, err)
		}
	}
	if len(repo.triggers) != 0 {
		t.Errorf("失败时不应创建触发器，实际=%d", len(repo.triggers))
	}
}

func TestTriggerManager_InstallDeadline_UsesLocation(t *testing.T) {
	m, _, _ := setupTestTriggerManager()
	m.loc = time.FixedZone("UTC+8", 8*3600)

	// 本地 2026-10-19 23:00 = UTC 15:00，早于 testNow
	_, err := m.InstallDeadline(context.Background(), "2026-10-19", "23:00")
	if err == nil {
		t.Fatal("UTC+8 的 23:00 已过去，应拒绝")
	}

	at, err := m.InstallDeadline(context.Background(), "2026-10-19", "23:45")
	if err != nil {
		t.Fatalf("UTC+8 的 23:45 尚未到达，应成功: %v", err)
	}
	if !at.UTC().Equal(time.Date(2026, 10, 19, 15, 45, 0, 0, time.UTC)) {
		t.Errorf("时区换算错误: %v", at.UTC())
	}
}

func TestTriggerManager_InstallDeadline_PlatformError(t *testing.T) {
	m, repo, _ := setupTestTriggerManager()
	repo.createErr = errPlatform

	_, err := m.InstallDeadline(context.Background(), "2026-10-20", "09:00")
	var te *apperrors.TriggerPlatformError
	if !errors.As(err, &te) || te.Message != "failed to create deadline trigger" {
		t.Errorf("期望 failed to create deadline trigger，实际: %v", err)
	}
}

// ── InstallSubmission 测试 ──

func TestTriggerManager_InstallSubmission_Success(t *testing.T) {
	m, repo, _ := setupTestTriggerManager()

	if err := m.InstallSubmission(context.Background()); err != nil {
		t.Fatalf("InstallSubmission 应成功: %v", err)
	}
	if repo.count(model.HandlerSubmission) != 1 {
		t.Fatalf("期望1个提交触发器，实际=%d", repo.count(model.HandlerSubmission))
	}
	tr := repo.triggers[0]
	if tr.TriggerType != model.TriggerTypeEvent || tr.FormID == nil || *tr.FormID != testFormID {
		t.Errorf("提交触发器应绑定到活动收集表: %+v", tr)
	}
}

func TestTriggerManager_InstallSubmission_NoActiveForm(t *testing.T) {
	m, repo, formRepo := setupTestTriggerManager()
	formRepo.forms[testFormID].IsActive = false

	err := m.InstallSubmission(context.Background())
	var te *apperrors.TriggerPlatformError
	if !errors.As(err, &te) {
		t.Fatalf("期望 TriggerPlatformError，实际: %v", err)
	}
	if !errors.Is(err, ErrActiveFormNotFound) {
		t.Errorf("应包装 ErrActiveFormNotFound，实际: %v", err)
	}
	if len(repo.triggers) != 0 {
		t.Error("失败时不应创建触发器")
	}
}
