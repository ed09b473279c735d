package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/michaelos02/mroFormLimiter/config"
	"github.com/michaelos02/mroFormLimiter/internal/dto"
	"github.com/michaelos02/mroFormLimiter/internal/model"
	"github.com/michaelos02/mroFormLimiter/internal/repository"
	"github.com/michaelos02/mroFormLimiter/internal/scheduler"
)

// ── 测试辅助 ──

func setupTestFormService() (FormService, *mockFormRepo, *mockDispatcher) {
	formRepo := newMockFormRepo()
	dispatcher := &mockDispatcher{}
	repo := &repository.Repository{Form: formRepo}
	return NewFormService(repo, dispatcher, zap.NewNop()), formRepo, dispatcher
}

func submitReq() *dto.SubmitResponseRequest {
	return &dto.SubmitResponseRequest{Answers: json.RawMessage(`{"name":"张三"}`)}
}

// ── GetActive 测试 ──

func TestFormService_GetActive(t *testing.T) {
	svc, formRepo, _ := setupTestFormService()
	formRepo.addResponses(testFormID, 3)

	result, err := svc.GetActive(context.Background())
	if err != nil {
		t.Fatalf("GetActive 应成功: %v", err)
	}
	if result.ID != testFormID || result.ResponseCount != 3 || !result.AcceptingResponses {
		t.Errorf("结果不符: %+v", result)
	}
}

func TestFormService_GetActive_NotFound(t *testing.T) {
	svc, formRepo, _ := setupTestFormService()
	formRepo.forms[testFormID].IsActive = false

	_, err := svc.GetActive(context.Background())
	if !errors.Is(err, ErrActiveFormNotFound) {
		t.Errorf("期望 ErrActiveFormNotFound，实际: %v", err)
	}
}

// ── Submit 测试 ──

func TestFormService_Submit_Success(t *testing.T) {
	svc, formRepo, dispatcher := setupTestFormService()

	result, err := svc.Submit(context.Background(), submitReq())
	if err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}
	if result.ResponseID == "" {
		t.Error("期望返回 ResponseID")
	}
	if len(formRepo.responses[testFormID]) != 1 {
		t.Error("期望写入1条提交")
	}
	if len(dispatcher.formIDs) != 1 || dispatcher.formIDs[0] != testFormID {
		t.Errorf("期望分发一次提交事件，实际=%v", dispatcher.formIDs)
	}
}

func TestFormService_Submit_Closed(t *testing.T) {
	svc, formRepo, dispatcher := setupTestFormService()
	formRepo.forms[testFormID].AcceptingResponses = false

	_, err := svc.Submit(context.Background(), submitReq())
	if !errors.Is(err, ErrFormClosed) {
		t.Fatalf("期望 ErrFormClosed，实际: %v", err)
	}
	if len(formRepo.responses[testFormID]) != 0 || len(dispatcher.formIDs) != 0 {
		t.Error("已关闭时不应写入或分发")
	}
}

func TestFormService_Submit_CreateFails(t *testing.T) {
	svc, formRepo, dispatcher := setupTestFormService()
	formRepo.createErr = errPlatform

	if _, err := svc.Submit(context.Background(), submitReq()); !errors.Is(err, errPlatform) {
		t.Fatalf("期望透传存储错误，实际: %v", err)
	}
	if len(dispatcher.formIDs) != 0 {
		t.Error("写入失败时不应分发")
	}
}

// ── 完整装配 ──

// 通过真实 Scheduler 串起保存设置、提交、关闭
func TestService_SubmissionLimitThroughScheduler(t *testing.T) {
	triggerRepo := newMockTriggerRepo()
	formRepo := newMockFormRepo()
	repo := &repository.Repository{Trigger: triggerRepo, Form: formRepo}
	cfg := &config.Config{Policy: config.PolicyConfig{Timezone: "UTC"}}

	sched := scheduler.New(triggerRepo, time.Minute, zap.NewNop())
	svc, err := NewService(cfg, repo, newMockSettingsKV(), sched, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService 失败: %v", err)
	}
	svc.RegisterTriggerHandlers(sched, repo)

	ctx := context.Background()
	if _, err := svc.ClosingSettings.Save(ctx, &dto.SaveClosingSettingsRequest{Number: "3"}, "operator-1"); err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Form.Submit(ctx, submitReq()); err != nil {
			t.Fatalf("第%d次提交失败: %v", i+1, err)
		}
	}

	if formRepo.forms[testFormID].AcceptingResponses {
		t.Fatal("达到上限后应关闭")
	}
	if triggerRepo.ownedCount() != 0 {
		t.Errorf("关闭后期望0个本系统触发器，实际=%d", triggerRepo.ownedCount())
	}
	if _, err := svc.Form.Submit(ctx, submitReq()); !errors.Is(err, ErrFormClosed) {
		t.Errorf("关闭后提交应被拒绝，实际: %v", err)
	}
	if n := len(formRepo.responses[testFormID]); n != 3 {
		t.Errorf("期望3条提交，实际=%d", n)
	}
}

func TestService_DeadlineThroughScheduler(t *testing.T) {
	triggerRepo := newMockTriggerRepo()
	formRepo := newMockFormRepo()
	repo := &repository.Repository{Trigger: triggerRepo, Form: formRepo}
	sched := scheduler.New(triggerRepo, time.Minute, zap.NewNop())

	svc := &Service{Closer: NewFormCloser(NewFormProvider(formRepo), NewTriggerManager(triggerRepo, NewFormProvider(formRepo), time.UTC, zap.NewNop()), zap.NewNop())}
	svc.RegisterTriggerHandlers(sched, repo)

	past := time.Now().Add(-time.Minute)
	triggerRepo.add(model.Trigger{HandlerName: model.HandlerDeadline, TriggerType: model.TriggerTypeTime, FireAt: &past})
	triggerRepo.add(model.Trigger{HandlerName: model.HandlerSubmission, TriggerType: model.TriggerTypeEvent})

	if n := sched.RunDue(context.Background()); n != 1 {
		t.Fatalf("期望执行1个到期触发器，实际=%d", n)
	}
	if formRepo.forms[testFormID].AcceptingResponses {
		t.Error("截止触发后应关闭")
	}
	if triggerRepo.ownedCount() != 0 {
		t.Errorf("截止触发后期望0个本系统触发器，实际=%d", triggerRepo.ownedCount())
	}
}
