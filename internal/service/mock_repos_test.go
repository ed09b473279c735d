package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/michaelos02/mroFormLimiter/internal/model"
)

var errPlatform = errors.New("platform unavailable")

// ── Mock SettingsKV ──

type mockSettingsKV struct {
	values map[string]string
	writes int
	getErr error
	setErr error
}

func newMockSettingsKV() *mockSettingsKV {
	return &mockSettingsKV{values: make(map[string]string)}
}

func (m *mockSettingsKV) GetAll(_ context.Context) (map[string]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

func (m *mockSettingsKV) SetAll(_ context.Context, values map[string]string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.writes++
	m.values = make(map[string]string, len(values))
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

// ── Mock TriggerRepository ──

type mockTriggerRepo struct {
	triggers  []model.Trigger
	seq       int
	listErr   error
	deleteErr error
	createErr error
}

func newMockTriggerRepo() *mockTriggerRepo {
	return &mockTriggerRepo{}
}

func (m *mockTriggerRepo) List(_ context.Context) ([]model.Trigger, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.Trigger, len(m.triggers))
	copy(out, m.triggers)
	return out, nil
}

func (m *mockTriggerRepo) Delete(_ context.Context, trigger *model.Trigger) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i := range m.triggers {
		if m.triggers[i].TriggerID == trigger.TriggerID {
			m.triggers = append(m.triggers[:i], m.triggers[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockTriggerRepo) add(t model.Trigger) *model.Trigger {
	m.seq++
	if t.TriggerID == "" {
		t.TriggerID = fmt.Sprintf("trg-%03d", m.seq)
	}
	m.triggers = append(m.triggers, t)
	return &m.triggers[len(m.triggers)-1]
}

func (m *mockTriggerRepo) CreateTimeTrigger(_ context.Context, handler model.HandlerName, at time.Time) (*model.Trigger, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	fireAt := at
	return m.add(model.Trigger{HandlerName: handler, TriggerType: model.TriggerTypeTime, FireAt: &fireAt}), nil
}

func (m *mockTriggerRepo) CreateEventTrigger(_ context.Context, handler model.HandlerName, formID string) (*model.Trigger, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	id := formID
	return m.add(model.Trigger{HandlerName: handler, TriggerType: model.TriggerTypeEvent, FormID: &id}), nil
}

func (m *mockTriggerRepo) ListDue(_ context.Context, now time.Time) ([]model.Trigger, error) {
	var out []model.Trigger
	for _, t := range m.triggers {
		if t.TriggerType == model.TriggerTypeTime && t.FireAt != nil && !t.FireAt.After(now) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTriggerRepo) ListEventTriggers(_ context.Context, formID string) ([]model.Trigger, error) {
	var out []model.Trigger
	for _, t := range m.triggers {
		if t.TriggerType == model.TriggerTypeEvent && t.FormID != nil && *t.FormID == formID {
			out = append(out, t)
		}
	}
	return out, nil
}

// count 按处理器名统计
func (m *mockTriggerRepo) count(handler model.HandlerName) int {
	n := 0
	for _, t := range m.triggers {
		if t.HandlerName == handler {
			n++
		}
	}
	return n
}

func (m *mockTriggerRepo) ownedCount() int {
	n := 0
	for _, t := range m.triggers {
		if t.HandlerName.IsOwned() {
			n++
		}
	}
	return n
}

// ── Mock FormRepository ──

const testFormID = "form-001"

type mockFormRepo struct {
	forms          map[string]*model.Form
	responses      map[string][]model.FormResponse
	setAcceptCalls int
	countErr       error
	setAcceptErr   error
	createErr      error
}

func newMockFormRepo() *mockFormRepo {
	return &mockFormRepo{
		forms: map[string]*model.Form{
			testFormID: {FormID: testFormID, Title: "报名表", IsActive: true, AcceptingResponses: true},
		},
		responses: make(map[string][]model.FormResponse),
	}
}

func (m *mockFormRepo) GetActive(_ context.Context) (*model.Form, error) {
	for _, f := range m.forms {
		if f.IsActive {
			return f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFormRepo) GetByID(_ context.Context, id string) (*model.Form, error) {
	if f, ok := m.forms[id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFormRepo) CountResponses(_ context.Context, formID string) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.responses[formID])), nil
}

func (m *mockFormRepo) SetAcceptingResponses(_ context.Context, formID string, accepting bool) error {
	m.setAcceptCalls++
	if m.setAcceptErr != nil {
		return m.setAcceptErr
	}
	if f, ok := m.forms[formID]; ok {
		f.AcceptingResponses = accepting
	}
	return nil
}

func (m *mockFormRepo) CreateResponse(_ context.Context, resp *model.FormResponse) error {
	if m.createErr != nil {
		return m.createErr
	}
	resp.ResponseID = fmt.Sprintf("resp-%d", len(m.responses[resp.FormID])+1)
	resp.SubmittedAt = time.Now()
	m.responses[resp.FormID] = append(m.responses[resp.FormID], *resp)
	return nil
}

// addResponses 直接写入 n 条提交
func (m *mockFormRepo) addResponses(formID string, n int) {
	for i := 0; i < n; i++ {
		m.responses[formID] = append(m.responses[formID], model.FormResponse{FormID: formID})
	}
}

// ── Mock SubmissionDispatcher ──

type mockDispatcher struct {
	formIDs []string
	onFire  func(ctx context.Context, formID string)
}

func (m *mockDispatcher) DispatchSubmission(ctx context.Context, formID string) {
	m.formIDs = append(m.formIDs, formID)
	if m.onFire != nil {
		m.onFire(ctx, formID)
	}
}
