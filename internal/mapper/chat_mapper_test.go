package mapper

import (
	"testing"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/pkg/stepmode"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func TestChatSessionStepContextRoundTrip(t *testing.T) {
	m := NewChatMapper()

	plan := "2. Configure DNS\n3. Enable TLS"
	e := &entity.ChatSession{
		Id:     uuid.New(),
		UserId: uuid.New(),
		Title:  "Deploying to production",
		StepContext: stepmode.Context{
			ActivePlan:          true,
			TotalStepsEstimated: 3,
			CurrentStep:         1,
			PlanSummary:         "production deployment",
			FullPlanCache:       &plan,
			StepModeEnabled:     true,
		},
	}

	got := m.ChatSessionToEntity(m.ChatSessionToModel(e))

	if !got.StepContext.ActivePlan {
		t.Error("ActivePlan lost in round trip")
	}
	if got.StepContext.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d, want 1", got.StepContext.CurrentStep)
	}
	if got.StepContext.TotalStepsEstimated != 3 {
		t.Errorf("TotalStepsEstimated = %d, want 3", got.StepContext.TotalStepsEstimated)
	}
	if got.StepContext.FullPlanCache == nil || *got.StepContext.FullPlanCache != plan {
		t.Error("FullPlanCache lost in round trip")
	}
	if got.Title != e.Title {
		t.Errorf("Title = %q, want %q", got.Title, e.Title)
	}
}

func TestChatSessionToEntityCorruptStepContext(t *testing.T) {
	m := NewChatMapper()

	s := &model.ChatSession{
		Id:          uuid.New(),
		UserId:      uuid.New(),
		Title:       "Session",
		StepContext: datatypes.JSON([]byte(`not json`)),
	}

	got := m.ChatSessionToEntity(s)

	// Corrupt blobs fall back to defaults rather than failing the read.
	if got.StepContext.ActivePlan {
		t.Error("expected default inactive plan for corrupt step context")
	}
	if !got.StepContext.StepModeEnabled {
		t.Error("expected step mode enabled by default")
	}
}

func TestChatSessionToEntityNilParent(t *testing.T) {
	m := NewChatMapper()

	s := &model.ChatSession{
		Id:     uuid.New(),
		UserId: uuid.New(),
		Title:  "Root session",
	}

	got := m.ChatSessionToEntity(s)
	if got.ParentChatId != nil {
		t.Error("expected nil ParentChatId for root session")
	}
}
