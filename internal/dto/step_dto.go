package dto

import "github.com/google/uuid"

type StepStatusResponse struct {
	ActivePlan          bool   `json:"active_plan"`
	CurrentStep         int    `json:"current_step"`
	TotalStepsEstimated int    `json:"total_steps_estimated"`
	PlanSummary         string `json:"plan_summary"`
	StepModeEnabled     bool   `json:"step_mode_enabled"`
}

type NextStepResponse struct {
	Content string             `json:"content"`
	Status  StepStatusResponse `json:"status"`
}

type AllStepsResponse struct {
	PlanSummary         string `json:"plan_summary"`
	FullPlan            string `json:"full_plan"`
	CurrentStep         int    `json:"current_step"`
	TotalStepsEstimated int    `json:"total_steps_estimated"`
}

type ToggleStepModeRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Enabled       bool      `json:"enabled"`
}
