package dto

import (
	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/domain"
)

// SettingsRequest is the body of PUT /api/v1/settings. Absent fields are
// left unchanged. The bounds mirror the domain setters, which still run.
type SettingsRequest struct {
	TimerDuration *int    `json:"timerDuration" validate:"omitempty,min=5,max=60"`
	Position      *string `json:"position"      validate:"omitempty,oneof=bottomRight bottomLeft topRight topLeft"`
	FontSize      *string `json:"fontSize"      validate:"omitempty,oneof=small medium large"`
	Category      *string `json:"category"      validate:"omitempty,oneof=motivation learning creativity productivity all"`
	Theme         *string `json:"theme"         validate:"omitempty,oneof=light dark"`
}

// Patch converts the request into a settings patch.
func (r SettingsRequest) Patch() app.SettingsPatch {
	patch := app.SettingsPatch{TimerDuration: r.TimerDuration}

	if r.Position != nil {
		p := domain.Position(*r.Position)
		patch.Position = &p
	}
	if r.FontSize != nil {
		f := domain.FontSize(*r.FontSize)
		patch.FontSize = &f
	}
	if r.Category != nil {
		c := domain.Category(*r.Category)
		patch.Category = &c
	}
	if r.Theme != nil {
		t := domain.Theme(*r.Theme)
		patch.Theme = &t
	}

	return patch
}
