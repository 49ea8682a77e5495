package domain

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Timer bounds in seconds.
const (
	MinTimerDuration     = 5
	MaxTimerDuration     = 60
	DefaultTimerDuration = 15
)

// Position is the screen corner the notification is anchored to.
type Position string

// Supported positions.
const (
	PositionBottomRight Position = "bottomRight"
	PositionBottomLeft  Position = "bottomLeft"
	PositionTopRight    Position = "topRight"
	PositionTopLeft     Position = "topLeft"
)

// FontSize is the quote text size preset.
type FontSize string

// Supported font sizes.
const (
	FontSizeSmall  FontSize = "small"
	FontSizeMedium FontSize = "medium"
	FontSizeLarge  FontSize = "large"
)

// Theme is the color scheme of the notification.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Settings holds the user preferences persisted between runs.
type Settings struct {
	TimerDuration int      `json:"timerDuration" validate:"min=5,max=60"`
	Position      Position `json:"position"      validate:"oneof=bottomRight bottomLeft topRight topLeft"`
	FontSize      FontSize `json:"fontSize"      validate:"oneof=small medium large"`
	Category      Category `json:"category"      validate:"oneof=motivation learning creativity productivity all"`
	Theme         Theme    `json:"theme"         validate:"oneof=light dark"`
}

// Settings field names, matching both the struct fields and validator namespaces.
const (
	FieldTimerDuration = "TimerDuration"
	FieldPosition      = "Position"
	FieldFontSize      = "FontSize"
	FieldCategory      = "Category"
	FieldTheme         = "Theme"
)

// settingsJSONKeys maps struct field names to their JSON keys.
var settingsJSONKeys = map[string]string{
	FieldTimerDuration: "timerDuration",
	FieldPosition:      "position",
	FieldFontSize:      "fontSize",
	FieldCategory:      "category",
	FieldTheme:         "theme",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultSettings returns the settings used on first run and for invalid fields.
func DefaultSettings() Settings {
	return Settings{
		TimerDuration: DefaultTimerDuration,
		Position:      PositionBottomRight,
		FontSize:      FontSizeMedium,
		Category:      CategoryMotivation,
		Theme:         ThemeLight,
	}
}

// Validate checks every field and reports the first violation.
func (s Settings) Validate() error {
	return toValidationError(validate.Struct(s))
}

// ValidateField checks a single field by struct name (e.g. FieldTheme).
func (s Settings) ValidateField(field string) error {
	return toValidationError(validate.StructPartial(s, field))
}

// SetTimerDuration sets the countdown in seconds.
func (s *Settings) SetTimerDuration(seconds int) error {
	return s.set(FieldTimerDuration, func(c *Settings) { c.TimerDuration = seconds })
}

// SetPosition sets the screen corner.
func (s *Settings) SetPosition(p Position) error {
	return s.set(FieldPosition, func(c *Settings) { c.Position = p })
}

// SetFontSize sets the text size preset.
func (s *Settings) SetFontSize(f FontSize) error {
	return s.set(FieldFontSize, func(c *Settings) { c.FontSize = f })
}

// SetCategory sets the quote category.
func (s *Settings) SetCategory(c Category) error {
	return s.set(FieldCategory, func(cp *Settings) { cp.Category = c })
}

// SetTheme sets the color scheme.
func (s *Settings) SetTheme(t Theme) error {
	return s.set(FieldTheme, func(c *Settings) { c.Theme = t })
}

// ToggleTheme switches between light and dark.
func (s *Settings) ToggleTheme() {
	if s.Theme == ThemeDark {
		s.Theme = ThemeLight
		return
	}

	s.Theme = ThemeDark
}

// set applies mutate to a copy and commits it only when field stays valid.
func (s *Settings) set(field string, mutate func(*Settings)) error {
	candidate := *s
	mutate(&candidate)

	if err := candidate.ValidateField(field); err != nil {
		return err
	}

	*s = candidate

	return nil
}

// toValidationError converts validator output to a domain ValidationError.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError("", err.Error())
	}

	fe := fieldErrs[0]
	key := settingsJSONKeys[fe.Field()]
	if key == "" {
		key = fe.Field()
	}

	switch fe.Tag() {
	case "min", "max":
		return NewValidationErrorWithValue(key, "must be between 5 and 60 seconds", fe.Value())
	case "oneof":
		return NewValidationErrorWithValue(key, "must be one of: "+fe.Param(), fe.Value())
	default:
		return NewValidationErrorWithValue(key, "failed validation: "+fe.Tag(), fe.Value())
	}
}
