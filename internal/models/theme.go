package models

import "fmt"

// Theme - тема оформления клиента. Значение неизменяемо, Toggle возвращает новое.
type Theme string

const (
	// ThemeLight - светлая тема, используется по умолчанию.
	ThemeLight Theme = "light"
	// ThemeDark - тёмная тема.
	ThemeDark Theme = "dark"
)

// ParseTheme разбирает строковое значение темы.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("%w: unknown theme %q", ErrValidation, s)
	}
}

// IsLight сообщает, светлая ли тема. Пустое значение считается светлой темой.
func (t Theme) IsLight() bool {
	return t != ThemeDark
}

// Toggle возвращает противоположную тему.
func (t Theme) Toggle() Theme {
	if t.IsLight() {
		return ThemeDark
	}
	return ThemeLight
}
