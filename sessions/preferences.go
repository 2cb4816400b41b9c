package sessions

import "context"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// LoadTheme returns the stored theme. Anything other than "dark" is light.
func LoadTheme(ctx context.Context, store Store) (Theme, error) {
	value, _, err := store.Get(ctx, KeyTheme)
	if err != nil {
		return ThemeLight, err
	}
	if Theme(value) == ThemeDark {
		return ThemeDark, nil
	}
	return ThemeLight, nil
}

func SaveTheme(ctx context.Context, store Store, theme Theme) error {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	return store.Set(ctx, KeyTheme, string(theme))
}

// ToggleTheme flips and persists the theme, returning the new value
func ToggleTheme(ctx context.Context, store Store) (Theme, error) {
	current, err := LoadTheme(ctx, store)
	if err != nil {
		return current, err
	}
	next := ThemeDark
	if current == ThemeDark {
		next = ThemeLight
	}
	return next, SaveTheme(ctx, store, next)
}
