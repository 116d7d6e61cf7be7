package gallery

// Pref carries per-request UI preferences extracted from cookies.
type Pref struct {
	Theme string
}

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

func DefaultPref() Pref {
	return Pref{Theme: ThemeLight}
}
