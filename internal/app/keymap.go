package app

// Key binding constants used in handleKey.
const (
	KeyQuit         = "q"
	KeyQuitUpper    = "Q"
	KeyCtrlC        = "ctrl+c"
	KeyTab          = "tab"
	KeyShiftTab     = "shift+tab"
	KeyUp           = "up"
	KeyDown         = "down"
	KeyLeft         = "left"
	KeyRight        = "right"
	KeyH            = "h"
	KeyL            = "l"
	KeyEnter        = "enter"
	KeyPgUp         = "pgup"
	KeyPgDown       = "pgdown"
	KeyCycleLang    = "ctrl+l"
	KeyTranscribe   = "ctrl+t"
	KeyReload       = "r"
	KeyGenerate     = "g"
	KeyPrevYear     = "["
	KeyNextYear     = "]"
	KeyToday        = "t"
	KeyTranslate    = "t"
	KeyLanguagePref = "l"
)
