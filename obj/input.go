package obj

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input is one frame of editor input, polled from the keyboard and mouse.
type Input struct {
	// MouseX/Y are the cursor position in screen pixels.
	MouseX float64
	MouseY float64
	// Click is true on the frame the left button was pressed.
	Click bool
	// Wheel is the vertical wheel delta this frame.
	Wheel float64
	// PanX/PanY is the drag delta while the right or middle button is held.
	PanX float64
	PanY float64

	// NudgeX/NudgeY is -1, 0 or +1 on the frame an arrow key was pressed.
	NudgeX float64
	NudgeY float64
	// Turn is -1 or +1 on the frame Q or E was pressed.
	Turn  float64
	Shift bool

	TogglePlay bool
	Stop       bool
	StepFrames int
	// JumpKey is -1 or +1 when [ or ] jumps to the previous or next key.
	JumpKey int

	ToggleMode    bool
	KeyPose       bool
	Interpolation bool
	Delete        bool
	ToggleLoop    bool
	RunScript     bool
	NextScript    bool

	Undo bool
	Redo bool
	Save bool
	Copy bool

	Help bool
	Quit bool

	dragging     bool
	lastX, lastY int
}

func NewInput() *Input {
	return &Input{}
}

func (i *Input) pressed(k ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(k)
}

// Update polls the devices and replaces the previous frame's state.
func (i *Input) Update() {
	mx, my := ebiten.CursorPosition()
	i.MouseX, i.MouseY = float64(mx), float64(my)
	i.Click = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	_, wy := ebiten.Wheel()
	i.Wheel = wy

	i.PanX, i.PanY = 0, 0
	drag := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if drag && i.dragging {
		i.PanX, i.PanY = float64(mx-i.lastX), float64(my-i.lastY)
	}
	i.dragging = drag
	i.lastX, i.lastY = mx, my

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	i.Shift = ebiten.IsKeyPressed(ebiten.KeyShift)

	i.NudgeX, i.NudgeY, i.Turn = 0, 0, 0
	if i.pressed(ebiten.KeyArrowLeft) {
		i.NudgeX = -1
	}
	if i.pressed(ebiten.KeyArrowRight) {
		i.NudgeX = 1
	}
	if i.pressed(ebiten.KeyArrowUp) {
		i.NudgeY = -1
	}
	if i.pressed(ebiten.KeyArrowDown) {
		i.NudgeY = 1
	}
	if i.pressed(ebiten.KeyQ) {
		i.Turn = -1
	}
	if i.pressed(ebiten.KeyE) {
		i.Turn = 1
	}

	i.TogglePlay = i.pressed(ebiten.KeySpace)
	i.Stop = i.pressed(ebiten.KeyHome)
	i.StepFrames = 0
	if i.pressed(ebiten.KeyComma) {
		i.StepFrames = -1
	}
	if i.pressed(ebiten.KeyPeriod) {
		i.StepFrames = 1
	}
	i.JumpKey = 0
	if i.pressed(ebiten.KeyBracketLeft) {
		i.JumpKey = -1
	}
	if i.pressed(ebiten.KeyBracketRight) {
		i.JumpKey = 1
	}

	i.ToggleMode = i.pressed(ebiten.KeyTab)
	i.KeyPose = i.pressed(ebiten.KeyK)
	i.Interpolation = i.pressed(ebiten.KeyI)
	i.Delete = i.pressed(ebiten.KeyDelete) || i.pressed(ebiten.KeyBackspace)
	i.ToggleLoop = i.pressed(ebiten.KeyL)
	g := i.pressed(ebiten.KeyG)
	i.RunScript = g && !i.Shift
	i.NextScript = g && i.Shift

	z := i.pressed(ebiten.KeyZ)
	i.Undo = ctrl && z && !i.Shift
	i.Redo = ctrl && (i.pressed(ebiten.KeyY) || (z && i.Shift))
	i.Save = ctrl && i.pressed(ebiten.KeyS)
	i.Copy = ctrl && i.pressed(ebiten.KeyC)

	i.Help = i.pressed(ebiten.KeyF1)
	i.Quit = i.pressed(ebiten.KeyEscape)
}
