package city

import (
	"fmt"
	"math"

	"github.com/vovakirdan/citywalk/internal/core"
	"github.com/vovakirdan/citywalk/internal/entity"
)

// Screen layout
const (
	hudRows    = 1
	footerRows = 1
	// cellAspect is the width of a terminal cell relative to its height.
	cellAspect = 0.5
)

// Visual characters for rendering
const (
	GroundChar = '▀'
	SeamChar   = '┴'
	TreeChar   = '♣'
	CoinChar   = '●'
	GemChar    = '◆'
	NPCChar    = '▒'
	EnemyChar  = '▓'
	PlayerChar = '█'
	WindowChar = '▪'
	DoorChar   = '▌'
)

// drawOrder paints later kinds over earlier ones.
var drawOrder = []entity.Kind{
	entity.KindBuilding,
	entity.KindItem,
	entity.KindNPC,
	entity.KindEnemy,
	entity.KindPlayer,
}

func sceneRows(height int) int {
	return max(height-hudRows-footerRows, 0)
}

// projection maps world units to screen cells.
type projection struct {
	left   float64 // world x at column 0
	scaleX float64 // world units per column
	scaleY float64 // world units per row
	top    int     // first scene row
	rows   int
}

func (g *Game) projection(dst *core.Screen) projection {
	rows := sceneRows(dst.Height())
	return projection{
		left:   g.world.Camera().X,
		scaleX: g.world.Viewport().W / float64(dst.Width()),
		scaleY: g.settings.City.World.Height / float64(rows),
		top:    hudRows,
		rows:   rows,
	}
}

func (p projection) col(x float64) int {
	return int(math.Floor((x - p.left) / p.scaleX))
}

func (p projection) row(y float64) int {
	return p.top + int(math.Floor(y/p.scaleY))
}

// cells returns the screen rectangle covering r, at least one cell in size.
func (p projection) cells(r core.Rect) (x, y, w, h int) {
	x, y = p.col(r.X), p.row(r.Y)
	w = max(p.col(r.Right())-x, 1)
	h = max(p.row(r.Bottom())-y, 1)
	return x, y, w, h
}

func (p projection) ground() int {
	return p.top + p.rows - 1
}

// Render draws the visible slice of the city, the HUD and any overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.world == nil || dst.Width() == 0 || sceneRows(dst.Height()) == 0 || g.world.Viewport().W <= 0 {
		return
	}

	p := g.projection(dst)
	left := p.left
	right := left + g.world.Viewport().W

	g.drawStreet(dst, p, left, right)

	visible := g.world.Query(left, right)
	for _, kind := range drawOrder {
		for _, e := range visible {
			if e.Kind == kind {
				g.drawEntity(dst, p, e)
			}
		}
	}

	g.drawHUD(dst)
	g.drawFooter(dst)

	if g.talk.Open() {
		g.drawDialog(dst)
	}
	if g.paused {
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if g.over {
		drawCenteredMessage(dst, "CITY CLEARED",
			fmt.Sprintf("Score: %d  |  Press R to walk again", g.score))
	}
}

// drawStreet draws the ground line with tile seams and a tree on every
// wide tile.
func (g *Game) drawStreet(dst *core.Screen, p projection, left, right float64) {
	ground := p.ground()
	dst.DrawHLine(0, ground, dst.Width(), GroundChar, core.ColorGray)

	for _, bg := range g.world.Backgrounds(left, right) {
		x := p.col(bg.Box.X)
		dst.SetColored(x, ground, SeamChar, core.ColorGray)
		if data, ok := bg.Payload.(*entity.BackgroundData); ok && data.Special {
			dst.SetColored(x+1, ground-1, TreeChar, core.ColorGreen)
		}
	}
}

func (g *Game) drawEntity(dst *core.Screen, p projection, e entity.Entity) {
	x, y, w, h := p.cells(e.Box)
	touching := e.Kind != entity.KindPlayer && g.world.IsColliding(e.ID)

	switch data := e.Payload.(type) {
	case *entity.BuildingData:
		color := buildingColor(data.Subtype)
		if touching {
			color = core.ColorBrightYellow
		}
		drawBuilding(dst, x, y, w, h, color, e.Name())

	case *entity.ItemData:
		r, color := GemChar, core.ColorBrightCyan
		if data.Subtype == entity.ItemCoin {
			r, color = CoinChar, core.ColorGold
		}
		dst.FillRect(x, y, w, h, r, color)

	case *entity.MoverData:
		r, color := NPCChar, core.ColorGreen
		if e.Kind == entity.KindEnemy {
			r, color = EnemyChar, core.ColorRed
		}
		dst.FillRect(x, y, w, h, r, color)
		if e.Kind == entity.KindNPC && touching {
			dst.DrawTextColored(x, y-1, e.Name(), core.ColorBrightGreen)
		}

	case *entity.PlayerData:
		dst.FillRect(x, y, w, h, PlayerChar, core.ColorBrightWhite)
	}
}

func drawBuilding(dst *core.Screen, x, y, w, h int, color core.Color, label string) {
	dst.FillRect(x+1, y+1, w-2, h-2, ' ', core.ColorDefault)
	dst.DrawBox(x, y, w, h, color)

	if w > 2 {
		label = clip(label, w-2)
		dst.DrawTextColored(x+1+(w-2-len([]rune(label)))/2, y+1, label, color)
	}

	// Windows on every other row, a door at the bottom.
	for wy := y + 3; wy < y+h-2; wy += 2 {
		for wx := x + 2; wx < x+w-2; wx += 3 {
			dst.SetColored(wx, wy, WindowChar, core.ColorGray)
		}
	}
	if h > 3 {
		dst.SetColored(x+w/2, y+h-2, DoorChar, color)
	}
}

func buildingColor(subtype string) core.Color {
	switch subtype {
	case "shop":
		return core.ColorTeal
	case "restaurant":
		return core.ColorOrange
	case "house":
		return core.ColorBrown
	case "mall":
		return core.ColorPurple
	case "school":
		return core.ColorPink
	default:
		return core.ColorWhite
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	st := g.State()
	hud := fmt.Sprintf(" Score: %d  Items: %d/%d  Contacts: %d  Nearby: %d ",
		st.Score, st.Items, g.totalItems, g.contacts, g.world.ActiveCollisions())
	dst.DrawTextColored(0, 0, hud, core.ColorBrightWhite)

	pos := fmt.Sprintf(" x %.0f/%.0f  t %d ", g.world.Player().Box.X, g.world.WorldWidth(), st.Ticks)
	dst.DrawTextColored(dst.Width()-len(pos), 0, pos, core.ColorGray)
}

func (g *Game) drawFooter(dst *core.Screen) {
	y := dst.Height() - 1
	if g.notice != "" {
		dst.DrawTextColored(1, y, clip(g.notice, dst.Width()-2), core.ColorBrightYellow)
		return
	}
	help := "←/→ walk  ↓ stop  Enter talk  P pause  Q quit"
	if g.talk.Open() {
		help = "↑/↓ choose  Enter or 1-3 answer  Esc leave"
	}
	dst.DrawTextColored(1, y, clip(help, dst.Width()-2), core.ColorGray)
}

// drawDialog draws the conversation box above the footer.
func (g *Game) drawDialog(dst *core.Screen) {
	node := g.talk.Node()
	boxW := min(dst.Width()-2, 72)
	boxH := len(node.Options) + 4
	boxX := (dst.Width() - boxW) / 2
	boxY := dst.Height() - footerRows - boxH
	inner := boxW - 4

	dst.FillRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH, core.ColorBrightWhite)
	dst.DrawTextColored(boxX+2, boxY, clip(" "+g.talk.Name()+" ", inner), core.ColorBrightYellow)
	dst.DrawTextColored(boxX+2, boxY+1, clip(node.EN, inner), core.ColorBrightWhite)

	for i, opt := range node.Options {
		line := fmt.Sprintf("  %d. %s", i+1, opt.EN)
		color := core.ColorGray
		if i == g.talk.Cursor() {
			line = fmt.Sprintf("> %d. %s", i+1, opt.EN)
			color = core.ColorBrightCyan
		}
		if opt.Reward > 0 {
			line += fmt.Sprintf(" (+%d)", opt.Reward)
		}
		dst.DrawTextColored(boxX+2, boxY+3+i, clip(line, inner), color)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(len(title), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.FillRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH, core.ColorBrightWhite)
	dst.DrawTextColored(boxX+(boxW-len(title))/2, boxY+1, title, core.ColorBrightYellow)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}

// clip truncates s to at most n runes.
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
