// Package entity defines the city's entities as a single tagged variant and
// the Store that owns them for the lifetime of a world.
package entity

import (
	"github.com/samber/oops"

	"github.com/vovakirdan/citywalk/internal/core"
)

// ID identifies an entity for its whole lifetime. IDs are never recycled and
// the zero ID means "no entity".
type ID uint64

// None is the zero ID.
const None ID = 0

// Kind is the variant tag of an Entity.
type Kind uint8

const (
	KindNone Kind = iota
	KindPlayer
	KindBuilding
	KindItem
	KindEnemy
	KindNPC
	KindBackground
)

// Kinds lists every concrete kind in declaration order.
var Kinds = []Kind{KindPlayer, KindBuilding, KindItem, KindEnemy, KindNPC, KindBackground}

// String returns the lowercase name used in config files, logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindBuilding:
		return "building"
	case KindItem:
		return "item"
	case KindEnemy:
		return "enemy"
	case KindNPC:
		return "npc"
	case KindBackground:
		return "background"
	default:
		return "none"
	}
}

// ParseKind is the inverse of Kind.String. Unknown names return KindNone.
func ParseKind(s string) Kind {
	for _, k := range Kinds {
		if k.String() == s {
			return k
		}
	}
	return KindNone
}

// Collides reports whether entities of this kind take part in collision.
func (k Kind) Collides() bool {
	return k != KindNone && k != KindBackground
}

// Mobile reports whether entities of this kind patrol on their own.
func (k Kind) Mobile() bool {
	return k == KindEnemy || k == KindNPC
}

// Entity is one thing in the world. Kind selects which Payload type is carried.
type Entity struct {
	ID      ID
	Kind    Kind
	Box     core.Rect
	Payload Payload
}

// Payload is the kind-specific part of an Entity.
type Payload interface {
	clone() Payload
}

// PlayerData is the payload of the player.
type PlayerData struct {
	VX    float64 // Horizontal velocity in world units per tick
	Speed float64 // Magnitude applied by MovePlayer
}

// BuildingData is the payload of a static building.
type BuildingData struct {
	Name        string // Display name, e.g. コンビニ
	Label       string // ASCII label for terminals
	Subtype     string // shop, restaurant, house, mall, school
	DialogTopic string
}

// ItemSubtype distinguishes collectibles.
type ItemSubtype string

const (
	ItemCoin ItemSubtype = "coin"
	ItemGem  ItemSubtype = "gem"
)

// ItemData is the payload of a collectible.
type ItemData struct {
	Subtype ItemSubtype
}

// MoverData is the payload of patrolling enemies and NPCs.
type MoverData struct {
	VX          float64
	Name        string
	DialogTopic string // NPC only
}

// BackgroundData is the payload of a background tile.
type BackgroundData struct {
	TileIndex int
	Special   bool
}

func (p *PlayerData) clone() Payload     { c := *p; return &c }
func (p *BuildingData) clone() Payload   { c := *p; return &c }
func (p *ItemData) clone() Payload       { c := *p; return &c }
func (p *MoverData) clone() Payload      { c := *p; return &c }
func (p *BackgroundData) clone() Payload { c := *p; return &c }

// NewPlayer builds the player entity.
func NewPlayer(box core.Rect, speed float64) Entity {
	return Entity{Kind: KindPlayer, Box: box, Payload: &PlayerData{Speed: speed}}
}

// NewBuilding builds a static building.
func NewBuilding(box core.Rect, data BuildingData) Entity {
	return Entity{Kind: KindBuilding, Box: box, Payload: &data}
}

// NewItem builds a collectible.
func NewItem(box core.Rect, subtype ItemSubtype) Entity {
	return Entity{Kind: KindItem, Box: box, Payload: &ItemData{Subtype: subtype}}
}

// NewEnemy builds a patrolling enemy.
func NewEnemy(box core.Rect, vx float64) Entity {
	return Entity{Kind: KindEnemy, Box: box, Payload: &MoverData{VX: vx}}
}

// NewNPC builds a patrolling NPC that can be talked to.
func NewNPC(box core.Rect, vx float64, name, topic string) Entity {
	return Entity{Kind: KindNPC, Box: box, Payload: &MoverData{VX: vx, Name: name, DialogTopic: topic}}
}

// NewBackground builds a background tile.
func NewBackground(box core.Rect, index int, special bool) Entity {
	return Entity{Kind: KindBackground, Box: box, Payload: &BackgroundData{TileIndex: index, Special: special}}
}

// Clone returns a deep copy, safe to hand out as a read-only snapshot.
func (e Entity) Clone() Entity {
	if e.Payload != nil {
		e.Payload = e.Payload.clone()
	}
	return e
}

// Velocity returns the horizontal velocity of moving kinds and 0 otherwise.
func (e *Entity) Velocity() float64 {
	switch p := e.Payload.(type) {
	case *PlayerData:
		return p.VX
	case *MoverData:
		return p.VX
	default:
		return 0
	}
}

// SetVelocity sets the horizontal velocity. It reports false for static kinds.
func (e *Entity) SetVelocity(vx float64) bool {
	switch p := e.Payload.(type) {
	case *PlayerData:
		p.VX = vx
	case *MoverData:
		p.VX = vx
	default:
		return false
	}
	return true
}

// Name returns a display name, falling back to the kind name.
func (e *Entity) Name() string {
	switch p := e.Payload.(type) {
	case *BuildingData:
		if p.Label != "" {
			return p.Label
		}
		if p.Name != "" {
			return p.Name
		}
		return p.Subtype
	case *MoverData:
		if p.Name != "" {
			return p.Name
		}
	case *ItemData:
		return string(p.Subtype)
	}
	return e.Kind.String()
}

// DialogTopic returns the dialog topic key of buildings and NPCs.
func (e *Entity) DialogTopic() string {
	switch p := e.Payload.(type) {
	case *BuildingData:
		return p.DialogTopic
	case *MoverData:
		if e.Kind == KindNPC {
			return p.DialogTopic
		}
	}
	return ""
}

// Interactable reports whether the player can talk to this entity.
func (e *Entity) Interactable() bool {
	return e.Kind == KindBuilding || e.Kind == KindNPC
}

// Validate checks dimensions and that the payload matches the kind.
func (e *Entity) Validate() error {
	if !e.Box.Valid() {
		return InvalidGeometry(e)
	}

	var ok bool
	switch e.Payload.(type) {
	case *PlayerData:
		ok = e.Kind == KindPlayer
	case *BuildingData:
		ok = e.Kind == KindBuilding
	case *ItemData:
		ok = e.Kind == KindItem
	case *MoverData:
		ok = e.Kind == KindEnemy || e.Kind == KindNPC
	case *BackgroundData:
		ok = e.Kind == KindBackground
	}
	if !ok {
		return oops.In("entity").
			Code(CodeInvalidEntity).
			With("kind", e.Kind.String()).
			Errorf("payload %T does not match kind %s", e.Payload, e.Kind)
	}
	return nil
}
