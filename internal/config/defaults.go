package config

import (
	_ "embed"

	"github.com/vovakirdan/citywalk/internal/dialog"
)

//go:embed defaults/city.yaml
var defaultCityYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultCityYAML
}

// DefaultCityConfig returns the default city configuration.
func DefaultCityConfig() CityConfig {
	return CityConfig{
		World: WorldConfig{
			Tiles:     200,
			TileWidth: 200,
			WideWidth: 300,
			WideEvery: 10,
			Height:    500,
			CellSize:  200,
		},
		Player: PlayerConfig{
			X:      400,
			Y:      300,
			Width:  60,
			Height: 100,
			Speed:  5,
		},
		Camera: CameraConfig{
			Smoothing:      0.1,
			ViewportWidth:  800,
			ViewportHeight: 600,
		},
		Collision: CollisionConfig{
			Buffer: 300,
		},
		Buildings: []BuildingConfig{
			{X: 500, Y: 100, Width: 150, Height: 400, Subtype: "shop", Name: "コンビニ", Label: "Konbini", Dialog: "shop"},
			{X: 1200, Y: 100, Width: 200, Height: 400, Subtype: "restaurant", Name: "レストラン", Label: "Restaurant", Dialog: "restaurant"},
			{X: 2100, Y: 100, Width: 120, Height: 400, Subtype: "house", Name: "家", Label: "House", Dialog: "npc"},
			{X: 3500, Y: 100, Width: 250, Height: 400, Subtype: "mall", Name: "ショッピングモール", Label: "Mall", Dialog: "shop"},
			{X: 5000, Y: 100, Width: 180, Height: 400, Subtype: "school", Name: "学校", Label: "School", Dialog: "school"},
			{X: 6500, Y: 100, Width: 150, Height: 400, Subtype: "shop", Name: "スーパー", Label: "Supermarket", Dialog: "shop"},
			{X: 8000, Y: 100, Width: 200, Height: 400, Subtype: "restaurant", Name: "寿司屋", Label: "Sushi", Dialog: "restaurant"},
		},
		NPCs: MoverGroup{
			Count:    12,
			StartX:   800,
			Spacing:  600,
			Y:        320,
			Width:    50,
			Height:   90,
			MaxSpeed: 0.5,
			Dialog:   "npc",
			Names:    []string{"Yuki", "Haruto", "Sakura", "Ren", "Aoi", "Sota"},
		},
		Items: ItemGroup{
			Count:     25,
			StartX:    600,
			Spacing:   400,
			Y:         380,
			Width:     40,
			Height:    40,
			CoinEvery: 3,
		},
		Enemies: MoverGroup{
			Count:    7,
			StartX:   1500,
			Spacing:  1000,
			Y:        320,
			Width:    50,
			Height:   80,
			MaxSpeed: 1,
		},
		Scoring: ScoringConfig{
			Gem:  10,
			Coin: 5,
		},
		Input: InputConfig{
			HoldTicks: 30,
		},
		Dialogs: defaultDialogs(),
	}
}

func defaultDialogs() dialog.Book {
	return dialog.Book{
		"shop": {
			"greeting": {
				JP: "いらっしゃいませ！何かお探しですか？",
				EN: "Welcome! Are you looking for something?",
				Options: []dialog.Option{
					{ID: "a", JP: "はい、お願いします", EN: "Yes, please", Next: "products"},
					{ID: "b", JP: "見ているだけです", EN: "Just looking", Next: "thanks"},
					{ID: "c", JP: "また来ます", EN: "I'll come back later"},
				},
			},
			"products": {
				JP: "食べ物や飲み物があります。どれがいいですか？",
				EN: "We have food and drinks. Which would you like?",
				Options: []dialog.Option{
					{ID: "a", JP: "水をください", EN: "Water, please", Reward: 5},
					{ID: "b", JP: "お菓子をください", EN: "Snacks, please", Reward: 10},
					{ID: "c", JP: "結構です", EN: "I'm fine, thanks"},
				},
			},
			"thanks": {
				JP: "そうですか。ごゆっくりどうぞ！",
				EN: "I see. Take your time!",
				Options: []dialog.Option{
					{ID: "a", JP: "ありがとうございます", EN: "Thank you"},
				},
			},
		},
		"npc": {
			"greeting": {
				JP: "こんにちは！お元気ですか？",
				EN: "Hello! How are you?",
				Options: []dialog.Option{
					{ID: "a", JP: "元気です！", EN: "I'm fine!", Next: "chat"},
					{ID: "b", JP: "お疲れ様です", EN: "Nice to see you", Next: "chat"},
					{ID: "c", JP: "さようなら", EN: "Goodbye"},
				},
			},
			"chat": {
				JP: "この街はとても綺麗ですね！",
				EN: "This city is very beautiful!",
				Options: []dialog.Option{
					{ID: "a", JP: "そうですね", EN: "Yes, it is", Reward: 5},
					{ID: "b", JP: "ありがとう", EN: "Thank you"},
				},
			},
		},
		"restaurant": {
			"greeting": {
				JP: "いらっしゃいませ！ご注文は？",
				EN: "Welcome! What would you like to order?",
				Options: []dialog.Option{
					{ID: "a", JP: "ラーメンをください", EN: "Ramen, please", Reward: 15},
					{ID: "b", JP: "カレーをください", EN: "Curry, please", Reward: 15},
					{ID: "c", JP: "まだ決めていません", EN: "I haven't decided yet"},
				},
			},
		},
		"school": {
			"greeting": {
				JP: "こんにちは！日本語を勉強していますか？",
				EN: "Hello! Are you studying Japanese?",
				Options: []dialog.Option{
					{ID: "a", JP: "はい、勉強しています", EN: "Yes, I am", Next: "lesson"},
					{ID: "b", JP: "いいえ、まだです", EN: "No, not yet", Next: "encourage"},
				},
			},
			"lesson": {
				JP: "素晴らしい！頑張ってください！",
				EN: "Wonderful! Keep it up!",
				Options: []dialog.Option{
					{ID: "a", JP: "ありがとうございます！", EN: "Thank you!", Reward: 20},
				},
			},
			"encourage": {
				JP: "大丈夫です！一緒に始めましょう！",
				EN: "That's okay! Let's start together!",
				Options: []dialog.Option{
					{ID: "a", JP: "お願いします", EN: "Please teach me", Reward: 10},
				},
			},
		},
	}
}
