// Package dialog holds the bilingual conversation trees spoken by buildings
// and NPCs, and the cursor-driven Session the player walks through them with.
package dialog

import (
	"fmt"
	"slices"
	"sort"
)

// StartNode is the node every conversation opens with.
const StartNode = "greeting"

// DefaultTopic is used for interactables that name no topic.
const DefaultTopic = "npc"

// Option is one reply the player can pick.
type Option struct {
	ID     string `yaml:"id" jsonschema:"required"`
	JP     string `yaml:"jp" jsonschema:"required"`
	EN     string `yaml:"en" jsonschema:"required"`
	Next   string `yaml:"next,omitempty"`   // Empty closes the conversation
	Reward int    `yaml:"reward,omitempty" jsonschema:"minimum=0"`
}

// Node is one line of dialog and the replies to it.
type Node struct {
	JP      string   `yaml:"jp" jsonschema:"required"`
	EN      string   `yaml:"en" jsonschema:"required"`
	Options []Option `yaml:"options" jsonschema:"required,minItems=1"`
}

// Tree maps node keys to nodes for a single topic.
type Tree map[string]Node

// Book maps topics (shop, npc, restaurant, ...) to their trees.
type Book map[string]Tree

// Topics returns the topic names in sorted order.
func (b Book) Topics() []string {
	topics := make([]string, 0, len(b))
	for t := range b {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// Has reports whether topic exists and has a start node.
func (b Book) Has(topic string) bool {
	_, ok := b[topic][StartNode]
	return ok
}

// Validate checks that every tree has a start node and that every Next
// points at a node of the same tree.
func (b Book) Validate() error {
	for _, topic := range b.Topics() {
		tree := b[topic]
		if _, ok := tree[StartNode]; !ok {
			return fmt.Errorf("dialog %q has no %q node", topic, StartNode)
		}
		keys := make([]string, 0, len(tree))
		for k := range tree {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, key := range keys {
			node := tree[key]
			if len(node.Options) == 0 {
				return fmt.Errorf("dialog %q node %q has no options", topic, key)
			}
			for _, opt := range node.Options {
				if opt.Next != "" {
					if _, ok := tree[opt.Next]; !ok {
						return fmt.Errorf("dialog %q node %q option %q leads to unknown node %q", topic, key, opt.ID, opt.Next)
					}
				}
				if opt.Reward < 0 {
					return fmt.Errorf("dialog %q node %q option %q has negative reward", topic, key, opt.ID)
				}
			}
		}
	}
	return nil
}
