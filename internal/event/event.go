// Package event holds the two kinds of event the host delivers.
package event

// SubRoll is one inline roll of a chat message.
type SubRoll struct {
	Expression string `json:"expression" yaml:"expression"`
	Result     int    `json:"result" yaml:"result"`
}

// Roll is a chat message that carries roll data. Content holds the
// {{key=value}} markers written by the roll template.
type Roll struct {
	Who      string    `json:"who" yaml:"who"`
	Template string    `json:"template" yaml:"template"`
	Content  string    `json:"content" yaml:"content"`
	Rolls    []SubRoll `json:"rolls" yaml:"rolls"`
}

func (r Roll) HasRollData() bool {
	return len(r.Rolls) > 0
}

// AttributeChange reports a write to one attribute together with the value
// it replaced.
type AttributeChange struct {
	CharacterID string
	Name        string
	Current     string
	Previous    string
}
